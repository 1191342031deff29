// uploads.go - Stores sample audio and cover art on local disk

package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"lusionbeatz-backend/config"
)

const (
	maxAudioBytes = 50 << 20 // 50 MiB
	maxCoverBytes = 5 << 20  // 5 MiB
)

// UploadsRoute is where stored files are served from.
const UploadsRoute = "/uploads"

var (
	errFileTooLarge = errors.New("file too large")
	errWrongKind    = errors.New("unsupported file type")
)

// isKind reports whether the detected type, or one of its parents, starts with prefix
func isKind(mt *mimetype.MIME, prefix string) bool {
	for m := mt; m != nil; m = m.Parent() {
		if strings.HasPrefix(m.String(), prefix) {
			return true
		}
	}
	return false
}

// storeUpload sniffs the file, checks it is of the wanted kind ("audio/" or
// "image/") and writes it under UPLOAD_DIR with a random name. It returns the
// public URL and the path on disk.
func storeUpload(fh *multipart.FileHeader, kind string, maxBytes int64) (string, string, error) {
	if fh.Size > maxBytes {
		return "", "", fmt.Errorf("%s: %w", fh.Filename, errFileTooLarge)
	}

	f, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	mt, err := mimetype.DetectReader(f)
	f.Close()
	if err != nil {
		return "", "", err
	}
	if !isKind(mt, kind) {
		return "", "", fmt.Errorf("%s is %s: %w", fh.Filename, mt.String(), errWrongKind)
	}

	dir := config.Load().UploadDir
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", err
	}
	name := uuid.NewString() + mt.Extension()
	path := filepath.Join(dir, name)

	src, err := fh.Open()
	if err != nil {
		return "", "", err
	}
	defer src.Close()
	dst, err := os.Create(path)
	if err != nil {
		return "", "", err
	}
	if _, err := dst.ReadFrom(src); err != nil {
		dst.Close()
		os.Remove(path)
		return "", "", err
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", "", err
	}
	return UploadsRoute + "/" + name, path, nil
}
