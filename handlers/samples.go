// samples.go - Catalog browsing and creator uploads

package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/events"
	"lusionbeatz-backend/middleware"
	"lusionbeatz-backend/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// UploadInput is the multipart form of POST /api/samples/upload
type UploadInput struct {
	Title       string `form:"title" binding:"required,min=2,max=120"`
	Type        string `form:"type" binding:"required,oneof=loop oneshot"`
	Genre       string `form:"genre" binding:"required,max=60"`
	BPM         int    `form:"bpm" binding:"omitempty,min=20,max=400"`
	Key         string `form:"key" binding:"max=20"`
	Price       string `form:"price" binding:"required"`
	Description string `form:"description" binding:"max=2000"`
}

// ListSamples returns approved samples, optionally filtered by type and genre.
// Only approved samples are ever listed publicly, whatever status is asked for.
func ListSamples(c *gin.Context) {
	q := database.DB.Where("status = ?", models.StatusApproved)
	if t := c.Query("type"); t != "" {
		if !models.ValidType(t) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "type must be loop or oneshot"})
			return
		}
		q = q.Where("type = ?", t)
	}
	if g := strings.TrimSpace(c.Query("genre")); g != "" {
		q = q.Where("LOWER(genre) = ?", strings.ToLower(g))
	}

	samples := []models.Sample{}
	if err := q.Order("created_at desc").Find(&samples).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load samples"})
		return
	}
	c.JSON(http.StatusOK, samples)
}

// GetSample returns one sample. Approved samples are public; a pending or
// rejected one is only shown to its creator and to admins.
func GetSample(c *gin.Context) {
	var sample models.Sample
	if err := database.DB.First(&sample, "id = ?", c.Param("id")).Error; err != nil { // Soft-deleted rows are skipped
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"})
		return
	}
	if sample.Status != models.StatusApproved {
		user := middleware.CurrentUser(c) // Zero user when not signed in
		if user.ID == "" || (sample.CreatorID != user.ID && !user.IsAdmin()) {
			c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"}) // Same answer as a missing sample
			return
		}
	}
	c.JSON(http.StatusOK, sample)
}

// UploadSample accepts a new sample from an approved creator. It starts pending.
func UploadSample(c *gin.Context) {
	// STEP 1: Only verified, approved creators may upload
	user := middleware.CurrentUser(c)
	if !user.Verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "verify your email first"})
		return
	}
	if !user.ApprovedCreator {
		c.JSON(http.StatusForbidden, gin.H{"error": "creator approval pending"})
		return
	}

	// STEP 2: Validate the form fields and the price
	var input UploadInput
	if err := c.ShouldBind(&input); err != nil { // Multipart form fields
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	price, err := models.ParseAmount(input.Price)
	if err != nil || price <= 0 || price > models.MaxSamplePrice {
		c.JSON(http.StatusBadRequest, gin.H{"error": "price must be between 0.01 and " + models.MaxSamplePrice.String()})
		return
	}

	// STEP 3: Store the audio (required) and the cover (optional)

	audio, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}
	audioURL, audioPath, err := storeUpload(audio, "audio/", maxAudioBytes)
	if err != nil {
		uploadError(c, err)
		return
	}
	stored := []string{audioPath}

	var coverURL string
	if cover, err := c.FormFile("cover"); err == nil {
		url, path, err := storeUpload(cover, "image/", maxCoverBytes)
		if err != nil {
			removeFiles(stored)
			uploadError(c, err)
			return
		}
		coverURL = url
		stored = append(stored, path)
	}

	// STEP 4: Save the sample as pending; files are removed if this fails
	sample := models.Sample{
		CreatorID:   user.ID,
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Type:        input.Type,
		Genre:       strings.TrimSpace(input.Genre),
		BPM:         input.BPM,
		Key:         strings.TrimSpace(input.Key),
		Price:       price,
		Status:      models.StatusPending,
		AudioURL:    audioURL,
		CoverURL:    coverURL,
	}
	if err := database.DB.Create(&sample).Error; err != nil {
		removeFiles(stored)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not save sample"})
		return
	}

	// STEP 5: Tell the admins something is waiting for review
	events.Emit(events.SampleUploaded, gin.H{"id": sample.ID, "title": sample.Title, "creatorId": user.ID})
	c.JSON(http.StatusCreated, sample)
}

// MyUploads lists the caller's samples in every status
func MyUploads(c *gin.Context) {
	samples := []models.Sample{}
	if err := database.DB.Where("creator_id = ?", c.GetString("user_id")).
		Order("created_at desc").Find(&samples).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load uploads"})
		return
	}
	c.JSON(http.StatusOK, samples)
}

func uploadError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, errFileTooLarge):
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": err.Error()})
	case errors.Is(err, errWrongKind):
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": err.Error()})
	default:
		zap.L().Error("upload failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not store file"})
	}
}

func removeFiles(paths []string) {
	for _, p := range paths {
		_ = os.Remove(p)
	}
}
