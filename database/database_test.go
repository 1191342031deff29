package database

import (
	"path/filepath"
	"testing"

	"lusionbeatz-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestConnectSeedsAdminOnce(t *testing.T) {
	t.Setenv("CREATE_ADMIN", "true")
	t.Setenv("ADMIN_EMAIL", "root@test.com")
	t.Setenv("ADMIN_PASSWORD", "changeme")
	path := filepath.Join(t.TempDir(), "seed.db")

	require.NoError(t, Connect(path))
	require.NoError(t, Close())
	require.NoError(t, Connect(path)) // second start must not seed again
	defer Close()

	var admins []models.User
	require.NoError(t, DB.Where("role = ?", models.RoleAdmin).Find(&admins).Error)
	require.Len(t, admins, 1)
	assert.Equal(t, "root@test.com", admins[0].Email)
	assert.True(t, admins[0].Verified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admins[0].Password), []byte("changeme")))
}

func TestConnectWithoutSeed(t *testing.T) {
	t.Setenv("CREATE_ADMIN", "true")
	t.Setenv("ADMIN_PASSWORD", "")
	require.NoError(t, Connect(filepath.Join(t.TempDir(), "empty.db")))
	defer Close()

	var n int64
	require.NoError(t, DB.Model(&models.User{}).Count(&n).Error)
	assert.Zero(t, n)
}
