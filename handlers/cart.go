// cart.go - Handles the buyer's cart

package handlers

import (
	"errors"
	"net/http"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type CartInput struct {
	SampleID string `json:"sampleId" binding:"required"`
}

// loadCart returns the cart items whose samples are still approved and not
// deleted. Items that went stale after being added are skipped.
func loadCart(db *gorm.DB, userID string) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := db.Preload("Sample").Where("user_id = ?", userID).Order("created_at asc").Find(&items).Error; err != nil {
		return nil, err
	}
	live := items[:0]
	for _, it := range items {
		if it.Sample.ID != "" && it.Sample.Status == models.StatusApproved {
			live = append(live, it)
		}
	}
	return live, nil
}

// purchased reports whether the user already owns the sample
func purchased(db *gorm.DB, userID, sampleID string) (bool, error) {
	var n int64
	err := db.Table("order_samples").
		Joins("JOIN orders ON orders.id = order_samples.order_id").
		Where("orders.user_id = ? AND order_samples.sample_id = ?", userID, sampleID).
		Count(&n).Error
	return n > 0, err
}

func respondCart(c *gin.Context, userID string) {
	items, err := loadCart(database.DB, userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load cart"})
		return
	}
	view, _ := models.NewCartView(items)
	c.JSON(http.StatusOK, view)
}

func GetCart(c *gin.Context) {
	respondCart(c, c.GetString("user_id"))
}

// AddToCart - Puts one approved sample in the caller's cart
func AddToCart(c *gin.Context) {
	// STEP 1: Parse the request
	var input CartInput
	if err := c.ShouldBindJSON(&input); err != nil { // sampleId is required
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("user_id") // Set by AuthMiddleware

	// STEP 2: The sample must be on sale, not the caller's own, and not already bought
	var sample models.Sample
	if err := database.DB.Where("id = ? AND status = ?", input.SampleID, models.StatusApproved).First(&sample).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"})
		return
	}
	if sample.CreatorID == userID {
		c.JSON(http.StatusBadRequest, gin.H{"error": "you cannot buy your own sample"})
		return
	}
	owned, err := purchased(database.DB, userID, sample.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	if owned {
		c.JSON(http.StatusConflict, gin.H{"error": "you already own this sample"})
		return
	}

	// STEP 3: Insert; the unique (user, sample) index catches double adds
	item := models.CartItem{UserID: userID, SampleID: sample.ID}
	if err := database.DB.Create(&item).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) { // Already in the cart
			c.JSON(http.StatusConflict, gin.H{"error": "sample already in cart"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	respondCart(c, userID) // Return the updated cart
}

// RemoveFromCart - Takes one sample out of the caller's cart
func RemoveFromCart(c *gin.Context) {
	var input CartInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	userID := c.GetString("user_id")

	res := database.DB.Where("user_id = ? AND sample_id = ?", userID, input.SampleID).Delete(&models.CartItem{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update cart"})
		return
	}
	if res.RowsAffected == 0 { // Nothing to remove
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not in cart"})
		return
	}
	respondCart(c, userID)
}
