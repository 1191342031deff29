// orders.go - UPI checkout: order creation from the cart and purchase history

package handlers

import (
	"errors"
	"net/http"

	"lusionbeatz-backend/config"
	"lusionbeatz-backend/database"
	"lusionbeatz-backend/events"
	"lusionbeatz-backend/mailer"
	"lusionbeatz-backend/middleware"
	"lusionbeatz-backend/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// CreateOrderInput carries the UTR the buyer copied from their payment app
type CreateOrderInput struct {
	UTR string `json:"utr" binding:"required,min=6,max=20,alphanum"`
}

var (
	errEmptyCart    = errors.New("cart is empty")
	errDuplicateUTR = errors.New("this UTR has already been used")
)

// CheckoutInfo tells the client where to send the UPI payment
func CheckoutInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"upiId": config.Load().UPIID})
}

// splitEarnings gives the platform its percentage (rounded) and the creators the rest
func splitEarnings(amount models.Amount, feePercent int64) (creator, platform models.Amount) {
	if feePercent < 0 {
		feePercent = 0
	}
	if feePercent > 100 {
		feePercent = 100
	}
	platform = amount.Percent(feePercent)
	return amount - platform, platform
}

// CreateOrder turns the caller's cart into a confirmed order. Pricing, the
// order row, its samples and clearing the cart happen in one transaction, so a
// failure leaves the cart as it was.
func CreateOrder(c *gin.Context) {
	// STEP 1: Validate the UTR
	var input CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please enter a valid UTR number"})
		return
	}
	user := middleware.CurrentUser(c) // Buyer, loaded by AuthMiddleware
	cfg := config.Load()              // For the platform fee and download base URL

	// STEP 2: Price the cart and write the order in one transaction
	var order models.Order
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		items, err := loadCart(tx, user.ID)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			return errEmptyCart // Nothing (still) purchasable in the cart
		}

		var used int64
		if err := tx.Model(&models.Order{}).Where("utr = ?", input.UTR).Count(&used).Error; err != nil {
			return err
		}
		if used > 0 {
			return errDuplicateUTR // One payment, one order
		}

		_, amount := models.NewCartView(items)
		creator, platform := splitEarnings(amount, cfg.PlatformFeePercent)
		order = models.Order{
			UserID:          user.ID,
			Amount:          amount,
			CreatorEarning:  creator,
			PlatformEarning: platform,
			UTR:             input.UTR,
		}
		for _, it := range items {
			order.Samples = append(order.Samples, it.Sample)
		}

		// Samples already exist; only the join rows are written
		if err := tx.Omit("Samples.*").Create(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errDuplicateUTR
			}
			return err
		}
		return tx.Where("user_id = ?", user.ID).Delete(&models.CartItem{}).Error // Clear the cart
	})

	// STEP 3: Map failures to responses; the cart is untouched on any of them
	switch {
	case errors.Is(err, errEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Your cart is empty"})
		return
	case errors.Is(err, errDuplicateUTR):
		c.JSON(http.StatusConflict, gin.H{"error": errDuplicateUTR.Error()})
		return
	case err != nil:
		zap.L().Error("create order failed", zap.String("user_id", user.ID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create order"})
		return
	}

	// STEP 4: Mail download links and announce the order
	sendOrderMail(user, order, cfg.PublicBaseURL)
	events.Emit(events.OrderCreated, gin.H{
		"id":              order.ID,
		"userId":          user.ID,
		"amount":          order.Amount,
		"creatorEarning":  order.CreatorEarning,
		"platformEarning": order.PlatformEarning,
		"utr":             order.UTR,
		"samples":         len(order.Samples),
	})
	c.JSON(http.StatusCreated, order)
}

// sendOrderMail mails download links. Best effort; the order stands either way.
func sendOrderMail(user models.User, order models.Order, baseURL string) {
	links := make([]mailer.DownloadLink, 0, len(order.Samples))
	for _, s := range order.Samples {
		links = append(links, mailer.DownloadLink{Title: s.Title, URL: baseURL + s.AudioURL})
	}
	subject, body := mailer.OrderMail(user.Name, order.ID, order.UTR, order.Amount.String(), links)
	if err := mailer.Send(user.Email, subject, body); err != nil {
		zap.L().Warn("order mail not sent", zap.String("order_id", order.ID), zap.Error(err))
	}
}

// withPurchasedSamples preloads order samples, including ones deleted since
func withPurchasedSamples(db *gorm.DB) *gorm.DB {
	return db.Preload("Samples", func(db *gorm.DB) *gorm.DB { return db.Unscoped() })
}

// MyPurchases - Orders of the signed-in user, newest first
func MyPurchases(c *gin.Context) {
	orders := []models.Order{}
	if err := withPurchasedSamples(database.DB).
		Where("user_id = ?", c.GetString("user_id")).
		Order("created_at desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load purchases"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
