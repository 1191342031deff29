// admin.go - Moderation console: creator and sample approval, deletions, reports
// Every handler here sits behind middleware.AdminMiddleware

package handlers

import (
	"errors"
	"net/http"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/events"
	"lusionbeatz-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type UserIDInput struct {
	UserID string `json:"userId" binding:"required"`
}

type SampleIDInput struct {
	SampleID string `json:"sampleId" binding:"required"`
}

// Stats summarizes the marketplace for the admin dashboard
type Stats struct {
	Users            int64         `json:"users"`
	PendingCreators  int64         `json:"pendingCreators"`
	PendingSamples   int64         `json:"pendingSamples"`
	ApprovedSamples  int64         `json:"approvedSamples"`
	Orders           int64         `json:"orders"`
	GrossSales       models.Amount `json:"grossSales"`
	CreatorEarnings  models.Amount `json:"creatorEarnings"`
	PlatformEarnings models.Amount `json:"platformEarnings"`
}

var errAdminUndeletable = errors.New("admin accounts cannot be deleted")

// AdminListUsers - Every account, newest first
func AdminListUsers(c *gin.Context) {
	users := []models.User{}
	if err := database.DB.Order("created_at desc").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

// AdminListSamples - All samples, optionally filtered by ?status=
func AdminListSamples(c *gin.Context) {
	q := database.DB.Order("created_at desc")
	if status := c.Query("status"); status != "" { // pending/approved/rejected
		q = q.Where("status = ?", status)
	}
	samples := []models.Sample{}
	if err := q.Find(&samples).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load samples"})
		return
	}
	c.JSON(http.StatusOK, samples)
}

func AdminListOrders(c *gin.Context) {
	orders := []models.Order{}
	if err := withPurchasedSamples(database.DB).Order("created_at desc").Find(&orders).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// ApproveUser lets a verified user upload samples
func ApproveUser(c *gin.Context) {
	// STEP 1: Find the user
	var input UserIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := database.DB.First(&user, "id = ?", input.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		return
	}
	// STEP 2: Only verified accounts can become creators
	if !user.Verified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user has not verified their email"})
		return
	}
	// STEP 3: Grant upload rights and notify listeners
	if err := database.DB.Model(&user).Update("approved_creator", true).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not approve user"})
		return
	}
	user.ApprovedCreator = true
	events.Emit(events.CreatorApproved, gin.H{"id": user.ID, "email": user.Email})
	c.JSON(http.StatusOK, user)
}

func ApproveSample(c *gin.Context) { moderateSample(c, models.StatusApproved, events.SampleApproved) }

func RejectSample(c *gin.Context) { moderateSample(c, models.StatusRejected, events.SampleRejected) }

// moderateSample sets a sample's status. A rejected sample also leaves every cart.
func moderateSample(c *gin.Context, status, kind string) {
	var input SampleIDInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var sample models.Sample
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&sample, "id = ?", input.SampleID).Error; err != nil {
			return err
		}
		if err := tx.Model(&sample).Update("status", status).Error; err != nil {
			return err
		}
		if status == models.StatusRejected {
			return tx.Where("sample_id = ?", sample.ID).Delete(&models.CartItem{}).Error
		}
		return nil
	})
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update sample"})
		return
	}
	sample.Status = status
	events.Emit(kind, gin.H{"id": sample.ID, "title": sample.Title, "creatorId": sample.CreatorID})
	c.JSON(http.StatusOK, sample)
}

// AdminDeleteUser removes a user, their cart and their samples. Orders are kept
// for accounting.
func AdminDeleteUser(c *gin.Context) {
	id := c.Param("id")
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// STEP 1: Find the user; admins are protected
		var user models.User
		if err := tx.First(&user, "id = ?", id).Error; err != nil {
			return err
		}
		if user.IsAdmin() {
			return errAdminUndeletable
		}

		// STEP 2: Empty their cart and pull their samples from other carts
		sampleIDs := tx.Model(&models.Sample{}).Select("id").Where("creator_id = ?", id)
		if err := tx.Where("user_id = ? OR sample_id IN (?)", id, sampleIDs).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		// STEP 3: Soft-delete their samples, then the account itself
		if err := tx.Where("creator_id = ?", id).Delete(&models.Sample{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error // Orders stay for accounting
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
	case errors.Is(err, errAdminUndeletable):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete user"})
	default:
		events.Emit(events.UserDeleted, gin.H{"id": id})
		c.JSON(http.StatusOK, gin.H{"message": "user deleted"})
	}
}

// AdminDeleteSample hides a sample from the catalog and from carts. Buyers
// still see it in their purchases.
func AdminDeleteSample(c *gin.Context) {
	id := c.Param("id")
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		var sample models.Sample
		if err := tx.First(&sample, "id = ?", id).Error; err != nil {
			return err
		}
		if err := tx.Where("sample_id = ?", id).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}
		return tx.Delete(&sample).Error
	})
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "sample not found"})
	case err != nil:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not delete sample"})
	default:
		events.Emit(events.SampleDeleted, gin.H{"id": id})
		c.JSON(http.StatusOK, gin.H{"message": "sample deleted"})
	}
}

// AdminStats - Counts and money totals for the dashboard
func AdminStats(c *gin.Context) {
	var s Stats
	db := database.DB
	var sums struct {
		Gross, Creator, Platform int64
	}
	err := errors.Join( // Any failed query fails the whole report
		db.Model(&models.User{}).Count(&s.Users).Error,
		db.Model(&models.User{}).Where("verified = ? AND approved_creator = ? AND role = ?", true, false, models.RoleUser).Count(&s.PendingCreators).Error,
		db.Model(&models.Sample{}).Where("status = ?", models.StatusPending).Count(&s.PendingSamples).Error,
		db.Model(&models.Sample{}).Where("status = ?", models.StatusApproved).Count(&s.ApprovedSamples).Error,
		db.Model(&models.Order{}).Count(&s.Orders).Error,
		db.Model(&models.Order{}).Select(
			"COALESCE(SUM(amount),0) AS gross, COALESCE(SUM(creator_earning),0) AS creator, COALESCE(SUM(platform_earning),0) AS platform",
		).Scan(&sums).Error,
	)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not load stats"})
		return
	}
	s.GrossSales = models.Amount(sums.Gross)
	s.CreatorEarnings = models.Amount(sums.Creator)
	s.PlatformEarnings = models.Amount(sums.Platform)
	c.JSON(http.StatusOK, s)
}
