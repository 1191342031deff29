// users.go - Profile and payout details of the signed-in user

package handlers

import (
	"errors"
	"net/http"
	"strings"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/middleware"
	"lusionbeatz-backend/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ProfileInput struct {
	Name  string `json:"name" binding:"required,min=2"`
	Email string `json:"email" binding:"required,email"`
}

type BankDetailsInput struct {
	HolderName    string `json:"holderName" binding:"required,min=2"`
	UPIID         string `json:"upiId" binding:"omitempty,upi"`
	AccountNumber string `json:"accountNumber" binding:"omitempty,numeric,min=9,max=18"`
	IFSC          string `json:"ifsc" binding:"omitempty,alphanum,len=11"`
	Phone         string `json:"phone" binding:"omitempty,numeric,min=10,max=13"`
}

// UpdateProfile changes name and email. A new email has to be verified again.
func UpdateProfile(c *gin.Context) {
	var input ProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	user := middleware.CurrentUser(c)
	email := normalizeEmail(input.Email)
	emailChanged := email != user.Email

	updates := map[string]interface{}{"name": strings.TrimSpace(input.Name)}
	if emailChanged {
		updates["email"] = email
		updates["verified"] = false
	}
	if err := database.DB.Model(&user).Updates(updates).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update profile"})
		return
	}
	user.Name = updates["name"].(string)
	if emailChanged {
		user.Email = email
		user.Verified = false
	}

	if emailChanged {
		if err := issueOTP(&user); err != nil {
			zap.L().Error("otp for new email not sent", zap.String("user_id", user.ID), zap.Error(err))
		}
	}
	c.JSON(http.StatusOK, user)
}

func UpdateBankDetails(c *gin.Context) {
	var input BankDetailsInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.UPIID == "" && (input.AccountNumber == "" || input.IFSC == "") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "provide a UPI ID or an account number with IFSC"})
		return
	}

	user := middleware.CurrentUser(c)
	user.BankDetails = models.BankDetails{
		HolderName:    strings.TrimSpace(input.HolderName),
		UPIID:         input.UPIID,
		AccountNumber: input.AccountNumber,
		IFSC:          strings.ToUpper(input.IFSC),
		Phone:         input.Phone,
	}
	// Select so that cleared fields are written too
	if err := database.DB.Model(&user).
		Select("HolderName", "UPIID", "AccountNumber", "IFSC", "Phone").
		Updates(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not update bank details"})
		return
	}
	c.JSON(http.StatusOK, user)
}
