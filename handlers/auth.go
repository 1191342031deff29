// auth.go - Handles signup, OTP verification, login and sessions

package handlers // Declares the package name

import ( // Import required packages
	"crypto/rand" // OTP generation
	"errors"      // For errors.Is
	"fmt"         // OTP formatting
	"math/big"    // Random range for OTPs
	"net/http"    // HTTP status codes
	"strings"     // Email normalization
	"time"        // For OTP expiration

	"lusionbeatz-backend/config"     // Project config
	"lusionbeatz-backend/database"   // Database connection
	"lusionbeatz-backend/events"     // Marketplace events
	"lusionbeatz-backend/mailer"     // OTP mails
	"lusionbeatz-backend/middleware" // Session tokens and cookies
	"lusionbeatz-backend/models"     // User model

	"github.com/gin-gonic/gin"   // Gin web framework
	"go.uber.org/zap"            // Logging
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // Record-not-found checks
)

type SignupInput struct { // Struct for signup input
	Name     string `json:"name" binding:"required,min=2"`     // Name (at least 2 characters)
	Email    string `json:"email" binding:"required,email"`    // Email (must be valid)
	Password string `json:"password" binding:"required,min=6"` // Password (at least 6 characters)
}

type VerifyOTPInput struct {
	Email string `json:"email" binding:"required,email"`
	OTP   string `json:"otp" binding:"required,len=6,numeric"`
}

type EmailInput struct {
	Email string `json:"email" binding:"required,email"`
}

type LoginInput struct { // Struct for login input
	Email    string `json:"email" binding:"required"`    // Email (required)
	Password string `json:"password" binding:"required"` // Password (required)
}

// AuthResponse is returned after a session is issued
type AuthResponse struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

var errBadOTP = errors.New("invalid or expired code")

func normalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// newOTP returns a 6-digit code and its bcrypt hash
func newOTP() (string, string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", "", err
	}
	code := fmt.Sprintf("%06d", n.Int64())
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return "", "", err
	}
	return code, string(hash), nil
}

// issueOTP stores a fresh OTP on the user and mails it
func issueOTP(user *models.User) error {
	cfg := config.Load()
	code, hash, err := newOTP()
	if err != nil {
		return err
	}
	expires := time.Now().Add(cfg.OTPTTL)
	if err := database.DB.Model(user).Updates(map[string]interface{}{
		"otp_hash":       hash,
		"otp_expires_at": expires,
	}).Error; err != nil {
		return err
	}
	subject, body := mailer.OTPMail(user.Name, code, cfg.OTPTTL)
	return mailer.Send(user.Email, subject, body)
}

func Signup(c *gin.Context) { // Handler for user signup
	var input SignupInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse and validate JSON input
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	email := normalizeEmail(input.Email)

	var existing models.User
	err := database.DB.Where("email = ?", email).First(&existing).Error
	if err == nil { // Verified or not, the frontend offers "Resend OTP" from here
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost) // Hash password
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}
	user := models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    email,
		Password: string(hash),
		Role:     models.RoleUser,
	}
	if err := database.DB.Create(&user).Error; err != nil { // Save user to DB
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not create account"})
		return
	}

	if err := issueOTP(&user); err != nil {
		zap.L().Error("signup otp not sent", zap.String("email", email), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "account created but the OTP could not be sent, try resending it"})
		return
	}

	events.Emit(events.UserSignedUp, gin.H{"id": user.ID, "email": user.Email})
	c.JSON(http.StatusCreated, gin.H{"message": "Account created, check your email for the OTP"})
}

func VerifyOTP(c *gin.Context) {
	var input VerifyOTPInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadOTP.Error()})
		return
	}
	if user.Verified {
		c.JSON(http.StatusBadRequest, gin.H{"error": "email already verified"})
		return
	}
	if user.OTPHash == "" || user.OTPExpiresAt == nil || time.Now().After(*user.OTPExpiresAt) ||
		bcrypt.CompareHashAndPassword([]byte(user.OTPHash), []byte(input.OTP)) != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": errBadOTP.Error()})
		return
	}

	if err := database.DB.Model(&user).Updates(map[string]interface{}{
		"verified":       true,
		"otp_hash":       "",
		"otp_expires_at": nil,
	}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not verify email"})
		return
	}
	user.Verified = true

	startSession(c, user)
}

func ResendOTP(c *gin.Context) {
	var input EmailInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// Unknown and already verified emails get the same answer (no enumeration)
	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err == nil && !user.Verified {
		if err := issueOTP(&user); err != nil {
			zap.L().Error("resend otp failed", zap.String("email", user.Email), zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "could not send OTP"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"message": "If the account is awaiting verification, a new code was sent"})
}

func Login(c *gin.Context) { // Handler for user login
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil { // Parse JSON input
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var user models.User
	if err := database.DB.Where("email = ?", normalizeEmail(input.Email)).First(&user).Error; err != nil { // Find user by email
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil { // Check password
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}
	if !user.Verified {
		c.JSON(http.StatusForbidden, gin.H{"error": "email not verified"})
		return
	}
	startSession(c, user)
}

// startSession issues a token, sets the session cookie and answers with both
func startSession(c *gin.Context, user models.User) {
	token, err := middleware.IssueToken(user.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not start session"})
		return
	}
	middleware.SetSessionCookie(c, token)
	c.JSON(http.StatusOK, AuthResponse{Token: token, User: user})
}

func Logout(c *gin.Context) {
	middleware.ClearSessionCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Me returns the signed-in user
func Me(c *gin.Context) {
	c.JSON(http.StatusOK, middleware.CurrentUser(c))
}
