// user.go - Defines the User model for the database

package models // Declares the package name

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// BankDetails is where a creator wants payouts sent.
type BankDetails struct {
	HolderName    string `json:"holderName"`
	UPIID         string `json:"upiId"`
	AccountNumber string `json:"accountNumber"`
	IFSC          string `json:"ifsc"`
	Phone         string `json:"phone"`
}

type User struct { // User struct represents a user in the database
	ID              string      `gorm:"primaryKey;type:text" json:"id"`                // UUID primary key
	Name            string      `json:"name"`                                          // Display name
	Email           string      `gorm:"uniqueIndex;not null" json:"email"`             // Must be unique
	Password        string      `gorm:"not null" json:"-"`                             // Hashed password, never serialized
	Role            string      `gorm:"default:'user'" json:"role"`                    // user/admin
	Verified        bool        `gorm:"not null;default:false" json:"verified"`        // Email confirmed through OTP
	ApprovedCreator bool        `gorm:"not null;default:false" json:"approvedCreator"` // May upload samples
	BankDetails     BankDetails `gorm:"embedded;embeddedPrefix:bank_" json:"bankDetails"`
	OTPHash         string      `json:"-"` // bcrypt hash of the pending signup OTP
	OTPExpiresAt    *time.Time  `json:"-"`
	CreatedAt       time.Time   `json:"createdAt"`
	UpdatedAt       time.Time   `json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (u User) IsAdmin() bool { return u.Role == RoleAdmin }
