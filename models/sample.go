// sample.go - Defines the Sample model (a loop or one-shot for sale)

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TypeLoop    = "loop"
	TypeOneShot = "oneshot"

	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// MaxSamplePrice is the highest price a creator may ask for one sample
var MaxSamplePrice = Rupees(100000)

type Sample struct {
	ID          string    `gorm:"primaryKey;type:text" json:"id"`
	CreatorID   string    `gorm:"index;not null" json:"creatorId"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `json:"description,omitempty"`
	Type        string    `gorm:"index;not null" json:"type"` // loop/oneshot
	Genre       string    `gorm:"index" json:"genre"`
	BPM         int       `json:"bpm,omitempty"`
	Key         string    `json:"key,omitempty"`
	Price       Amount    `gorm:"not null" json:"price"`
	Status      string    `gorm:"index;default:'pending'" json:"status"`
	AudioURL    string    `json:"audioUrl"`
	CoverURL    string    `json:"coverUrl,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"-"`
	// Deleted samples stay readable through the orders that bought them
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Sample) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func ValidType(t string) bool { return t == TypeLoop || t == TypeOneShot }
