// order.go - Defines cart items and orders

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CartItem is one sample in a user's cart. Samples are digital, so a user
// holds at most one of each.
type CartItem struct {
	ID        string    `gorm:"primaryKey;type:text"`
	UserID    string    `gorm:"uniqueIndex:idx_cart_user_sample;not null"`
	SampleID  string    `gorm:"uniqueIndex:idx_cart_user_sample;not null"`
	Sample    Sample    `gorm:"foreignKey:SampleID;constraint:OnDelete:CASCADE"`
	CreatedAt time.Time
}

func (c *CartItem) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}

// Order is a confirmed purchase, paid by UPI and identified by its UTR.
type Order struct {
	ID              string    `gorm:"primaryKey;type:text" json:"id"`
	UserID          string    `gorm:"index;not null" json:"userId"`
	Amount          Amount    `gorm:"not null" json:"amount"`
	CreatorEarning  Amount    `gorm:"not null" json:"creatorEarning"`
	PlatformEarning Amount    `gorm:"not null" json:"platformEarning"`
	UTR             string    `gorm:"uniqueIndex;not null" json:"utr"`
	Samples         []Sample  `gorm:"many2many:order_samples;" json:"samples"`
	CreatedAt       time.Time `json:"createdAt"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// CartLine is how a cart item is presented to the buyer.
type CartLine struct {
	ID       string `json:"id"` // sample id, used for removal
	Title    string `json:"title"`
	Type     string `json:"type"`
	Genre    string `json:"genre"`
	Price    Amount `json:"price"`
	CoverURL string `json:"coverUrl,omitempty"`
}

// CartView is the body of GET /api/cart.
type CartView struct {
	Items []CartLine `json:"items"`
	Total float64    `json:"total"`
}

// NewCartView builds the buyer-facing cart and its total in paise.
func NewCartView(items []CartItem) (CartView, Amount) {
	view := CartView{Items: make([]CartLine, 0, len(items))}
	var total Amount
	for _, it := range items {
		view.Items = append(view.Items, CartLine{
			ID:       it.Sample.ID,
			Title:    it.Sample.Title,
			Type:     it.Sample.Type,
			Genre:    it.Sample.Genre,
			Price:    it.Sample.Price,
			CoverURL: it.Sample.CoverURL,
		})
		total += it.Sample.Price
	}
	view.Total = total.Float()
	return view, total
}
