// checkout.go - The manual UPI checkout flow: pay, enter UTR, submit
//
// Steps:
// 1. payment - buyer sees the total and the UPI ID to pay
// 2. utr     - buyer enters the UTR from their payment app
// 3. done    - order created, cart cleared
//
// The server decides whether an order is valid. This type only tracks where
// the buyer is and what to show them.

package client

import (
	"context"
	"errors"
	"sync"
	"time"
	"unicode/utf8"

	"lusionbeatz-backend/models"

	"go.uber.org/zap"
)

type Step int

const (
	StepPayment Step = iota
	StepUTR
	StepDone
)

func (s Step) String() string {
	switch s {
	case StepPayment:
		return "payment"
	case StepUTR:
		return "utr"
	case StepDone:
		return "done"
	}
	return "unknown"
}

const (
	LoopsPath     = "/loops"                   // Where an empty cart sends the buyer
	PurchasesPath = "/dashboard?tab=purchases" // Where a confirmed order sends the buyer
	CopiedFor     = 2 * time.Second            // How long the "copied" indicator stays on
	MinUTRLength  = 6                          // Shortest UTR sent to the server, in characters
)

var (
	ErrEmptyCart      = errors.New("cart is empty")
	ErrInvalidUTR     = errors.New("invalid UTR")
	ErrInvalidStep    = errors.New("not allowed in this checkout step")
	ErrSubmitInFlight = errors.New("order submission already in progress")
)

// Toast is a short message for the buyer
type Toast struct {
	Title       string
	Description string
	Destructive bool
}

type Notifier interface {
	Notify(Toast)
}

// NotifierFunc adapts a function to Notifier
type NotifierFunc func(Toast)

func (f NotifierFunc) Notify(t Toast) { f(t) }

// CheckoutAPI is the part of the API the checkout needs. *Client implements it.
type CheckoutAPI interface {
	Cart(ctx context.Context) (models.CartView, error)
	CreateOrder(ctx context.Context, utr string) (models.Order, error)
}

type Checkout struct {
	mu     sync.Mutex
	api    CheckoutAPI
	notify Notifier
	upiID  string
	now    func() time.Time

	step       Step
	utr        string
	cart       models.CartView
	copiedAt   time.Time
	submitting bool
	redirect   string
	order      *models.Order
}

// NewCheckout starts a checkout paying to upiID. notify may be nil.
func NewCheckout(api CheckoutAPI, upiID string, notify Notifier) *Checkout {
	if notify == nil {
		notify = NotifierFunc(func(Toast) {})
	}
	return &Checkout{api: api, notify: notify, upiID: upiID, now: time.Now}
}

// Load fetches the cart and starts over at the payment step. An empty cart
// makes checkout unusable and sets the redirect to the catalog.
func (c *Checkout) Load(ctx context.Context) error {
	cart, err := c.api.Cart(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.cart = cart
	c.step = StepPayment
	c.utr = ""
	c.order = nil
	c.redirect = ""
	if len(cart.Items) == 0 {
		c.redirect = LoopsPath
		return ErrEmptyCart
	}
	return nil
}

// CopyUPIID returns the UPI ID for the clipboard
func (c *Checkout) CopyUPIID() string {
	c.mu.Lock()
	c.copiedAt = c.now()
	c.mu.Unlock()
	c.notify.Notify(Toast{Title: "UPI ID copied!"})
	return c.upiID
}

// Copied reports whether the UPI ID was copied in the last CopiedFor
func (c *Checkout) Copied() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return !c.copiedAt.IsZero() && c.now().Sub(c.copiedAt) < CopiedFor
}

// MarkPaid moves from payment to UTR entry
func (c *Checkout) MarkPaid() error {
	return c.move(StepPayment, StepUTR)
}

// Back returns from UTR entry to payment. The typed UTR is kept.
func (c *Checkout) Back() error {
	return c.move(StepUTR, StepPayment)
}

func (c *Checkout) move(from, to Step) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.step != from || len(c.cart.Items) == 0 {
		return ErrInvalidStep
	}
	c.step = to
	return nil
}

// SetUTR records the UTR as typed
func (c *Checkout) SetUTR(utr string) {
	c.mu.Lock()
	c.utr = utr
	c.mu.Unlock()
}

// Submit creates the order. Short UTRs never reach the server. On failure the
// checkout stays where it was so the buyer can fix the UTR and retry.
func (c *Checkout) Submit(ctx context.Context) (models.Order, error) {
	c.mu.Lock()
	if c.step != StepUTR {
		c.mu.Unlock()
		return models.Order{}, ErrInvalidStep
	}
	if c.submitting {
		c.mu.Unlock()
		return models.Order{}, ErrSubmitInFlight
	}
	utr := c.utr
	if utf8.RuneCountInString(utr) < MinUTRLength { // Characters, not bytes
		c.mu.Unlock()
		c.notify.Notify(Toast{Title: "Invalid UTR", Description: "Please enter a valid UTR number", Destructive: true})
		return models.Order{}, ErrInvalidUTR
	}
	c.submitting = true
	c.mu.Unlock()

	order, err := c.api.CreateOrder(ctx, utr)

	c.mu.Lock()
	c.submitting = false
	if err != nil {
		c.mu.Unlock()
		msg := "Failed to create order"
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Message != "" {
			msg = apiErr.Message
		}
		zap.L().Warn("order not created", zap.Int("status", StatusOf(err)), zap.Error(err))
		c.notify.Notify(Toast{Title: "Error", Description: msg, Destructive: true})
		return models.Order{}, err
	}
	c.cart = models.CartView{Items: []models.CartLine{}}
	c.step = StepDone
	c.order = &order
	c.redirect = PurchasesPath
	c.mu.Unlock()

	c.notify.Notify(Toast{Title: "Order confirmed!", Description: "Check your email for download links."})
	return order, nil
}

func (c *Checkout) Step() Step {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.step
}

func (c *Checkout) UTR() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.utr
}

// Cart returns the cart as last loaded
func (c *Checkout) Cart() models.CartView {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cart
}

// Order returns the created order once the checkout is done
func (c *Checkout) Order() (models.Order, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.order == nil {
		return models.Order{}, false
	}
	return *c.order, true
}

// RedirectTo is where the buyer should be sent, or "" to stay on checkout
func (c *Checkout) RedirectTo() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.redirect
}
