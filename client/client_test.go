package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"regexp"
	"sync"
	"testing"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/mailer"
	"lusionbeatz-backend/models"
	"lusionbeatz-backend/routes"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type inbox struct {
	mu   sync.Mutex
	last map[string]string
}

func (i *inbox) Send(to, subject, body string) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.last[to] = body
	return nil
}

var codePattern = regexp.MustCompile(`\b(\d{6})\b`)

func (i *inbox) otp(t *testing.T, to string) string {
	t.Helper()
	i.mu.Lock()
	defer i.mu.Unlock()
	m := codePattern.FindStringSubmatch(i.last[to])
	require.NotNil(t, m, "no code mailed to %s", to)
	return m[1]
}

func startServer(t *testing.T) *inbox {
	t.Helper()
	gin.SetMode(gin.TestMode)
	t.Setenv("APP_ENV", "dev") // Session cookie without Secure, the test server is plain http
	t.Setenv("UPLOAD_DIR", t.TempDir())
	t.Setenv("UPI_ID", "shop@ybl")
	require.NoError(t, database.Connect(filepath.Join(t.TempDir(), "client.db")))
	t.Cleanup(func() { _ = database.Close() })

	box := &inbox{last: map[string]string{}}
	mailer.Use(box)
	t.Cleanup(func() { mailer.Use(mailer.LogSender{}) })
	return box
}

func TestCheckoutAgainstServer(t *testing.T) {
	box := startServer(t)
	srv := httptest.NewServer(routes.Setup(zap.NewNop(), nil))
	defer srv.Close()
	ctx := context.Background()

	creator := models.User{Name: "Maker", Email: "maker@test.com", Password: "x", Verified: true, ApprovedCreator: true}
	require.NoError(t, database.DB.Create(&creator).Error)
	sample := models.Sample{
		CreatorID: creator.ID, Title: "Night Drive", Type: models.TypeLoop, Genre: "Lo-Fi",
		Price: models.Rupees(299), Status: models.StatusApproved, AudioURL: "/uploads/night.wav",
	}
	require.NoError(t, database.DB.Create(&sample).Error)

	// --- Sign up and verify; the session cookie lands in the jar ---
	c := New(srv.URL)
	require.NoError(t, c.Signup(ctx, "Buyer", "buyer@test.com", "secret123"))
	res, err := c.VerifyOTP(ctx, "buyer@test.com", box.otp(t, "buyer@test.com"))
	require.NoError(t, err)
	assert.True(t, res.User.Verified)
	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "buyer@test.com", me.Email)

	upi, err := c.CheckoutConfig(ctx)
	require.NoError(t, err)
	assert.Equal(t, "shop@ybl", upi)

	// --- Empty cart: checkout sends the buyer back to the catalog ---
	co := NewCheckout(c, upi, nil)
	assert.ErrorIs(t, co.Load(ctx), ErrEmptyCart)
	assert.Equal(t, LoopsPath, co.RedirectTo())

	found, err := c.Samples(ctx, SampleFilter{Type: models.TypeLoop, Genre: "lo-fi"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	cart, err := c.AddToCart(ctx, found[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 299.0, cart.Total)

	// --- Pay, enter UTR, submit ---
	require.NoError(t, co.Load(ctx))
	require.NoError(t, co.MarkPaid())
	co.SetUTR("1234")
	_, err = co.Submit(ctx)
	assert.ErrorIs(t, err, ErrInvalidUTR)

	co.SetUTR("not valid!") // long enough locally, rejected by the server
	_, err = co.Submit(ctx)
	assert.Equal(t, http.StatusBadRequest, StatusOf(err))
	assert.Equal(t, StepUTR, co.Step())

	co.SetUTR("412345678901")
	order, err := co.Submit(ctx)
	require.NoError(t, err)
	assert.Equal(t, models.Rupees(299), order.Amount)
	assert.Equal(t, PurchasesPath, co.RedirectTo())

	cart, err = c.Cart(ctx)
	require.NoError(t, err)
	assert.Empty(t, cart.Items)
	orders, err := c.MyPurchases(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "412345678901", orders[0].UTR)

	_, err = c.CreateOrder(ctx, "412345678902")
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Your cart is empty", apiErr.Message)

	// --- Admin endpoints refuse a regular session ---
	assert.Equal(t, http.StatusForbidden, StatusOf(c.ApproveSample(ctx, sample.ID)))

	require.NoError(t, c.Logout(ctx))
	_, err = c.Me(ctx)
	assert.Equal(t, http.StatusUnauthorized, StatusOf(err))
}
