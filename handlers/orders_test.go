// orders_test.go - Tests for the cart and UPI checkout

package handlers

import (
	"net/http"
	"testing"

	"lusionbeatz-backend/database"
	"lusionbeatz-backend/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddRemoveAndTotal(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	creator, _ := createUser(t, "creator@example.com", models.RoleUser, true, true)
	_, buyer := createUser(t, "buyer@example.com", models.RoleUser, true, false)

	a := createSample(t, creator.ID, "trap-loop", models.Rupees(499), models.StatusApproved)
	b := createSample(t, creator.ID, "snare-hit", models.Amount(9950), models.StatusApproved)
	pending := createSample(t, creator.ID, "pending-loop", models.Rupees(100), models.StatusPending)

	w := doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: a.ID})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	w = doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: b.ID})
	require.Equal(t, http.StatusOK, w.Code)

	// --- Duplicates and unapproved samples are refused ---
	assert.Equal(t, http.StatusConflict, doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: a.ID}).Code)
	assert.Equal(t, http.StatusNotFound, doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: pending.ID}).Code)

	w = doJSON(router, "GET", "/api/cart", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	cart := decode[models.CartView](t, w)
	require.Len(t, cart.Items, 2)
	assert.InDelta(t, 598.50, cart.Total, 1e-9)
	assert.Contains(t, w.Body.String(), `"price":"499.00"`)

	w = doJSON(router, "POST", "/api/cart/remove", buyer, CartInput{SampleID: a.ID})
	require.Equal(t, http.StatusOK, w.Code)
	cart = decode[models.CartView](t, w)
	require.Len(t, cart.Items, 1)
	assert.Equal(t, b.ID, cart.Items[0].ID)

	assert.Equal(t, http.StatusNotFound, doJSON(router, "POST", "/api/cart/remove", buyer, CartInput{SampleID: a.ID}).Code)
}

func TestCartRefusesOwnSample(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	creator, token := createUser(t, "creator@example.com", models.RoleUser, true, true)
	s := createSample(t, creator.ID, "mine", models.Rupees(10), models.StatusApproved)

	w := doJSON(router, "POST", "/api/cart/add", token, CartInput{SampleID: s.ID})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartRequiresSession(t *testing.T) {
	setupTestDB(t)
	router := setupRouter()
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, "GET", "/api/cart", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, doJSON(router, "GET", "/api/cart", "garbage", nil).Code)
}

func TestCreateOrderFromCart(t *testing.T) {
	setupTestDB(t)
	mail := captureMail(t)
	router := setupRouter()
	t.Setenv("PLATFORM_FEE_PERCENT", "20")

	creator, _ := createUser(t, "creator@example.com", models.RoleUser, true, true)
	buyerUser, buyer := createUser(t, "buyer@example.com", models.RoleUser, true, false)
	a := createSample(t, creator.ID, "trap-loop", models.Rupees(499), models.StatusApproved)
	b := createSample(t, creator.ID, "snare-hit", models.Rupees(101), models.StatusApproved)

	require.Equal(t, http.StatusOK, doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: a.ID}).Code)
	require.Equal(t, http.StatusOK, doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: b.ID}).Code)

	w := doJSON(router, "POST", "/api/orders/create", buyer, CreateOrderInput{UTR: "123456789012"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	order := decode[models.Order](t, w)
	assert.Equal(t, models.Rupees(600), order.Amount)
	assert.Equal(t, models.Rupees(120), order.PlatformEarning)
	assert.Equal(t, models.Rupees(480), order.CreatorEarning)
	assert.Equal(t, buyerUser.ID, order.UserID)
	assert.Len(t, order.Samples, 2)

	// --- Cart is empty afterwards ---
	cart := decode[models.CartView](t, doJSON(router, "GET", "/api/cart", buyer, nil))
	assert.Empty(t, cart.Items)
	assert.Zero(t, cart.Total)

	// --- Purchases list the order ---
	w = doJSON(router, "GET", "/api/orders/my-purchases", buyer, nil)
	require.Equal(t, http.StatusOK, w.Code)
	orders := decode[[]models.Order](t, w)
	require.Len(t, orders, 1)
	assert.Equal(t, "123456789012", orders[0].UTR)
	assert.Len(t, orders[0].Samples, 2)

	// --- Confirmation mail with download links ---
	require.Equal(t, 1, mail.count())
	assert.Contains(t, mail.mail[0].Body, "/uploads/trap-loop.wav")

	// --- Owned samples cannot be added again ---
	assert.Equal(t, http.StatusConflict, doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: a.ID}).Code)
}

func TestCreateOrderRejections(t *testing.T) {
	setupTestDB(t)
	captureMail(t)
	router := setupRouter()

	creator, _ := createUser(t, "creator@example.com", models.RoleUser, true, true)
	_, buyer := createUser(t, "buyer@example.com", models.RoleUser, true, false)
	_, other := createUser(t, "other@example.com", models.RoleUser, true, false)
	s := createSample(t, creator.ID, "loop", models.Rupees(50), models.StatusApproved)

	// --- Empty cart ---
	w := doJSON(router, "POST", "/api/orders/create", buyer, CreateOrderInput{UTR: "UTR123456"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "empty")

	require.Equal(t, http.StatusOK, doJSON(router, "POST", "/api/cart/add", buyer, CartInput{SampleID: s.ID}).Code)

	// --- UTR too short, too long or not alphanumeric; cart untouched ---
	for _, utr := range []string{"12345", "123456789012345678901", "12345-678"} {
		w = doJSON(router, "POST", "/api/orders/create", buyer, CreateOrderInput{UTR: utr})
		assert.Equal(t, http.StatusBadRequest, w.Code, utr)
	}
	cart := decode[models.CartView](t, doJSON(router, "GET", "/api/cart", buyer, nil))
	assert.Len(t, cart.Items, 1)

	// --- A UTR can only pay for one order ---
	require.Equal(t, http.StatusCreated, doJSON(router, "POST", "/api/orders/create", buyer, CreateOrderInput{UTR: "UTR123456"}).Code)
	require.Equal(t, http.StatusOK, doJSON(router, "POST", "/api/cart/add", other, CartInput{SampleID: s.ID}).Code)
	w = doJSON(router, "POST", "/api/orders/create", other, CreateOrderInput{UTR: "UTR123456"})
	assert.Equal(t, http.StatusConflict, w.Code)

	cart = decode[models.CartView](t, doJSON(router, "GET", "/api/cart", other, nil))
	assert.Len(t, cart.Items, 1, "failed order must leave the cart as it was")

	var n int64
	database.DB.Model(&models.Order{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestSplitEarnings(t *testing.T) {
	creator, platform := splitEarnings(models.Amount(999), 20)
	assert.Equal(t, models.Amount(200), platform)
	assert.Equal(t, models.Amount(799), creator)

	creator, platform = splitEarnings(models.Rupees(10), 150)
	assert.Equal(t, models.Rupees(10), platform)
	assert.Zero(t, creator)

	creator, platform = splitEarnings(models.Rupees(10), -5)
	assert.Zero(t, platform)
	assert.Equal(t, models.Rupees(10), creator)
}
