// client.go - HTTP client for the marketplace API
// Keeps the session cookie in a jar, so a logged-in Client stays logged in

package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"lusionbeatz-backend/models"
)

// APIError is a non-2xx answer from the server
type APIError struct {
	Status  int
	Message string // the server's "error" field, if any
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("request failed: %d", e.Status)
	}
	return e.Message
}

// StatusOf returns the HTTP status carried by err, or 0
func StatusOf(err error) int {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}

type Client struct {
	baseURL string
	http    *http.Client
}

// New returns a client for the API served at baseURL (e.g. http://localhost:8080)
func New(baseURL string) *Client {
	jar, _ := cookiejar.New(nil) // never fails without options
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Jar: jar, Timeout: 30 * time.Second},
	}
}

// do sends body as JSON and decodes a successful response into out
func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var r io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var res struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&res)
		return &APIError{Status: resp.StatusCode, Message: res.Error}
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// AuthResult is what verify-otp and login return
type AuthResult struct {
	Token string      `json:"token"`
	User  models.User `json:"user"`
}

func (c *Client) Signup(ctx context.Context, name, email, password string) error {
	return c.do(ctx, "POST", "/api/auth/signup", map[string]string{
		"name": name, "email": email, "password": password,
	}, nil)
}

func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, "POST", "/api/auth/verify-otp", map[string]string{"email": email, "otp": otp}, &res)
	return res, err
}

func (c *Client) ResendOTP(ctx context.Context, email string) error {
	return c.do(ctx, "POST", "/api/auth/resend-otp", map[string]string{"email": email}, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (AuthResult, error) {
	var res AuthResult
	err := c.do(ctx, "POST", "/api/auth/login", map[string]string{"email": email, "password": password}, &res)
	return res, err
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "POST", "/api/auth/logout", nil, nil)
}

func (c *Client) Me(ctx context.Context) (models.User, error) {
	var u models.User
	err := c.do(ctx, "GET", "/api/auth/me", nil, &u)
	return u, err
}

// SampleFilter narrows the catalog. Empty fields match everything.
type SampleFilter struct {
	Type  string
	Genre string
}

func (c *Client) Samples(ctx context.Context, f SampleFilter) ([]models.Sample, error) {
	q := url.Values{}
	if f.Type != "" {
		q.Set("type", f.Type)
	}
	if f.Genre != "" {
		q.Set("genre", f.Genre)
	}
	path := "/api/samples"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	var out []models.Sample
	err := c.do(ctx, "GET", path, nil, &out)
	return out, err
}

func (c *Client) CheckoutConfig(ctx context.Context) (string, error) {
	var res struct {
		UPIID string `json:"upiId"`
	}
	err := c.do(ctx, "GET", "/api/checkout/config", nil, &res)
	return res.UPIID, err
}

func (c *Client) Cart(ctx context.Context) (models.CartView, error) {
	var v models.CartView
	err := c.do(ctx, "GET", "/api/cart", nil, &v)
	return v, err
}

func (c *Client) AddToCart(ctx context.Context, sampleID string) (models.CartView, error) {
	var v models.CartView
	err := c.do(ctx, "POST", "/api/cart/add", map[string]string{"sampleId": sampleID}, &v)
	return v, err
}

func (c *Client) RemoveFromCart(ctx context.Context, sampleID string) (models.CartView, error) {
	var v models.CartView
	err := c.do(ctx, "POST", "/api/cart/remove", map[string]string{"sampleId": sampleID}, &v)
	return v, err
}

// CreateOrder submits the UTR as given; the server validates it
func (c *Client) CreateOrder(ctx context.Context, utr string) (models.Order, error) {
	var o models.Order
	err := c.do(ctx, "POST", "/api/orders/create", map[string]string{"utr": utr}, &o)
	return o, err
}

func (c *Client) MyPurchases(ctx context.Context) ([]models.Order, error) {
	var out []models.Order
	err := c.do(ctx, "GET", "/api/orders/my-purchases", nil, &out)
	return out, err
}

// Admin helpers. The server answers 403 unless the session belongs to an admin.

func (c *Client) ApproveUser(ctx context.Context, userID string) error {
	return c.do(ctx, "POST", "/api/admin/approve-user", map[string]string{"userId": userID}, nil)
}

func (c *Client) ApproveSample(ctx context.Context, sampleID string) error {
	return c.do(ctx, "POST", "/api/admin/approve-sample", map[string]string{"sampleId": sampleID}, nil)
}

func (c *Client) RejectSample(ctx context.Context, sampleID string) error {
	return c.do(ctx, "POST", "/api/admin/reject-sample", map[string]string{"sampleId": sampleID}, nil)
}

func (c *Client) DeleteUser(ctx context.Context, userID string) error {
	return c.do(ctx, "DELETE", "/api/admin/users/"+url.PathEscape(userID), nil, nil)
}

func (c *Client) DeleteSample(ctx context.Context, sampleID string) error {
	return c.do(ctx, "DELETE", "/api/admin/samples/"+url.PathEscape(sampleID), nil, nil)
}
