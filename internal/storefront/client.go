package storefront

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Backend defines the interface for talking to the storefront API.
// This interface is implemented by *Client and can be used for testing.
type Backend interface {
	FetchProducts(ctx context.Context) ([]Product, error)
	Register(ctx context.Context, name, email, password, otp string) (string, error)
	Login(ctx context.Context, email, password string) (string, error)
	VerifyOTP(ctx context.Context, email, otp string) (string, error)
	ResendOTP(ctx context.Context, email, otp string) error
	CartAdd(ctx context.Context, token, itemID, size string) error
	CartUpdate(ctx context.Context, token, itemID, size string, quantity int) error
	CartGet(ctx context.Context, token string) (CartData, error)
	PlaceOrder(ctx context.Context, token string, order OrderRequest) (string, error)
	FetchOrders(ctx context.Context, token string) ([]Order, error)
}

// Ensure Client implements Backend at compile time.
var _ Backend = (*Client)(nil)

// ErrVerifyRequired reports a login attempt against an account that has not
// completed OTP verification yet.
var ErrVerifyRequired = errors.New("account not verified")

// APIError is a request the backend rejected with success=false.
type APIError struct {
	Message string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return "request rejected"
	}
	return e.Message
}

// Client talks to the storefront HTTP API.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
}

const (
	defaultUserAgent = "vitrine/0.1"
	requestTimeout   = 10 * time.Second

	// The backend accepted both a raw `token` header and a bearer header at
	// different endpoints; this client sends Authorization: Bearer everywhere.
	verifyRequiredMessage = "Please Verify"
)

// NewClient builds a Client for the given server base URL.
func NewClient(serverURL string) (*Client, error) {
	base, err := parseBaseURL(serverURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL: base,
		http: &http.Client{
			Timeout: requestTimeout,
		},
		userAgent: defaultUserAgent,
	}, nil
}

// FetchProducts retrieves the full product catalog.
func (c *Client) FetchProducts(ctx context.Context) ([]Product, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload productListResponse
	if err := c.do(ctx, http.MethodGet, "/api/product/list", "", nil, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &APIError{Message: payload.Message}
	}
	return payload.Products, nil
}

// Register creates an account and triggers OTP delivery. It returns the
// backend's confirmation message.
func (c *Client) Register(ctx context.Context, name, email, password, otp string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	body := map[string]string{"name": name, "email": email, "password": password, "otp": otp}
	var payload basicResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/register", "", body, &payload); err != nil {
		return "", err
	}
	if !payload.Success {
		return "", &APIError{Message: payload.Message}
	}
	return payload.Message, nil
}

// Login exchanges credentials for an auth token. When the account still needs
// OTP verification the returned error wraps ErrVerifyRequired.
func (c *Client) Login(ctx context.Context, email, password string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	body := map[string]string{"email": email, "password": password}
	var payload authResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/login", "", body, &payload); err != nil {
		return "", err
	}
	if !payload.Success {
		if payload.Message == verifyRequiredMessage {
			return "", fmt.Errorf("%s: %w", payload.Message, ErrVerifyRequired)
		}
		return "", &APIError{Message: payload.Message}
	}
	return payload.Token, nil
}

// VerifyOTP confirms the one-time password and returns the auth token.
func (c *Client) VerifyOTP(ctx context.Context, email, otp string) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	body := map[string]string{"email": email, "otp": otp}
	var payload authResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/verify-otp", "", body, &payload); err != nil {
		return "", err
	}
	if !payload.Success {
		return "", &APIError{Message: payload.Message}
	}
	return payload.Token, nil
}

// ResendOTP asks the backend to send a fresh one-time password.
func (c *Client) ResendOTP(ctx context.Context, email, otp string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := map[string]string{"email": email}
	if otp != "" {
		body["otp"] = otp
	}
	var payload basicResponse
	if err := c.do(ctx, http.MethodPost, "/api/user/resend-otp", "", body, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return &APIError{Message: payload.Message}
	}
	return nil
}

// CartAdd records one more unit of itemID/size in the server-side cart.
func (c *Client) CartAdd(ctx context.Context, token, itemID, size string) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := map[string]string{"itemId": itemID, "size": size}
	var payload basicResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart/add", token, body, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return &APIError{Message: payload.Message}
	}
	return nil
}

// CartUpdate sets the quantity of itemID/size in the server-side cart.
func (c *Client) CartUpdate(ctx context.Context, token, itemID, size string, quantity int) error {
	if c == nil {
		return fmt.Errorf("client is nil")
	}
	body := map[string]any{"itemId": itemID, "size": size, "quantity": quantity}
	var payload basicResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart/update", token, body, &payload); err != nil {
		return err
	}
	if !payload.Success {
		return &APIError{Message: payload.Message}
	}
	return nil
}

// CartGet retrieves the server-side cart for the authenticated user.
func (c *Client) CartGet(ctx context.Context, token string) (CartData, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload cartGetResponse
	if err := c.do(ctx, http.MethodPost, "/api/cart/get", token, map[string]string{}, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &APIError{Message: payload.Message}
	}
	return payload.CartData, nil
}

// PlaceOrder submits the order and returns the backend's confirmation message.
func (c *Client) PlaceOrder(ctx context.Context, token string, order OrderRequest) (string, error) {
	if c == nil {
		return "", fmt.Errorf("client is nil")
	}
	var payload basicResponse
	if err := c.do(ctx, http.MethodPost, "/api/order/place", token, order, &payload); err != nil {
		return "", err
	}
	if !payload.Success {
		return "", &APIError{Message: payload.Message}
	}
	return payload.Message, nil
}

// FetchOrders retrieves the authenticated user's order history.
func (c *Client) FetchOrders(ctx context.Context, token string) ([]Order, error) {
	if c == nil {
		return nil, fmt.Errorf("client is nil")
	}
	var payload ordersResponse
	if err := c.do(ctx, http.MethodPost, "/api/order/userorders", token, map[string]string{}, &payload); err != nil {
		return nil, err
	}
	if !payload.Success {
		return nil, &APIError{Message: payload.Message}
	}
	return payload.Orders, nil
}

func (c *Client) do(ctx context.Context, method, path, token string, body, dest any) error {
	rel := &url.URL{Path: path}
	reqURL := c.baseURL.ResolveReference(rel)

	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, reqURL.String(), reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		return fmt.Errorf("api %s returned status %d", path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	decoder := json.NewDecoder(resp.Body)
	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseBaseURL(serverURL string) (*url.URL, error) {
	trimmed := strings.TrimSpace(serverURL)
	if trimmed == "" {
		return nil, fmt.Errorf("server url is empty")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse server url %q: %w", serverURL, err)
	}
	u.Path = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}
