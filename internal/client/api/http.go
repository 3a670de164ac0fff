package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gowear/gowear/internal/common"
)

// HTTPClient talks to the Gowear server over its JSON/HTTP surface.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(baseURL string) *HTTPClient {
	return &HTTPClient{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// do sends one JSON request. A non-nil token goes into the Authorization
// header; out, when non-nil, receives the decoded 2xx body.
func (c *HTTPClient) do(ctx context.Context, method, path, token string, body, out any) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("marshaling request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return resp, decodeError(resp)
	}
	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("decoding response: %w", err)
		}
	}
	return resp, nil
}

// decodeError turns an error response into an *APIError.
func decodeError(resp *http.Response) error {
	var payload struct {
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields"`
	}
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(b, &payload); err != nil || payload.Message == "" {
		payload.Message = http.StatusText(resp.StatusCode)
	}
	return &APIError{Status: resp.StatusCode, Message: payload.Message, Fields: payload.Fields}
}

func (c *HTTPClient) Register(ctx context.Context, in RegisterInput) error {
	body := map[string]any{
		"name":             in.Name,
		"email":            in.Email,
		"password":         in.Password,
		"confirmPassword":  in.ConfirmPassword,
		"role":             in.Role,
		"termsAndPolicies": in.TermsAccepted,
	}
	_, err := c.do(ctx, http.MethodPost, "/users/register", "", body, nil)
	return err
}

func (c *HTTPClient) Login(ctx context.Context, email, password string, keepLoggedIn bool) (*User, *Session, error) {
	body := map[string]any{
		"email":          email,
		"password":       password,
		"keepMeLoggedIn": keepLoggedIn,
	}
	var out struct {
		User  *User  `json:"user"`
		Token string `json:"token"`
	}
	resp, err := c.do(ctx, http.MethodPost, "/users/login", "", body, &out)
	if err != nil {
		return nil, nil, err
	}

	session := &Session{AccessToken: out.Token}
	for _, cookie := range resp.Cookies() {
		if cookie.Name == common.RefreshTokenCookie {
			session.RefreshToken = cookie.Value
		}
	}
	return out.User, session, nil
}

// Refresh exchanges the stored refresh token for a fresh access token.
// An auth failure comes back as common.ErrNoRefreshToken so callers know
// the session is gone for good and interactive login is required.
func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", common.ErrNoRefreshToken
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/users/refresh_token", nil)
	if err != nil {
		return "", err
	}
	req.AddCookie(&http.Cookie{Name: common.RefreshTokenCookie, Value: refreshToken})

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return "", common.ErrNoRefreshToken
	}
	if resp.StatusCode != http.StatusOK {
		return "", decodeError(resp)
	}

	var out struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decoding response: %w", err)
	}
	return out.Token, nil
}

func (c *HTTPClient) Logout(ctx context.Context) error {
	_, err := c.do(ctx, http.MethodPost, "/users/log_out", "", nil, nil)
	return err
}

func (c *HTTPClient) Me(ctx context.Context, token string) (*User, error) {
	var out struct {
		User *User `json:"user"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/users/me", token, nil, &out); err != nil {
		return nil, err
	}
	return out.User, nil
}

func (c *HTTPClient) RequestOTP(ctx context.Context, email string) error {
	_, err := c.do(ctx, http.MethodPost, "/otp_verify/request", "", map[string]any{"email": email}, nil)
	return err
}

func (c *HTTPClient) VerifyOTP(ctx context.Context, email, code string) error {
	body := map[string]any{"email": email, "otp": code}
	_, err := c.do(ctx, http.MethodPost, "/otp_verify/verify", "", body, nil)
	return err
}

func (c *HTTPClient) ResetPassword(ctx context.Context, email, newPassword string) error {
	body := map[string]any{"email": email, "newPassword": newPassword}
	_, err := c.do(ctx, http.MethodPost, "/users/reset_password", "", body, nil)
	return err
}

func (c *HTTPClient) ChangePassword(ctx context.Context, token, current, next string) error {
	body := map[string]any{"currentPassword": current, "newPassword": next}
	_, err := c.do(ctx, http.MethodPatch, "/users/password", token, body, nil)
	return err
}

func (c *HTTPClient) ChangeEmail(ctx context.Context, token, password, newEmail string) error {
	body := map[string]any{"password": password, "newEmail": newEmail}
	_, err := c.do(ctx, http.MethodPatch, "/users/email", token, body, nil)
	return err
}

func (c *HTTPClient) DeleteAccount(ctx context.Context, token, confirmation string) error {
	body := map[string]any{"confirmation": confirmation}
	_, err := c.do(ctx, http.MethodDelete, "/users/me", token, body, nil)
	return err
}

func (c *HTTPClient) ListUsers(ctx context.Context, token string) ([]*User, error) {
	var out struct {
		Users []*User `json:"users"`
	}
	if _, err := c.do(ctx, http.MethodGet, "/users", token, nil, &out); err != nil {
		return nil, err
	}
	return out.Users, nil
}

func (c *HTTPClient) SetApproval(ctx context.Context, token, userID, status string) error {
	body := map[string]any{"status": status}
	_, err := c.do(ctx, http.MethodPatch, "/users/"+userID+"/approval", token, body, nil)
	return err
}

func (c *HTTPClient) AddProduct(ctx context.Context, token string, in ProductInput, images []ImageFile) (*Product, error) {
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)

	fields := map[string]string{
		"title":         in.Title,
		"description":   in.Description,
		"categorie":     in.Category,
		"sub_categorie": in.SubCategory,
		"price":         strconv.FormatFloat(in.Price, 'f', -1, 64),
	}
	for name, value := range fields {
		if err := mw.WriteField(name, value); err != nil {
			return nil, err
		}
	}
	for _, img := range images {
		fw, err := mw.CreateFormFile("images", img.Name)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(fw, img.Body); err != nil {
			return nil, err
		}
	}
	if err := mw.Close(); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/products/add_product", &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return nil, decodeError(resp)
	}

	var out struct {
		Product *Product `json:"product"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return out.Product, nil
}

func (c *HTTPClient) ListProducts(ctx context.Context, filter ProductFilter) ([]*Product, int64, error) {
	q := url.Values{}
	if filter.Category != "" {
		q.Set("categorie", filter.Category)
	}
	if filter.SubCategory != "" {
		q.Set("sub_categorie", filter.SubCategory)
	}
	if filter.MinPrice > 0 {
		q.Set("min_price", strconv.FormatFloat(filter.MinPrice, 'f', -1, 64))
	}
	if filter.MaxPrice > 0 {
		q.Set("max_price", strconv.FormatFloat(filter.MaxPrice, 'f', -1, 64))
	}
	if filter.Page > 0 {
		q.Set("page", strconv.Itoa(filter.Page))
	}
	if filter.PerPage > 0 {
		q.Set("per_page", strconv.Itoa(filter.PerPage))
	}

	path := "/products/show_products"
	if encoded := q.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var out struct {
		Products []*Product `json:"products"`
		Total    int64      `json:"total"`
	}
	if _, err := c.do(ctx, http.MethodGet, path, "", nil, &out); err != nil {
		return nil, 0, err
	}
	return out.Products, out.Total, nil
}
