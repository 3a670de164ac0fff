package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// BrevoService sends transactional email through Brevo's SMTP API.
type BrevoService struct {
	apiKey     string
	apiURL     string
	fromEmail  string
	fromName   string
	httpClient *http.Client
}

// NewBrevoService creates a mail service instance. apiURL should normally be
// the production endpoint; tests point it at a local server.
func NewBrevoService(apiKey, apiURL, fromEmail, fromName string) *BrevoService {
	return &BrevoService{
		apiKey:    apiKey,
		apiURL:    apiURL,
		fromEmail: fromEmail,
		fromName:  fromName,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

type brevoParty struct {
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
}

type brevoMessage struct {
	Sender      brevoParty   `json:"sender"`
	To          []brevoParty `json:"to"`
	Subject     string       `json:"subject"`
	HTMLContent string       `json:"htmlContent"`
}

// SendOTP dispatches the verification code to the recipient. Any non-2xx
// response is returned as an error with the API's body included.
func (s *BrevoService) SendOTP(ctx context.Context, to, name, code string) error {
	msg := brevoMessage{
		Sender:  brevoParty{Email: s.fromEmail, Name: s.fromName},
		To:      []brevoParty{{Email: to, Name: name}},
		Subject: "Your Gowear verification code",
		HTMLContent: fmt.Sprintf(
			"<p>Hi %s,</p><p>Your verification code is <b>%s</b>. It expires in 10 minutes.</p>",
			name, code),
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshaling email request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating HTTP request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", s.apiKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("sending email request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("brevo API returned status %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
