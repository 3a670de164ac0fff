// Package oauth exchanges Google authorization codes for verified profile
// information used by social sign-up and sign-in.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const defaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// Profile is the subset of the Google userinfo response the auth service
// needs to create or match an account.
type Profile struct {
	Email         string `json:"email"`
	Name          string `json:"name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"verified_email"`
}

// Exchanger turns an authorization code into a profile. The auth service
// depends on this interface so tests can stub the network round trips.
type Exchanger interface {
	Exchange(ctx context.Context, code, redirectURI string) (*Profile, error)
}

// GoogleService is the production Exchanger backed by Google's token and
// userinfo endpoints.
type GoogleService struct {
	clientID     string
	clientSecret string

	// Endpoint and UserInfoURL default to Google's; tests override them.
	Endpoint    oauth2.Endpoint
	UserInfoURL string
}

func NewGoogleService(clientID, clientSecret string) *GoogleService {
	return &GoogleService{
		clientID:     clientID,
		clientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		UserInfoURL:  defaultUserInfoURL,
	}
}

// Exchange trades the authorization code for an access token, then fetches
// the userinfo document with it.
func (s *GoogleService) Exchange(ctx context.Context, code, redirectURI string) (*Profile, error) {
	conf := &oauth2.Config{
		ClientID:     s.clientID,
		ClientSecret: s.clientSecret,
		Endpoint:     s.Endpoint,
		RedirectURL:  redirectURI,
		Scopes:       []string{"openid", "email", "profile"},
	}

	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google code exchange: %w", err)
	}

	client := conf.Client(ctx, token)
	resp, err := client.Get(s.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("google userinfo: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("google userinfo status %d: %s", resp.StatusCode, string(b))
	}

	profile := &Profile{}
	if err := json.NewDecoder(resp.Body).Decode(profile); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if profile.Email == "" {
		return nil, fmt.Errorf("google userinfo: empty email")
	}
	return profile, nil
}
