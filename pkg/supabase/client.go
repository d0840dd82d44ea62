package supabase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ErrInvalidToken means the auth server rejected the access token.
var ErrInvalidToken = errors.New("invalid access token")

type Client struct {
	BaseURL    string
	APIKey     string
	HTTPClient *http.Client
}

type UserMetadata struct {
	Name      string `json:"name"`
	FullName  string `json:"full_name"`
	AvatarURL string `json:"avatar_url"`
}

type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	UserMetadata UserMetadata `json:"user_metadata"`
}

// DisplayName prefers the profile name and falls back to the local part of
// the email address.
func (u *User) DisplayName() string {
	switch {
	case u.UserMetadata.Name != "":
		return u.UserMetadata.Name
	case u.UserMetadata.FullName != "":
		return u.UserMetadata.FullName
	}
	if at := strings.Index(u.Email, "@"); at > 0 {
		return u.Email[:at]
	}
	return ""
}

func NewClient(baseURL, apiKey string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		HTTPClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// GetUser resolves an access token to the user it was issued for.
func (c *Client) GetUser(ctx context.Context, accessToken string) (*User, error) {
	url := fmt.Sprintf("%s/auth/v1/user", c.BaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)
	req.Header.Set("apikey", c.APIKey)
	req.Header.Set("Accept", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, ErrInvalidToken
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("auth server returned status %d", resp.StatusCode)
	}

	var user User
	if err := json.Unmarshal(body, &user); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if user.ID == "" {
		return nil, ErrInvalidToken
	}
	return &user, nil
}
