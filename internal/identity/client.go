package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/hotel-staff-service/internal/config"
)

// Client talks to the identity provider's admin API using the elevated
// service key. It is the only component holding that key.
type Client struct {
	baseURL    string
	serviceKey string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient constructs the admin API client.
func NewClient(cfg config.IdentityConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

type createUserRequest struct {
	Email        string `json:"email"`
	EmailConfirm bool   `json:"email_confirm"`
}

// CreateUser registers a new account with confirmation deferred, which
// makes the provider deliver an invitation email. A created account is
// never deleted by this service, even when later steps fail.
func (c *Client) CreateUser(ctx context.Context, email string) (*CreatedUser, error) {
	if c.baseURL == "" || c.serviceKey == "" {
		return nil, ErrNotConfigured
	}

	payload, err := json.Marshal(createUserRequest{Email: email, EmailConfirm: false})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/admin/users", bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.serviceKey)
	req.Header.Set("apikey", c.serviceKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("identity provider unreachable: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read identity provider response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Warn("identity provider rejected create-user",
			zap.Int("status", resp.StatusCode),
			zap.String("email", email))
		return nil, &ProviderError{StatusCode: resp.StatusCode, Message: rejectionMessage(resp.StatusCode, body)}
	}

	var created CreatedUser
	if err := json.Unmarshal(body, &created); err != nil {
		return nil, fmt.Errorf("decode identity provider response: %w", err)
	}

	// A blank id is returned as-is; the caller enforces its invariant.
	return &created, nil
}

// rejectionMessage digs the human-readable message out of the provider's
// error body, falling back to the raw body or status text.
func rejectionMessage(status int, body []byte) string {
	var parsed struct {
		Msg              string `json:"msg"`
		Message          string `json:"message"`
		ErrorDescription string `json:"error_description"`
	}
	if err := json.Unmarshal(body, &parsed); err == nil {
		switch {
		case parsed.Msg != "":
			return parsed.Msg
		case parsed.Message != "":
			return parsed.Message
		case parsed.ErrorDescription != "":
			return parsed.ErrorDescription
		}
	}
	if trimmed := strings.TrimSpace(string(body)); trimmed != "" {
		return trimmed
	}
	return http.StatusText(status)
}
