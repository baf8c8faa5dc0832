package crafty

import (
	"context"
	"net/http"
	"strings"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	TOTP     string `json:"totp,omitempty"`
}

// Login authenticates against the panel and returns the bearer credentials.
// totp is the six-digit code, required only when the account has MFA
// enabled; pass "" otherwise.
func (c *Client) Login(ctx context.Context, username, password, totp string) (Credentials, error) {
	body := loginRequest{
		Username: username,
		Password: password,
		TOTP:     strings.TrimSpace(totp),
	}
	var creds Credentials
	if err := c.do(ctx, http.MethodPost, "api/v2/auth/login", "", body, &creds); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}
