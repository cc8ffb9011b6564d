package transport

import (
	"context"

	"github.com/spec-kit/helpdesk-client/pkg/util"
)

// Login exchanges credentials for a signed token. A 401 surfaces as
// AuthenticationFailed, transport failures as NetworkUnavailable.
func (c *Client) Login(ctx context.Context, login, secret string) (string, error) {
	var result struct {
		Token string `json:"token"`
	}

	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(map[string]string{"login": login, "senha": secret}).
		SetResult(&result).
		Post("/api/auth/login")
	if err := c.evaluate(resp, err, "login"); err != nil {
		return "", err
	}

	if result.Token == "" {
		return "", util.NewAuthenticationFailed("server returned no token")
	}
	return result.Token, nil
}
