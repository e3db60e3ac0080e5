package tmsapi

import (
	"context"
	"net/http"
)

// Profile updates go through one endpoint per field; every call requires an
// authenticated session and answers with the usual message envelope.

func (c *Client) UpdateUsername(ctx context.Context, newUsername string) (string, error) {
	return c.postMessage(ctx, "/api/update_username", map[string]string{"new_username": newUsername})
}

func (c *Client) UpdateEmail(ctx context.Context, newEmail string) (string, error) {
	return c.postMessage(ctx, "/api/update_email", map[string]string{"new_email": newEmail})
}

func (c *Client) UpdatePhone(ctx context.Context, newPhone string) (string, error) {
	return c.postMessage(ctx, "/api/update_phone", map[string]string{"new_phone": newPhone})
}

func (c *Client) UpdatePassword(ctx context.Context, newPassword string) (string, error) {
	return c.postMessage(ctx, "/api/update_password", map[string]string{"new_password": newPassword})
}

func (c *Client) postMessage(ctx context.Context, path string, req any) (string, error) {
	var res messageBody
	if _, err := c.doJSON(ctx, http.MethodPost, path, req, &res); err != nil {
		return "", err
	}
	return res.Message, nil
}
