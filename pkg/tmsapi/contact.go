package tmsapi

import "context"

// SendContact submits the public contact form. No session required.
func (c *Client) SendContact(ctx context.Context, name, email, message string) (string, error) {
	req := map[string]string{"name": name, "email": email, "message": message}
	return c.postMessage(ctx, "/api/contact", req)
}
