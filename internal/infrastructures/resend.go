package infrastructures

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ResendClient is a thin HTTP client for the Resend transactional email API,
// used for low-stock alert delivery.
type ResendClient struct {
	HTTPClient *http.Client
	BaseURL    string
	APIKey     string
	FromEmail  string
}

func NewResendClient() *ResendClient {
	return &ResendClient{
		HTTPClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		BaseURL:   "https://api.resend.com",
		APIKey:    Config.RESEND_API_KEY,
		FromEmail: Config.ALERT_FROM_EMAIL,
	}
}

// Enabled reports whether outbound email is configured at all.
func (c *ResendClient) Enabled() bool {
	return c.APIKey != ""
}

type resendEmailRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html,omitempty"`
	Text    string   `json:"text,omitempty"`
}

func (c *ResendClient) SendEmail(ctx context.Context, to, subject, html, text string) error {
	payload := resendEmailRequest{
		From:    c.FromEmail,
		To:      []string{to},
		Subject: subject,
		HTML:    html,
		Text:    text,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal email payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/emails", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build email request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("email provider returned %d: %s", resp.StatusCode, string(respBody))
	}

	return nil
}
