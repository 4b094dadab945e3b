package mail

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const resendAPIURL = "https://api.resend.com/emails"

// ResendClient delivers through the Resend transactional email API.
type ResendClient struct {
	apiKey    string
	fromEmail string
	fromName  string
	baseURL   string
	http      *http.Client
}

func NewResendClient(apiKey, fromEmail, fromName string) *ResendClient {
	return &ResendClient{
		apiKey:    apiKey,
		fromEmail: fromEmail,
		fromName:  fromName,
		baseURL:   resendAPIURL,
		http:      &http.Client{Timeout: 30 * time.Second},
	}
}

type resendRequest struct {
	From    string   `json:"from"`
	To      []string `json:"to"`
	Subject string   `json:"subject"`
	HTML    string   `json:"html"`
}

type resendResponse struct {
	ID      string `json:"id"`
	Message string `json:"message,omitempty"`
}

func (c *ResendClient) Send(ctx context.Context, to, subject, html string) (string, error) {
	payload := resendRequest{
		From:    fmt.Sprintf("%s <%s>", c.fromName, c.fromEmail),
		To:      []string{to},
		Subject: subject,
		HTML:    html,
	}

	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal resend payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewBuffer(jsonBody))
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		recordTransportError(ProviderResend)
		return "", fmt.Errorf("resend request failed: %w", err)
	}
	defer resp.Body.Close()

	var response resendResponse
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Resend puts a human-readable message in the error body.
		_ = json.NewDecoder(resp.Body).Decode(&response)
		if response.Message == "" {
			response.Message = http.StatusText(resp.StatusCode)
		}
		recordTransportError(ProviderResend)
		return "", fmt.Errorf("resend error (status %d): %s", resp.StatusCode, response.Message)
	}

	if err := json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return "", fmt.Errorf("failed to decode resend response: %w", err)
	}

	return response.ID, nil
}
