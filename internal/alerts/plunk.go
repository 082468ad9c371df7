package alerts

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"github.com/lexify-app/lexify/internal/config"
)

type plunkSendBody struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	From    string `json:"from,omitempty"`
	Reply   string `json:"reply,omitempty"`
}

// sendViaPlunk performs the HTTP request to the Plunk API
func sendViaPlunk(to, subject, body string) error {
	cfg := config.App
	if cfg.PlunkAPIKey == "" {
		return fmt.Errorf("plunk not configured: set PLUNK_API_KEY")
	}

	payload := plunkSendBody{
		To:      to,
		Subject: subject,
		Body:    body,
		From:    cfg.PlunkFrom,
		Reply:   cfg.MailReplyTo,
	}
	b, _ := json.Marshal(payload)
	req, err := http.NewRequest("POST", cfg.PlunkAPIURL, bytes.NewReader(b))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+cfg.PlunkAPIKey)

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if resp.Body != nil {
			if b, readErr := io.ReadAll(resp.Body); readErr == nil && len(b) > 0 {
				return fmt.Errorf("plunk send failed: status=%d body=%s", resp.StatusCode, string(b))
			}
		}
		return fmt.Errorf("plunk send failed: status=%d", resp.StatusCode)
	}
	return nil
}
