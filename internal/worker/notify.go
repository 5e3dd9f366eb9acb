package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type httpPoster interface {
	post(url string, payload any) error
}

type webhookClient struct {
	client *http.Client
}

func newWebhookClient() *webhookClient {
	// Bounded timeout so a slow receiver never stalls the worker.
	return &webhookClient{client: &http.Client{Timeout: 5 * time.Second}}
}

func (c *webhookClient) post(url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequest(http.MethodPost, url, bytes.NewBuffer(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", "Paycode-Webhook/1.0")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	return fmt.Errorf("webhook receiver returned status %d", resp.StatusCode)
}
