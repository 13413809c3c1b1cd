package notification

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/sabridemirel/arayanibul-sub001/internal/models"
)

// PushSender delivers a single push message to a device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data models.JSON) error
}

// ExpoPushSender sends notifications through the Expo push API used by the
// mobile client.
type ExpoPushSender struct {
	endpoint string
	client   *http.Client
}

func NewExpoPushSender() *ExpoPushSender {
	return &ExpoPushSender{
		endpoint: "https://exp.host/--/api/v2/push/send",
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type expoPushMessage struct {
	To    string      `json:"to"`
	Title string      `json:"title"`
	Body  string      `json:"body"`
	Data  models.JSON `json:"data,omitempty"`
	Sound string      `json:"sound"`
}

func (e *ExpoPushSender) Send(ctx context.Context, token, title, body string, data models.JSON) error {
	payload, err := json.Marshal(expoPushMessage{
		To:    token,
		Title: title,
		Body:  body,
		Data:  data,
		Sound: "default",
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("expo push returned status %d", resp.StatusCode)
	}
	return nil
}
