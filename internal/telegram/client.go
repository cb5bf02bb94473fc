// Package telegram adapts the orchestrator to Telegram chats: an outbound
// Bot API client and an inbound webhook that runs conversational turns.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

const defaultBaseURL = "https://api.telegram.org"

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

func NewClient(token string) *Client {
	return &Client{
		BaseURL: defaultBaseURL,
		Token:   token,
		HTTP:    &http.Client{Timeout: 30 * time.Second},
	}
}

type sendMessageRequest struct {
	ChatID int64  `json:"chat_id"`
	Text   string `json:"text"`
}

type apiResponse struct {
	OK          bool   `json:"ok"`
	Description string `json:"description,omitempty"`
}

// SendMessage posts text into a chat.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string) error {
	b, _ := json.Marshal(sendMessageRequest{ChatID: chatID, Text: text})

	url := fmt.Sprintf("%s/bot%s/sendMessage", c.BaseURL, c.Token)
	httpReq, _ := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(b))
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	defer resp.Body.Close()

	var out apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return fmt.Errorf("telegram decode: %w", err)
	}
	if resp.StatusCode >= 400 || !out.OK {
		return fmt.Errorf("telegram error (status %d): %s", resp.StatusCode, out.Description)
	}
	return nil
}
