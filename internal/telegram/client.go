// Package telegram is the outbound message transport: a thin client over the
// Telegram Bot API plus the inbound update wire types.
package telegram

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/ternarybob/arbor"

	"github.com/tickerlens/tickerlens/config"
	"github.com/tickerlens/tickerlens/internal/common"
)

// Client handles Telegram Bot API operations.
type Client struct {
	client *resty.Client
	logger arbor.ILogger
}

// NewClient creates a bot client from the configured token.
func NewClient(cfg *config.Config) *Client {
	client := resty.New()
	client.SetBaseURL(fmt.Sprintf("https://api.telegram.org/bot%s", cfg.TelegramBotToken))
	client.SetTimeout(30 * time.Second)

	return &Client{
		client: client,
		logger: common.GetLogger(),
	}
}

// SendText delivers a Markdown-formatted text message.
func (c *Client) SendText(ctx context.Context, chatID int64, text string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id":    chatID,
			"text":       text,
			"parse_mode": "Markdown",
		}).
		Post("/sendMessage")
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("sendMessage returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}

// SendPhoto delivers a photo by URL with an optional caption.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photoURL, caption string) error {
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(map[string]interface{}{
			"chat_id": chatID,
			"photo":   photoURL,
			"caption": caption,
		}).
		Post("/sendPhoto")
	if err != nil {
		return fmt.Errorf("failed to send photo: %w", err)
	}
	if resp.StatusCode() != 200 {
		return fmt.Errorf("sendPhoto returned status %d: %s", resp.StatusCode(), resp.String())
	}
	return nil
}
