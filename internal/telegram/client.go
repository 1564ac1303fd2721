// Package telegram sends the operations digest and critical alerts to a
// Telegram chat.
//
// The client is optional: NewClient returns nil when the bot token or chat
// ID is missing, and every method on a nil *Client logs and returns nil so
// callers never branch on configuration.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"time"

	"farmops/internal/format"
)

const defaultAPIBase = "https://api.telegram.org"

// Client represents a Telegram bot client.
//
// Fields:
//   - BotToken: Telegram bot API token
//   - ChatID: Target chat ID for digests and alerts
//   - DebugMode: If true, skip actual API calls
type Client struct {
	BotToken  string
	ChatID    string
	DebugMode bool

	apiBase string
	http    *http.Client
}

// Message represents a Telegram message for sending.
type Message struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// NewClient creates a client, or returns nil when token or chatID is empty.
func NewClient(token, chatID string, debug bool) *Client {
	if token == "" || chatID == "" {
		log.Println("⚠️  TELEGRAM_BOT_TOKEN or TELEGRAM_CHAT_ID not set. Telegram digest disabled.")
		if token == "" {
			log.Println("   → Missing: TELEGRAM_BOT_TOKEN")
		}
		if chatID == "" {
			log.Println("   → Missing: TELEGRAM_CHAT_ID")
		}
		return nil
	}

	log.Println("✓ Telegram configured successfully")
	if debug {
		log.Println("🐛 DEBUG MODE ENABLED - Telegram calls will be simulated")
	}

	return &Client{
		BotToken:  token,
		ChatID:    chatID,
		DebugMode: debug,
		apiBase:   defaultAPIBase,
		http:      &http.Client{Timeout: 60 * time.Second},
	}
}

func (c *Client) endpoint(method string) string {
	return fmt.Sprintf("%s/bot%s/%s", c.apiBase, c.BotToken, method)
}

// doRequest posts a JSON payload to a bot API method.
func (c *Client) doRequest(ctx context.Context, method string, payload interface{}) (map[string]interface{}, error) {
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint(method), bytes.NewReader(jsonData))
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *Client) send(req *http.Request) (map[string]interface{}, error) {
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	var result map[string]interface{}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if ok, exists := result["ok"].(bool); !exists || !ok {
		return nil, fmt.Errorf("Telegram API error: %v", result)
	}
	return result, nil
}

// SendMessage sends an HTML-formatted text message.
func (c *Client) SendMessage(ctx context.Context, text string) error {
	if c == nil {
		log.Println("   ⚠️  Telegram not configured, skipping message")
		return nil
	}
	if c.DebugMode {
		log.Printf("   🐛 [DEBUG] Would send Telegram message (%d chars)", len(text))
		return nil
	}

	_, err := c.doRequest(ctx, "sendMessage", Message{
		ChatID:                c.ChatID,
		Text:                  text,
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	})
	if err != nil {
		return fmt.Errorf("failed to send Telegram message: %w", err)
	}
	return nil
}

// SendPhoto uploads a PNG with an HTML caption.
func (c *Client) SendPhoto(ctx context.Context, png []byte, caption string) error {
	if c == nil {
		log.Println("   ⚠️  Telegram not configured, skipping photo")
		return nil
	}
	if c.DebugMode {
		log.Printf("   🐛 [DEBUG] Would send Telegram photo (%d bytes)", len(png))
		return nil
	}

	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	_ = w.WriteField("chat_id", c.ChatID)
	_ = w.WriteField("caption", caption)
	_ = w.WriteField("parse_mode", "HTML")
	part, err := w.CreateFormFile("photo", "kpis.png")
	if err != nil {
		return fmt.Errorf("failed to build photo upload: %w", err)
	}
	if _, err := part.Write(png); err != nil {
		return fmt.Errorf("failed to build photo upload: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to build photo upload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint("sendPhoto"), &body)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	if _, err := c.send(req); err != nil {
		return fmt.Errorf("failed to send Telegram photo: %w", err)
	}
	log.Println("   ✓ Digest image sent to Telegram")
	return nil
}

// SendCriticalAlert sends an alert after repeated failures.
//
// Parameters:
//   - errorType: Short category, e.g. "Digest Failure"
//   - errorMsg: Last error; escaped before it is sent
//   - retryCount: Consecutive failed attempts
func (c *Client) SendCriticalAlert(ctx context.Context, errorType, errorMsg string, retryCount int) error {
	if c == nil {
		log.Println("   ⚠️  Telegram not configured, skipping critical alert")
		return nil
	}

	log.Println("   🚨 Sending critical alert to Telegram...")

	message := fmt.Sprintf(
		"🚨 <b>CRITICAL ALERT - FARMOPS DASHBOARD</b>\n\n"+
			"<b>Error Type:</b> %s\n"+
			"<b>Error Message:</b> %s\n"+
			"<b>Retry Attempts:</b> %d\n"+
			"<b>Timestamp:</b> %s\n\n"+
			"⚠️ <b>Action Required:</b> Please check the service immediately.",
		format.EscapeHTML(errorType),
		format.EscapeHTML(errorMsg),
		retryCount,
		time.Now().In(format.DisplayZone).Format("2006-01-02 15:04:05"),
	)

	if err := c.SendMessage(ctx, message); err != nil {
		return fmt.Errorf("failed to send Telegram alert: %w", err)
	}

	log.Println("   ✓ Critical alert successfully sent to Telegram")
	return nil
}
