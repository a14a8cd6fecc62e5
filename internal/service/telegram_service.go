package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"html"
	"net/http"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/osa911/contact-api/internal/models"
)

// DefaultTelegramAPIBaseURL is the public Bot API host
const DefaultTelegramAPIBaseURL = "https://api.telegram.org"

// telegramMaxMessageLength is the Bot API limit for sendMessage text
const telegramMaxMessageLength = 4096

// TelegramConfig configures the Telegram notifier
type TelegramConfig struct {
	BotToken   string
	ChatID     string
	APIBaseURL string
	Timeout    time.Duration
}

// TelegramService handles sending messages to Telegram
type TelegramService struct {
	botToken string
	chatID   string
	baseURL  string
	client   *http.Client
}

// NewTelegramService creates a new Telegram service
func NewTelegramService(cfg TelegramConfig) *TelegramService {
	baseURL := strings.TrimRight(cfg.APIBaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultTelegramAPIBaseURL
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &TelegramService{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		baseURL:  baseURL,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// telegramMessage represents a Telegram API message
type telegramMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode,omitempty"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview,omitempty"`
}

// SendContactMessage sends a contact form submission to Telegram
func (s *TelegramService) SendContactMessage(ctx context.Context, submission *models.Submission) error {
	if s.botToken == "" || s.chatID == "" {
		return ErrTelegramNotConfigured
	}

	payload := telegramMessage{
		ChatID:                s.chatID,
		Text:                  formatContactMessage(submission),
		ParseMode:             "HTML",
		DisableWebPagePreview: true,
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal telegram message: %w", err)
	}

	url := fmt.Sprintf("%s/bot%s/sendMessage", s.baseURL, s.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
	if err != nil {
		return fmt.Errorf("failed to create telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		// the request URL embeds the bot token
		return fmt.Errorf("failed to send telegram message: %w", redactToken(err, s.botToken))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram API returned status %d", resp.StatusCode)
	}

	return nil
}

// headerFieldLimit bounds each header line so the message body always keeps
// room within telegramMaxMessageLength
const headerFieldLimit = 256

func formatContactMessage(s *models.Submission) string {
	field := func(v string) string { return truncateEscaped(v, headerFieldLimit) }

	var b strings.Builder
	b.WriteString("🆕 <b>New Contact Form Submission</b>\n\n")
	fmt.Fprintf(&b, "<b>Name:</b> %s\n", field(s.Name))
	fmt.Fprintf(&b, "<b>Email:</b> %s\n", field(s.Email))
	if s.Phone != "" {
		fmt.Fprintf(&b, "<b>Phone:</b> %s\n", field(s.Phone))
	}
	if s.Subject != "" {
		fmt.Fprintf(&b, "<b>Subject:</b> %s\n", field(s.Subject))
	}

	var meta []string
	if s.IPAddress != "" {
		meta = append(meta, "<b>IP:</b> "+field(s.IPAddress))
	}
	if s.Referrer != "" {
		meta = append(meta, "<b>Referrer:</b> "+field(s.Referrer))
	}
	if s.ID != "" {
		meta = append(meta, "<b>ID:</b> <code>"+field(s.ID)+"</code>")
	}
	if len(meta) > 0 {
		b.WriteString(strings.Join(meta, "\n"))
		b.WriteString("\n")
	}

	head := b.String() + "\n<b>Message:</b>\n"
	budget := telegramMaxMessageLength - utf8.RuneCountInString(head)
	return head + truncateEscaped(s.Message, budget)
}

// truncateEscaped escapes message and cuts it to at most limit runes without
// splitting an entity.
func truncateEscaped(message string, limit int) string {
	escaped := html.EscapeString(message)
	if utf8.RuneCountInString(escaped) <= limit {
		return escaped
	}
	const ellipsis = "…"
	limit -= utf8.RuneCountInString(ellipsis)
	if limit <= 0 {
		return ""
	}

	var b strings.Builder
	count := 0
	for _, r := range message {
		part := html.EscapeString(string(r))
		n := utf8.RuneCountInString(part)
		if count+n > limit {
			break
		}
		b.WriteString(part)
		count += n
	}
	return b.String() + ellipsis
}

func redactToken(err error, token string) error {
	msg := err.Error()
	if token == "" || !strings.Contains(msg, token) {
		return err
	}
	return fmt.Errorf("%s", strings.ReplaceAll(msg, token, "[REDACTED]"))
}
