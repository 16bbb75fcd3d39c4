package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/willowrootwellness/willowroot-backend/pkg/config"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// Message is a single transactional email.
type Message struct {
	To       string
	Subject  string
	TextBody string
	HTMLBody string
}

// Sender is the surface consumers depend on.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// Client delivers transactional email through the provider's HTTP API.
type Client struct {
	cfg    config.MailerConfig
	http   *http.Client
	logg   *logger.Logger
	dryRun bool
}

// New builds a mailer client. With no API key configured the client runs in
// dry-run mode and only logs deliveries, which keeps dev environments quiet.
func New(cfg config.MailerConfig, logg *logger.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.DefaultFrom) == "" {
		return nil, errors.New("mailer from address is required")
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: timeout},
		logg:   logg,
		dryRun: strings.TrimSpace(cfg.APIKey) == "",
	}, nil
}

type sendRequest struct {
	Personalizations []personalization `json:"personalizations"`
	From             emailAddress      `json:"from"`
	Subject          string            `json:"subject"`
	Content          []content         `json:"content"`
}

type personalization struct {
	To []emailAddress `json:"to"`
}

type emailAddress struct {
	Email string `json:"email"`
}

type content struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Send delivers one message. Delivery failures are returned to the caller so
// the worker can nack and retry.
func (c *Client) Send(ctx context.Context, msg Message) error {
	if strings.TrimSpace(msg.To) == "" {
		return errors.New("recipient is required")
	}
	if c.dryRun {
		if c.logg != nil {
			logCtx := c.logg.WithFields(ctx, map[string]any{
				"to":      msg.To,
				"subject": msg.Subject,
			})
			c.logg.Info(logCtx, "mailer dry-run, skipping delivery")
		}
		return nil
	}

	body := sendRequest{
		Personalizations: []personalization{{To: []emailAddress{{Email: msg.To}}}},
		From:             emailAddress{Email: c.cfg.DefaultFrom},
		Subject:          msg.Subject,
	}
	if msg.TextBody != "" {
		body.Content = append(body.Content, content{Type: "text/plain", Value: msg.TextBody})
	}
	if msg.HTMLBody != "" {
		body.Content = append(body.Content, content{Type: "text/html", Value: msg.HTMLBody})
	}
	if len(body.Content) == 0 {
		return errors.New("message body is required")
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("encoding mail payload: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v3/mail/send"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building mail request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("sending mail: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("mail provider returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}
