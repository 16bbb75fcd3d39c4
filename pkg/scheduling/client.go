package scheduling

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/config"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
	"github.com/willowrootwellness/willowroot-backend/pkg/logger"
)

// SlotRequest describes the window a booking wants to occupy.
type SlotRequest struct {
	SessionType     enums.SessionType `json:"session_type"`
	ScheduledAt     time.Time         `json:"scheduled_at"`
	DurationMinutes int               `json:"duration_minutes"`
}

// SlotResult is the practitioner calendar's answer.
type SlotResult struct {
	Available bool   `json:"available"`
	Reason    string `json:"reason,omitempty"`
}

// Client talks to the practitioner scheduling service.
type Client interface {
	CheckSlot(ctx context.Context, req SlotRequest) (SlotResult, error)
	ReleaseSlot(ctx context.Context, bookingID uuid.UUID) error
}

type httpClient struct {
	cfg  config.SchedulingConfig
	http *http.Client
	logg *logger.Logger
}

// New builds a scheduling client. With no base URL configured every slot is
// reported available, which keeps dev environments working without the
// calendar service.
func New(cfg config.SchedulingConfig, logg *logger.Logger) Client {
	if strings.TrimSpace(cfg.BaseURL) == "" {
		return &openCalendar{logg: logg}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &httpClient{
		cfg:  cfg,
		http: &http.Client{Timeout: timeout},
		logg: logg,
	}
}

func (c *httpClient) CheckSlot(ctx context.Context, req SlotRequest) (SlotResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return SlotResult{}, fmt.Errorf("encoding slot request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/slots/check"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return SlotResult{}, fmt.Errorf("building slot request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return SlotResult{}, fmt.Errorf("checking slot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return SlotResult{}, fmt.Errorf("scheduling service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}

	var result SlotResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return SlotResult{}, fmt.Errorf("decoding slot response: %w", err)
	}
	return result, nil
}

func (c *httpClient) ReleaseSlot(ctx context.Context, bookingID uuid.UUID) error {
	url := fmt.Sprintf("%s/v1/slots/%s", strings.TrimRight(c.cfg.BaseURL, "/"), bookingID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("building release request: %w", err)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("releasing slot: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 && resp.StatusCode != http.StatusNotFound {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("scheduling service returned %d: %s", resp.StatusCode, strings.TrimSpace(string(detail)))
	}
	return nil
}

type openCalendar struct {
	logg *logger.Logger
}

func (o *openCalendar) CheckSlot(ctx context.Context, req SlotRequest) (SlotResult, error) {
	if o.logg != nil {
		o.logg.Info(ctx, "scheduling service not configured, treating slot as available")
	}
	return SlotResult{Available: true}, nil
}

func (o *openCalendar) ReleaseSlot(ctx context.Context, bookingID uuid.UUID) error {
	return nil
}
