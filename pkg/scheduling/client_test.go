package scheduling

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/willowrootwellness/willowroot-backend/pkg/config"
	"github.com/willowrootwellness/willowroot-backend/pkg/enums"
)

func TestCheckSlotDecodesResult(t *testing.T) {
	var captured SlotRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/slots/check" {
			t.Fatalf("unexpected path %q", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request: %v", err)
		}
		json.NewEncoder(w).Encode(SlotResult{Available: false, Reason: "practitioner unavailable"})
	}))
	defer server.Close()

	client := New(config.SchedulingConfig{BaseURL: server.URL}, nil)
	result, err := client.CheckSlot(context.Background(), SlotRequest{
		SessionType:     enums.SessionInitialConsult,
		ScheduledAt:     time.Now().Add(48 * time.Hour),
		DurationMinutes: 60,
	})
	if err != nil {
		t.Fatalf("CheckSlot returned error: %v", err)
	}
	if result.Available {
		t.Fatal("expected slot to be unavailable")
	}
	if result.Reason != "practitioner unavailable" {
		t.Fatalf("unexpected reason %q", result.Reason)
	}
	if captured.SessionType != enums.SessionInitialConsult {
		t.Fatalf("unexpected session type %q", captured.SessionType)
	}
}

func TestCheckSlotSurfacesServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "calendar offline", http.StatusBadGateway)
	}))
	defer server.Close()

	client := New(config.SchedulingConfig{BaseURL: server.URL}, nil)
	if _, err := client.CheckSlot(context.Background(), SlotRequest{}); err == nil {
		t.Fatal("expected server error to be surfaced")
	}
}

func TestReleaseSlotIgnoresNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := New(config.SchedulingConfig{BaseURL: server.URL}, nil)
	if err := client.ReleaseSlot(context.Background(), uuid.New()); err != nil {
		t.Fatalf("expected 404 release to be ignored, got %v", err)
	}
}

func TestOpenCalendarWhenUnconfigured(t *testing.T) {
	client := New(config.SchedulingConfig{}, nil)
	result, err := client.CheckSlot(context.Background(), SlotRequest{})
	if err != nil {
		t.Fatalf("CheckSlot returned error: %v", err)
	}
	if !result.Available {
		t.Fatal("expected open calendar to report availability")
	}
}
