package mailer

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/willowrootwellness/willowroot-backend/pkg/config"
)

func TestSendPostsToProvider(t *testing.T) {
	var captured sendRequest
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		authHeader = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&captured); err != nil {
			t.Fatalf("decoding request body: %v", err)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	client, err := New(config.MailerConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		DefaultFrom: "orders@willowroot.example",
	}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Send(context.Background(), Message{
		To:       "customer@example.com",
		Subject:  "Order confirmed",
		TextBody: "Thanks for your order.",
	})
	if err != nil {
		t.Fatalf("Send returned error: %v", err)
	}

	if authHeader != "Bearer test-key" {
		t.Fatalf("expected bearer auth, got %q", authHeader)
	}
	if len(captured.Personalizations) != 1 || captured.Personalizations[0].To[0].Email != "customer@example.com" {
		t.Fatalf("unexpected recipients: %+v", captured.Personalizations)
	}
	if captured.From.Email != "orders@willowroot.example" {
		t.Fatalf("unexpected from address %q", captured.From.Email)
	}
}

func TestSendSurfacesProviderError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":[{"message":"bad request"}]}`, http.StatusBadRequest)
	}))
	defer server.Close()

	client, err := New(config.MailerConfig{
		APIKey:      "test-key",
		BaseURL:     server.URL,
		DefaultFrom: "orders@willowroot.example",
	}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	err = client.Send(context.Background(), Message{
		To:       "customer@example.com",
		Subject:  "Order confirmed",
		TextBody: "Thanks for your order.",
	})
	if err == nil {
		t.Fatal("expected provider error to be surfaced")
	}
}

func TestSendDryRunWithoutAPIKey(t *testing.T) {
	client, err := New(config.MailerConfig{DefaultFrom: "orders@willowroot.example"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	err = client.Send(context.Background(), Message{
		To:       "customer@example.com",
		Subject:  "Order confirmed",
		TextBody: "Thanks for your order.",
	})
	if err != nil {
		t.Fatalf("dry-run send returned error: %v", err)
	}
}

func TestSendRequiresRecipient(t *testing.T) {
	client, err := New(config.MailerConfig{DefaultFrom: "orders@willowroot.example"}, nil)
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	if err := client.Send(context.Background(), Message{Subject: "hi"}); err == nil {
		t.Fatal("expected missing recipient to be rejected")
	}
}
