package contact

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		msg     Message
		wantErr error
	}{
		{"all fields valid", Message{Name: "Alex", Email: "alex@example.com", Message: "hi"}, nil},
		{"missing name", Message{Email: "alex@example.com", Message: "hi"}, ErrMissingName},
		{"whitespace name", Message{Name: "   ", Email: "alex@example.com", Message: "hi"}, ErrMissingName},
		{"missing email", Message{Name: "Alex", Message: "hi"}, ErrMissingEmail},
		{"invalid email", Message{Name: "Alex", Email: "not-an-email", Message: "hi"}, ErrInvalidEmail},
		{"email without tld", Message{Name: "Alex", Email: "alex@example", Message: "hi"}, ErrInvalidEmail},
		{"missing message", Message{Name: "Alex", Email: "alex@example.com"}, ErrMissingMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.msg.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestSendPostsValidMessage(t *testing.T) {
	var received atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("unexpected content type %q", ct)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	relay := NewRelay(server.URL)
	err := relay.Send(context.Background(), Message{Name: "Alex", Email: "alex@example.com", Message: "hello"})
	if err != nil {
		t.Fatalf("send failed: %v", err)
	}
	if received.Load() != 1 {
		t.Errorf("expected one webhook call, saw %d", received.Load())
	}
}

func TestSendBlocksInvalidMessageBeforeNetwork(t *testing.T) {
	var received atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		received.Add(1)
	}))
	defer server.Close()

	relay := NewRelay(server.URL)
	err := relay.Send(context.Background(), Message{Name: "Alex", Email: "not-an-email", Message: "hi"})
	if !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got %v", err)
	}
	if received.Load() != 0 {
		t.Errorf("invalid form must not reach the webhook, saw %d calls", received.Load())
	}
}

func TestSendReportsWebhookFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer server.Close()

	relay := NewRelay(server.URL)
	err := relay.Send(context.Background(), Message{Name: "Alex", Email: "alex@example.com", Message: "hi"})
	if err == nil {
		t.Fatal("expected error for non-200 webhook response")
	}
}
