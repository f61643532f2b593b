package notify

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func sampleAlert() domain.RateAlert {
	return domain.RateAlert{
		AlertID:      "alert-1",
		UserID:       "user-1",
		FromCurrency: "USD",
		ToCurrency:   "EUR",
		Condition:    domain.AlertAbove,
		TargetRate:   0.9,
		Active:       true,
	}
}

func TestWebhookNotifierDeliversPayload(t *testing.T) {
	var got webhookPayload
	var contentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		contentType = r.Header.Get("Content-Type")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, 5*time.Second, testLogger())
	err := n.Notify(context.Background(), sampleAlert(), 0.95)
	require.NoError(t, err)

	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, "alert-1", got.AlertID)
	assert.Equal(t, "user-1", got.UserID)
	assert.Equal(t, "USD", got.FromCurrency)
	assert.Equal(t, "EUR", got.ToCurrency)
	assert.Equal(t, "above", got.Condition)
	assert.Equal(t, 0.9, got.TargetRate)
	assert.Equal(t, 0.95, got.CurrentRate)

	firedAt, err := time.Parse(time.RFC3339, got.FiredAt)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().UTC(), firedAt, time.Minute)
}

func TestWebhookNotifierErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	n := NewWebhookNotifier(srv.URL, 5*time.Second, testLogger())
	err := n.Notify(context.Background(), sampleAlert(), 0.95)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "500")
}

func TestWebhookNotifierUnreachableEndpoint(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	n := NewWebhookNotifier(srv.URL, time.Second, testLogger())
	err := n.Notify(context.Background(), sampleAlert(), 0.95)
	assert.Error(t, err)
}
