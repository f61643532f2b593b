package ratesapi

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/TrishadhiWickramasinghe/SubTrack-sub006/internal/apperrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestFetchLatest(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"result": "success",
			"time_last_update_unix": 1717243201,
			"base_code": "USD",
			"conversion_rates": {"USD": 1, "EUR": 0.92, "LKR": 298.5}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second, testLogger())
	snap, err := client.FetchLatest(context.Background(), "USD")
	require.NoError(t, err)

	assert.Equal(t, "/test-key/latest/USD", gotPath)
	assert.Equal(t, "USD", snap.Base)
	assert.Equal(t, 0.92, snap.Rates["EUR"])
	assert.Equal(t, 298.5, snap.Rates["LKR"])
	assert.Equal(t, time.Unix(1717243201, 0).UTC(), snap.Timestamp)
}

func TestFetchLatestErrors(t *testing.T) {
	t.Run("non-200 status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "upstream broke", http.StatusBadGateway)
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "k", 5*time.Second, testLogger())
		_, err := client.FetchLatest(context.Background(), "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRateFetch), "Status failures should map to ErrRateFetch")
	})

	t.Run("provider-level error result", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result": "error", "error-type": "invalid-key"}`))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "k", 5*time.Second, testLogger())
		_, err := client.FetchLatest(context.Background(), "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRateFetch))
		assert.Contains(t, err.Error(), "invalid-key")
	})

	t.Run("malformed body", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"result": "success", "conversion_rates": `))
		}))
		defer srv.Close()

		client := NewClient(srv.URL, "k", 5*time.Second, testLogger())
		_, err := client.FetchLatest(context.Background(), "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRateFetch))
	})

	t.Run("unreachable host", func(t *testing.T) {
		client := NewClient("http://127.0.0.1:1", "k", time.Second, testLogger())
		_, err := client.FetchLatest(context.Background(), "USD")
		require.Error(t, err)
		assert.True(t, errors.Is(err, apperrors.ErrRateFetch), "Network failures should map to ErrRateFetch")
	})
}

func TestFetchHistorical(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{
			"result": "success",
			"base_code": "USD",
			"conversion_rates": {"EUR": 0.91}
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second, testLogger())
	date := time.Date(2024, 3, 7, 15, 30, 0, 0, time.UTC)
	snap, err := client.FetchHistorical(context.Background(), "USD", date)
	require.NoError(t, err)

	assert.Equal(t, "/test-key/history/USD/2024/3/7", gotPath, "History path should use unpadded date parts")
	assert.Equal(t, 0.91, snap.Rates["EUR"])
	assert.Equal(t, time.Date(2024, 3, 7, 0, 0, 0, 0, time.UTC), snap.Timestamp, "Timestamp should be the day at midnight UTC")
}

func TestFetchCurrencies(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/test-key/codes", r.URL.Path)
		w.Write([]byte(`{
			"result": "success",
			"supported_codes": [["USD", "United States Dollar"], ["LKR", "Sri Lankan Rupee"]]
		}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "test-key", 5*time.Second, testLogger())
	codes, err := client.FetchCurrencies(context.Background())
	require.NoError(t, err)

	assert.Len(t, codes, 2)
	assert.Equal(t, "United States Dollar", codes["USD"])
	assert.Equal(t, "Sri Lankan Rupee", codes["LKR"])
}
