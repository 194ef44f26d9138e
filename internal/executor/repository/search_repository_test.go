package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"golang-idea-radar/internal/executor/config"
	"golang-idea-radar/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func tavilyConfig(baseURL, key string) *config.Config {
	return &config.Config{Tavily: config.Tavily{
		APIKey:              key,
		BaseURL:             baseURL,
		MaxResults:          5,
		MaxRequestPerMinute: 6000,
		CacheTTL:            time.Minute,
		Timeout:             5 * time.Second,
	}}
}

func TestTavilySearch(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		assert.Equal(t, "/search", r.URL.Path)
		assert.Equal(t, "Bearer tvly-test", r.Header.Get("Authorization"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "best software tools for invoices", body["query"])
		assert.EqualValues(t, 5, body["max_results"])

		fmt.Fprint(w, `{"results":[{"title":"InvoiceNinja","url":"https://invoiceninja.com","content":"Open source invoicing"}]}`)
	}))
	defer srv.Close()

	repo := NewTavilySearchRepository(tavilyConfig(srv.URL, "tvly-test"), logger.NewNop())

	got, err := repo.Search(context.Background(), "best software tools for invoices")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "InvoiceNinja", got[0].Title)

	// served from cache
	_, err = repo.Search(context.Background(), "best software tools for invoices")
	require.NoError(t, err)
	assert.Equal(t, int32(1), calls.Load())
}

func TestTavilySearchUnavailable(t *testing.T) {
	repo := NewTavilySearchRepository(tavilyConfig("http://127.0.0.1:1", ""), logger.NewNop())
	_, err := repo.Search(context.Background(), "anything")
	assert.True(t, errors.Is(err, ErrSearchUnavailable))

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	repo = NewTavilySearchRepository(tavilyConfig(srv.URL, "tvly-test"), logger.NewNop())
	_, err = repo.Search(context.Background(), "anything")
	assert.True(t, errors.Is(err, ErrSearchUnavailable))
}
