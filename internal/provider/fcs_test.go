package provider

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFCSServer(t *testing.T, status int, body string) (*httptest.Server, *[]string) {
	t.Helper()
	var symbols []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/forex/latest", r.URL.Path)
		assert.Equal(t, "test-key", r.URL.Query().Get("access_key"))
		symbols = append(symbols, r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, &symbols
}

func TestFCSClient_FiatPrices(t *testing.T) {
	t.Run("returns_price_per_quote", func(t *testing.T) {
		server, symbols := newFCSServer(t, http.StatusOK, `{
			"status": true, "code": 200, "msg": "Successfully",
			"response": [
				{"s": "USD/EUR", "c": "0.92"},
				{"s": "USD/GBP", "c": "0.79"}
			]}`)
		c := NewFCSClient("test-key", WithBaseURL(server.URL))

		prices, err := c.FiatPrices(context.Background(), "usd", []string{"EUR", "gbp"})
		require.NoError(t, err)
		assert.True(t, prices["EUR"].Equal(decimal.RequireFromString("0.92")))
		assert.True(t, prices["GBP"].Equal(decimal.RequireFromString("0.79")))
		assert.Equal(t, []string{"USD/EUR,USD/GBP"}, *symbols)
	})

	t.Run("empty_quotes_skip_request", func(t *testing.T) {
		server, symbols := newFCSServer(t, http.StatusOK, `{}`)
		c := NewFCSClient("test-key", WithBaseURL(server.URL))

		prices, err := c.FiatPrices(context.Background(), "USD", nil)
		require.NoError(t, err)
		assert.Empty(t, prices)
		assert.Empty(t, *symbols)
	})

	t.Run("status_false_is_api_error", func(t *testing.T) {
		server, _ := newFCSServer(t, http.StatusOK, `{"status": false, "code": 101, "msg": "API Key Not Found"}`)
		c := NewFCSClient("test-key", WithBaseURL(server.URL))

		prices, err := c.FiatPrices(context.Background(), "USD", []string{"EUR"})
		require.Error(t, err)
		assert.Nil(t, prices)

		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, 101, apiErr.StatusCode)
		assert.Equal(t, "API Key Not Found", apiErr.Message)
	})

	t.Run("missing_pair_fails_whole_call", func(t *testing.T) {
		server, _ := newFCSServer(t, http.StatusOK, `{"status": true, "response": [{"s": "USD/EUR", "c": "0.92"}]}`)
		c := NewFCSClient("test-key", WithBaseURL(server.URL))

		prices, err := c.FiatPrices(context.Background(), "USD", []string{"EUR", "JPY"})
		require.Error(t, err)
		assert.Nil(t, prices)
	})

	t.Run("non_2xx_is_api_error", func(t *testing.T) {
		server, _ := newFCSServer(t, http.StatusInternalServerError, `{"status": false, "msg": "down"}`)
		c := NewFCSClient("test-key", WithBaseURL(server.URL))

		_, err := c.FiatPrices(context.Background(), "USD", []string{"EUR"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
		assert.Equal(t, "down", apiErr.Message)
	})

	t.Run("malformed_body_is_api_error", func(t *testing.T) {
		server, _ := newFCSServer(t, http.StatusOK, `not json`)
		c := NewFCSClient("test-key", WithBaseURL(server.URL))

		_, err := c.FiatPrices(context.Background(), "USD", []string{"EUR"})
		var apiErr *APIError
		require.True(t, errors.As(err, &apiErr))
	})
}

func TestFCSClient_AllFiatPrices(t *testing.T) {
	server, symbols := newFCSServer(t, http.StatusOK, `{
		"status": true,
		"response": [
			{"s": "EUR/USD", "c": "1.0855"},
			{"s": "broken", "c": "1"},
			{"s": "USD/JPY", "c": 151.2},
			{"s": "USD/XXX", "c": "0"}
		]}`)
	c := NewFCSClient("test-key", WithBaseURL(server.URL))

	quotes, err := c.AllFiatPrices(context.Background())
	require.NoError(t, err)
	require.Len(t, quotes, 2)
	assert.Equal(t, "EUR", quotes[0].Base)
	assert.Equal(t, "USD", quotes[0].Quote)
	assert.True(t, quotes[1].Price.Equal(decimal.RequireFromString("151.2")))
	assert.Equal(t, []string{"all_forex"}, *symbols)
}
