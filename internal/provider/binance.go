package provider

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultBinanceBaseURL is the Binance spot REST endpoint.
const DefaultBinanceBaseURL = "https://api.binance.com"

// BinanceClient fetches crypto prices from the Binance ticker API.
type BinanceClient struct {
	*client
}

var _ CryptoSource = (*BinanceClient)(nil)

// NewBinanceClient creates a new Binance price client.
func NewBinanceClient(opts ...Option) *BinanceClient {
	return &BinanceClient{client: newClient("Binance", DefaultBinanceBaseURL, opts)}
}

type binanceTicker struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
}

// CryptoPrice returns the last price for one trading symbol such as BTCUSDT.
func (c *BinanceClient) CryptoPrice(ctx context.Context, symbol string) (decimal.Decimal, error) {
	params := url.Values{}
	params.Set("symbol", strings.ToUpper(symbol))

	var ticker binanceTicker
	if err := c.get(ctx, "/api/v3/ticker/price", params, &ticker, binanceErrorMessage); err != nil {
		return decimal.Zero, err
	}
	return ticker.Price, nil
}

// CryptoPrices returns the last prices of symbols in one request. Symbols the
// exchange does not quote are absent from the map. Binance rejects a whole
// batch over one unknown symbol, so that answer is retried symbol by symbol.
func (c *BinanceClient) CryptoPrices(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	if len(symbols) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	upper := make([]string, len(symbols))
	for i, s := range symbols {
		upper[i] = strings.ToUpper(s)
	}
	encoded, err := json.Marshal(upper)
	if err != nil {
		return nil, c.apiError(0, "/api/v3/ticker/price", "encoding symbols: %v", err)
	}

	params := url.Values{}
	params.Set("symbols", string(encoded))

	var tickers []binanceTicker
	err = c.get(ctx, "/api/v3/ticker/price", params, &tickers, binanceErrorMessage)
	if isInvalidSymbol(err) {
		return c.eachPrice(ctx, upper)
	}
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(tickers))
	for _, t := range tickers {
		prices[t.Symbol] = t.Price
	}
	return prices, nil
}

// eachPrice asks for symbols one at a time and skips the unknown ones.
func (c *BinanceClient) eachPrice(ctx context.Context, symbols []string) (map[string]decimal.Decimal, error) {
	prices := make(map[string]decimal.Decimal, len(symbols))
	for _, symbol := range symbols {
		price, err := c.CryptoPrice(ctx, symbol)
		if isInvalidSymbol(err) {
			c.log.Warnw("symbol not quoted", "symbol", symbol)
			continue
		}
		if err != nil {
			return nil, err
		}
		prices[symbol] = price
	}
	return prices, nil
}

// isInvalidSymbol reports Binance's 400 answer to a symbol it does not list.
func isInvalidSymbol(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusBadRequest
}

func binanceErrorMessage(body []byte) string {
	var resp struct {
		Code int    `json:"code"`
		Msg  string `json:"msg"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Msg
}
