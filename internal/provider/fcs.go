package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/shopspring/decimal"
)

// DefaultFCSBaseURL is the FCS API v3 endpoint.
const DefaultFCSBaseURL = "https://fcsapi.com/api-v3"

// FCSClient fetches fiat exchange rates from FCS API.
type FCSClient struct {
	*client
	apiKey string
}

var _ FiatSource = (*FCSClient)(nil)

// NewFCSClient creates a new FCS API client.
func NewFCSClient(apiKey string, opts ...Option) *FCSClient {
	return &FCSClient{
		client: newClient("FCS", DefaultFCSBaseURL, opts),
		apiKey: apiKey,
	}
}

type fcsResponse struct {
	Status   bool   `json:"status"`
	Code     int    `json:"code"`
	Msg      string `json:"msg"`
	Response []struct {
		Symbol string          `json:"s"`
		Close  decimal.Decimal `json:"c"`
	} `json:"response"`
}

// FiatPrices returns how many units of each quote currency one unit of base buys.
// A pair missing from the answer fails the whole call.
func (c *FCSClient) FiatPrices(ctx context.Context, base string, quotes []string) (map[string]decimal.Decimal, error) {
	base = strings.ToUpper(base)
	if len(quotes) == 0 {
		return map[string]decimal.Decimal{}, nil
	}

	symbols := make([]string, 0, len(quotes))
	for _, q := range quotes {
		symbols = append(symbols, base+"/"+strings.ToUpper(q))
	}

	pairs, err := c.latest(ctx, strings.Join(symbols, ","))
	if err != nil {
		return nil, err
	}

	prices := make(map[string]decimal.Decimal, len(quotes))
	for _, p := range pairs {
		if p.Base == base {
			prices[p.Quote] = p.Price
		}
	}
	for _, q := range quotes {
		if _, ok := prices[strings.ToUpper(q)]; !ok {
			return nil, c.apiError(http.StatusOK, "/forex/latest", "no price for %s/%s", base, strings.ToUpper(q))
		}
	}
	return prices, nil
}

// AllFiatPrices returns every forex pair FCS publishes.
func (c *FCSClient) AllFiatPrices(ctx context.Context) ([]Quote, error) {
	return c.latest(ctx, "all_forex")
}

func (c *FCSClient) latest(ctx context.Context, symbol string) ([]Quote, error) {
	params := url.Values{}
	params.Set("symbol", symbol)
	params.Set("access_key", c.apiKey)

	var resp fcsResponse
	if err := c.get(ctx, "/forex/latest", params, &resp, fcsErrorMessage); err != nil {
		return nil, err
	}
	if !resp.Status {
		return nil, c.apiError(resp.Code, "/forex/latest", "%s", resp.Msg)
	}

	quotes := make([]Quote, 0, len(resp.Response))
	for _, r := range resp.Response {
		base, quote, ok := strings.Cut(r.Symbol, "/")
		if !ok || !r.Close.IsPositive() {
			continue
		}
		quotes = append(quotes, Quote{Base: base, Quote: quote, Price: r.Close})
	}
	return quotes, nil
}

func fcsErrorMessage(body []byte) string {
	var resp fcsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return ""
	}
	return resp.Msg
}
