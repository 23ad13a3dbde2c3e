// Package pricing converts currency and crypto codes into prices relative to
// a base currency, combining the cached fiat rates with live crypto quotes.
package pricing

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"finances/internal/config"
	apperrors "finances/internal/errors"
	"finances/internal/models"
	"finances/internal/provider"
)

// PriceCache is the read side of the cached fiat prices.
type PriceCache interface {
	Find(ctx context.Context, baseCode string, quoteCodes []string) ([]models.CurrencyPrice, error)
}

// Resolver resolves prices. It is safe for concurrent use.
type Resolver struct {
	crypto     provider.CryptoSource
	quoteAsset string
	onMissing  config.MissingPricePolicy
}

// NewResolver creates a Resolver. quoteAsset is the market crypto prices are
// quoted in, e.g. USDT for BTCUSDT.
func NewResolver(crypto provider.CryptoSource, quoteAsset string, onMissing config.MissingPricePolicy) *Resolver {
	if onMissing == "" {
		onMissing = config.MissingPriceDefaultOne
	}
	return &Resolver{
		crypto:     crypto,
		quoteAsset: strings.ToUpper(quoteAsset),
		onMissing:  onMissing,
	}
}

// ResolveFiat returns, for every requested code, how many units of it one
// unit of base buys. The base itself is always 1. Codes absent from the cache
// resolve to 1 or fail with CANT_GET_PRICE, depending on the missing-price policy.
func (r *Resolver) ResolveFiat(ctx context.Context, cache PriceCache, base string, codes []string) (map[string]decimal.Decimal, error) {
	base = strings.ToUpper(base)
	prices := make(map[string]decimal.Decimal, len(codes))

	lookup := make([]string, 0, len(codes))
	for _, code := range uniqueUpper(codes) {
		if code == base {
			prices[code] = decimal.NewFromInt(1)
			continue
		}
		lookup = append(lookup, code)
	}
	if len(lookup) == 0 {
		return prices, nil
	}

	cached, err := cache.Find(ctx, base, lookup)
	if err != nil {
		return nil, err
	}
	for _, p := range cached {
		if p.Price.IsPositive() {
			prices[strings.ToUpper(p.QuoteCode)] = p.Price
		}
	}

	for _, code := range lookup {
		if _, ok := prices[code]; ok {
			continue
		}
		if r.onMissing == config.MissingPriceFail {
			return nil, apperrors.WithMessage(apperrors.ErrCantGetPrice, "No cached price for "+base+"/"+code)
		}
		prices[code] = decimal.NewFromInt(1)
	}
	return prices, nil
}

// ResolveCrypto fetches live prices for the crypto codes in one upstream call
// and returns them keyed by code. Any upstream failure is CANT_GET_PRICE.
func (r *Resolver) ResolveCrypto(ctx context.Context, codes []string) (map[string]decimal.Decimal, error) {
	codes = uniqueUpper(codes)
	prices := make(map[string]decimal.Decimal, len(codes))
	if len(codes) == 0 {
		return prices, nil
	}

	symbols := make([]string, len(codes))
	for i, code := range codes {
		symbols[i] = r.Symbol(code)
	}

	bySymbol, err := r.crypto.CryptoPrices(ctx, symbols)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCantGetPrice, err)
	}
	for _, code := range codes {
		if price, ok := bySymbol[r.Symbol(code)]; ok {
			prices[code] = price
		}
	}
	return prices, nil
}

// CryptoPrice fetches the live price of a single crypto code.
func (r *Resolver) CryptoPrice(ctx context.Context, code string) (decimal.Decimal, error) {
	price, err := r.crypto.CryptoPrice(ctx, r.Symbol(code))
	if err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrCantGetPrice, err)
	}
	return price, nil
}

// Symbol returns the market symbol for a crypto code, e.g. BTC -> BTCUSDT.
func (r *Resolver) Symbol(code string) string {
	return strings.ToUpper(code) + r.quoteAsset
}

// QuoteAsset returns the asset crypto prices are quoted in.
func (r *Resolver) QuoteAsset() string {
	return r.quoteAsset
}

func uniqueUpper(codes []string) []string {
	seen := make(map[string]struct{}, len(codes))
	out := make([]string, 0, len(codes))
	for _, c := range codes {
		c = strings.ToUpper(strings.TrimSpace(c))
		if c == "" {
			continue
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out
}
