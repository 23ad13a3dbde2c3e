package services

import (
	"context"
	"strings"
	"time"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	apperrors "finances/internal/errors"
	"finances/internal/logger"
	"finances/internal/models"
	"finances/internal/provider"
	"finances/internal/repository"
)

// inversePrecision is the number of decimal places kept for derived inverse prices.
const inversePrecision = 8

// RefreshResult contains the outcome of a price cache refresh.
type RefreshResult struct {
	PairsFetched  int           `json:"pairs_fetched"`
	PricesStored  int           `json:"prices_stored"`
	Skipped       int           `json:"skipped"`
	UncoveredBase []string      `json:"uncovered_bases,omitempty"`
	Duration      time.Duration `json:"duration"`
}

// priceSyncService refreshes the cached fiat prices that totals convert with.
type priceSyncService struct {
	store  *repository.Store
	source provider.FiatSource
	log    *zap.SugaredLogger
	now    func() time.Time
}

// NewPriceSyncService creates a new PriceSyncServicer.
func NewPriceSyncService(store *repository.Store, source provider.FiatSource) PriceSyncServicer {
	return &priceSyncService{
		store:  store,
		source: source,
		log:    logger.Named("pricesync"),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Refresh fetches every published fiat pair in one upstream call and stores
// the pairs between known ISO 4217 system currencies, together with their
// inverses when the source does not publish those itself.
func (s *priceSyncService) Refresh(ctx context.Context) (*RefreshResult, error) {
	start := time.Now()
	result := &RefreshResult{}

	systemCodes, err := s.store.Currencies.SystemCodes(ctx)
	if err != nil {
		return nil, err
	}
	known := make(map[string]struct{}, len(systemCodes))
	for _, code := range systemCodes {
		code = strings.ToUpper(code)
		if money.GetCurrency(code) != nil {
			known[code] = struct{}{}
		}
	}

	quotes, err := s.source.AllFiatPrices(ctx)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCantGetPrice, err)
	}
	result.PairsFetched = len(quotes)

	now := s.now()
	prices := make(map[[2]string]models.CurrencyPrice, len(quotes)*2)
	direct := make(map[[2]string]bool, len(quotes))
	for _, q := range quotes {
		base, quote := strings.ToUpper(q.Base), strings.ToUpper(q.Quote)
		_, baseKnown := known[base]
		_, quoteKnown := known[quote]
		if !baseKnown || !quoteKnown || base == quote || !q.Price.IsPositive() {
			result.Skipped++
			continue
		}

		key := [2]string{base, quote}
		prices[key] = models.CurrencyPrice{BaseCode: base, QuoteCode: quote, Price: q.Price, UpdatedAt: now}
		direct[key] = true

		inverse := [2]string{quote, base}
		if !direct[inverse] {
			prices[inverse] = models.CurrencyPrice{
				BaseCode:  quote,
				QuoteCode: base,
				Price:     decimal.NewFromInt(1).DivRound(q.Price, inversePrecision),
				UpdatedAt: now,
			}
		}
	}

	rows := make([]models.CurrencyPrice, 0, len(prices))
	covered := make(map[string]bool)
	for _, p := range prices {
		rows = append(rows, p)
		covered[p.BaseCode] = true
	}
	if err := s.store.Prices.Upsert(ctx, rows); err != nil {
		return nil, err
	}
	result.PricesStored = len(rows)

	bases, err := s.store.Currencies.BaseCodes(ctx)
	if err != nil {
		return nil, err
	}
	for _, base := range bases {
		if !covered[strings.ToUpper(base)] {
			result.UncoveredBase = append(result.UncoveredBase, base)
		}
	}

	result.Duration = time.Since(start)
	return result, nil
}

// Run refreshes immediately and then on every tick until ctx is done.
func (s *priceSyncService) Run(ctx context.Context, interval time.Duration) {
	s.refreshAndLog(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			s.log.Info("price refresher stopped")
			return
		case <-ticker.C:
			s.refreshAndLog(ctx)
		}
	}
}

func (s *priceSyncService) refreshAndLog(ctx context.Context) {
	result, err := s.Refresh(ctx)
	if err != nil {
		s.log.Errorw("price refresh failed", "error", err)
		return
	}
	s.log.Infow("price refresh completed",
		"pairs_fetched", result.PairsFetched,
		"prices_stored", result.PricesStored,
		"skipped", result.Skipped,
		"duration", result.Duration.String(),
	)
	for _, base := range result.UncoveredBase {
		s.log.Warnw("no prices for base currency in use", "base", base)
	}
}
