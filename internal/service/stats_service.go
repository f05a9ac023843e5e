package service

import (
	"context"
	"sort"
	"time"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/observability"
	"github.com/Mihad360/finance-equalizer-server/internal/port"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

var statsTracer = otel.Tracer("service/stats")

// StatsService computes aggregated statistics over the full record set.
// Every call takes a fresh snapshot from the store; nothing is cached or
// maintained incrementally.
type StatsService struct {
	store   port.FinanceStore
	metrics *observability.Metrics
	logger  *zap.Logger
}

// NewStatsService creates a new stats service.
func NewStatsService(store port.FinanceStore, metrics *observability.Metrics, logger *zap.Logger) *StatsService {
	return &StatsService{store: store, metrics: metrics, logger: logger}
}

// ComputeFinanceStats produces global totals, per-category totals and
// per-month totals in one pass over the record set. The three facets are
// independent; they run concurrently over the shared snapshot and each writes
// only its own slice of the result.
func (s *StatsService) ComputeFinanceStats(ctx context.Context) (*domain.FinanceStats, error) {
	ctx, span := statsTracer.Start(ctx, "StatsService.ComputeFinanceStats")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("finance_stats", time.Since(start)) }()

	records, err := s.store.List(ctx)
	if err != nil {
		s.metrics.IncrStoreError("list")
		return nil, &domain.ErrAggregation{Op: "finance-stats", Err: err}
	}
	span.SetAttributes(attribute.Int("record.count", len(records)))

	stats := &domain.FinanceStats{
		CategoryStats: []domain.CategoryStat{},
		MonthlyStats:  []domain.MonthlyStat{},
	}

	g, _ := errgroup.WithContext(ctx)

	// --- Facet 1: global totals ---
	g.Go(func() error {
		for _, rec := range records {
			switch rec.Type {
			case domain.TypeExpense:
				stats.TotalExpense += rec.Amount
			case domain.TypeIncome:
				stats.TotalIncome += rec.Amount
			}
		}
		stats.TotalTransactions = len(records)
		return nil
	})

	// --- Facet 2: per-category totals (unsorted) ---
	g.Go(func() error {
		totals := make(map[string]*domain.CategoryStat)
		order := make([]string, 0)
		for _, rec := range records {
			entry, ok := totals[rec.Category]
			if !ok {
				entry = &domain.CategoryStat{Category: rec.Category}
				totals[rec.Category] = entry
				order = append(order, rec.Category)
			}
			switch rec.Type {
			case domain.TypeExpense:
				entry.TotalExpense += rec.Amount
			case domain.TypeIncome:
				entry.TotalIncome += rec.Amount
			}
		}
		for _, cat := range order {
			stats.CategoryStats = append(stats.CategoryStats, *totals[cat])
		}
		return nil
	})

	// --- Facet 3: per-month totals, ascending by (year, month) ---
	g.Go(func() error {
		type yearMonth struct {
			year  int
			month int
		}
		totals := make(map[yearMonth]*domain.MonthlyStat)
		for _, rec := range records {
			t, err := time.Parse(domain.DateLayout, rec.Date)
			if err != nil {
				// An unparseable date only drops the record from the
				// monthly buckets; it still counts elsewhere.
				s.logger.Warn("skipping record with unparseable date in monthly stats",
					zap.String("record_id", rec.ID),
					zap.String("date", rec.Date),
				)
				continue
			}
			key := yearMonth{year: t.Year(), month: int(t.Month())}
			entry, ok := totals[key]
			if !ok {
				entry = &domain.MonthlyStat{Year: key.year, Month: key.month}
				totals[key] = entry
			}
			switch rec.Type {
			case domain.TypeExpense:
				entry.TotalExpense += rec.Amount
			case domain.TypeIncome:
				entry.TotalIncome += rec.Amount
			}
		}
		for _, entry := range totals {
			stats.MonthlyStats = append(stats.MonthlyStats, *entry)
		}
		sort.Slice(stats.MonthlyStats, func(i, j int) bool {
			a, b := stats.MonthlyStats[i], stats.MonthlyStats[j]
			if a.Year != b.Year {
				return a.Year < b.Year
			}
			return a.Month < b.Month
		})
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, &domain.ErrAggregation{Op: "finance-stats", Err: err}
	}
	return stats, nil
}

// ComputeCategoryStats produces two independent category rankings, one per
// transaction type, each sorted descending by total amount. Ties may land in
// either relative order.
func (s *StatsService) ComputeCategoryStats(ctx context.Context) (*domain.CategoryStats, error) {
	ctx, span := statsTracer.Start(ctx, "StatsService.ComputeCategoryStats")
	defer span.End()

	start := time.Now()
	defer func() { s.metrics.RecordRequestDuration("category_stats", time.Since(start)) }()

	records, err := s.store.List(ctx)
	if err != nil {
		s.metrics.IncrStoreError("list")
		return nil, &domain.ErrAggregation{Op: "category-stats", Err: err}
	}
	span.SetAttributes(attribute.Int("record.count", len(records)))

	stats := &domain.CategoryStats{}

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		stats.ExpenseStats = rankByType(records, domain.TypeExpense)
		return nil
	})
	g.Go(func() error {
		stats.IncomeStats = rankByType(records, domain.TypeIncome)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, &domain.ErrAggregation{Op: "category-stats", Err: err}
	}

	return stats, nil
}

// rankByType filters records to one transaction type, groups them by category
// with per-group count and sum, and sorts descending by total amount.
func rankByType(records []domain.Record, txType string) []domain.RankedCategoryStat {
	totals := make(map[string]*domain.RankedCategoryStat)
	for _, rec := range records {
		if rec.Type != txType {
			continue
		}
		entry, ok := totals[rec.Category]
		if !ok {
			entry = &domain.RankedCategoryStat{Category: rec.Category}
			totals[rec.Category] = entry
		}
		entry.CategoryCount++
		entry.TotalAmount += rec.Amount
	}

	ranked := make([]domain.RankedCategoryStat, 0, len(totals))
	for _, entry := range totals {
		ranked = append(ranked, *entry)
	}
	sort.Slice(ranked, func(i, j int) bool {
		return ranked[i].TotalAmount > ranked[j].TotalAmount
	})
	return ranked
}
