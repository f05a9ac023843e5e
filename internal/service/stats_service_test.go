package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/observability"
	"github.com/Mihad360/finance-equalizer-server/internal/service"

	"go.uber.org/zap"
)

func newStatsService(store *mockStore) *service.StatsService {
	return service.NewStatsService(store, observability.NewMetrics(), zap.NewNop())
}

func TestComputeFinanceStats_EmptyStore(t *testing.T) {
	svc := newStatsService(&mockStore{})

	stats, err := svc.ComputeFinanceStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalExpense != 0 || stats.TotalIncome != 0 || stats.TotalTransactions != 0 {
		t.Errorf("expected zero totals, got %+v", stats)
	}
	if stats.CategoryStats == nil || len(stats.CategoryStats) != 0 {
		t.Errorf("expected empty categoryStats, got %v", stats.CategoryStats)
	}
	if stats.MonthlyStats == nil || len(stats.MonthlyStats) != 0 {
		t.Errorf("expected empty monthlyStats, got %v", stats.MonthlyStats)
	}
}

func TestComputeFinanceStats_Totals(t *testing.T) {
	store := &mockStore{records: []domain.Record{
		{Title: "groceries", Amount: 100, Date: "2024-01-15", Category: "food", Type: domain.TypeExpense},
		{Title: "paycheck", Amount: 50, Date: "2024-01-20", Category: "salary", Type: domain.TypeIncome},
	}}
	svc := newStatsService(store)

	stats, err := svc.ComputeFinanceStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalExpense != 100 {
		t.Errorf("expected totalExpense 100, got %v", stats.TotalExpense)
	}
	if stats.TotalIncome != 50 {
		t.Errorf("expected totalIncome 50, got %v", stats.TotalIncome)
	}
	if stats.TotalTransactions != 2 {
		t.Errorf("expected 2 transactions, got %d", stats.TotalTransactions)
	}

	if len(stats.CategoryStats) != 2 {
		t.Fatalf("expected 2 category entries, got %d", len(stats.CategoryStats))
	}
	if stats.CategoryStats[0].Category != "food" || stats.CategoryStats[0].TotalExpense != 100 {
		t.Errorf("unexpected food entry: %+v", stats.CategoryStats[0])
	}
	if stats.CategoryStats[1].Category != "salary" || stats.CategoryStats[1].TotalIncome != 50 {
		t.Errorf("unexpected salary entry: %+v", stats.CategoryStats[1])
	}

	if len(stats.MonthlyStats) != 1 {
		t.Fatalf("expected 1 monthly entry, got %d", len(stats.MonthlyStats))
	}
	m := stats.MonthlyStats[0]
	if m.Year != 2024 || m.Month != 1 || m.TotalExpense != 100 || m.TotalIncome != 50 {
		t.Errorf("unexpected monthly entry: %+v", m)
	}
}

func TestComputeFinanceStats_UnknownTypeCountsButDoesNotSum(t *testing.T) {
	store := &mockStore{records: []domain.Record{
		{Title: "a", Amount: 10, Date: "2024-03-01", Category: "misc", Type: domain.TypeExpense},
		{Title: "b", Amount: 99, Date: "2024-03-02", Category: "misc", Type: "transfer"},
	}}
	svc := newStatsService(store)

	stats, err := svc.ComputeFinanceStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stats.TotalTransactions != 2 {
		t.Errorf("expected 2 transactions, got %d", stats.TotalTransactions)
	}
	if stats.TotalExpense != 10 {
		t.Errorf("expected totalExpense 10, got %v", stats.TotalExpense)
	}
	if stats.TotalIncome != 0 {
		t.Errorf("expected totalIncome 0, got %v", stats.TotalIncome)
	}
}

func TestComputeFinanceStats_MonthlySortedAscending(t *testing.T) {
	store := &mockStore{records: []domain.Record{
		{Amount: 1, Date: "2024-03-10", Type: domain.TypeExpense},
		{Amount: 2, Date: "2023-12-01", Type: domain.TypeExpense},
		{Amount: 3, Date: "2024-01-05", Type: domain.TypeIncome},
	}}
	svc := newStatsService(store)

	stats, err := svc.ComputeFinanceStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []struct{ year, month int }{
		{2023, 12},
		{2024, 1},
		{2024, 3},
	}
	if len(stats.MonthlyStats) != len(want) {
		t.Fatalf("expected %d monthly entries, got %d", len(want), len(stats.MonthlyStats))
	}
	for i, w := range want {
		got := stats.MonthlyStats[i]
		if got.Year != w.year || got.Month != w.month {
			t.Errorf("entry %d: expected %d-%d, got %d-%d", i, w.year, w.month, got.Year, got.Month)
		}
	}
}

func TestComputeFinanceStats_SkipsUnparseableDates(t *testing.T) {
	store := &mockStore{records: []domain.Record{
		{Amount: 5, Date: "2024-05-01", Type: domain.TypeExpense},
		{Amount: 7, Date: "05/01/2024", Type: domain.TypeExpense},
	}}
	svc := newStatsService(store)

	stats, err := svc.ComputeFinanceStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The malformed date is excluded from the monthly facet only.
	if len(stats.MonthlyStats) != 1 {
		t.Fatalf("expected 1 monthly entry, got %d", len(stats.MonthlyStats))
	}
	if stats.TotalExpense != 12 {
		t.Errorf("expected totalExpense 12, got %v", stats.TotalExpense)
	}
	if stats.TotalTransactions != 2 {
		t.Errorf("expected 2 transactions, got %d", stats.TotalTransactions)
	}
}

func TestComputeFinanceStats_StoreError(t *testing.T) {
	store := &mockStore{listErr: errors.New("connection refused")}
	svc := newStatsService(store)

	_, err := svc.ComputeFinanceStats(context.Background())
	var agg *domain.ErrAggregation
	if !errors.As(err, &agg) {
		t.Fatalf("expected ErrAggregation, got %v", err)
	}
}

func TestComputeCategoryStats_RankedByTotalAmount(t *testing.T) {
	store := &mockStore{records: []domain.Record{
		{Amount: 30, Category: "food", Type: domain.TypeExpense},
		{Amount: 70, Category: "rent", Type: domain.TypeExpense},
		{Amount: 20, Category: "food", Type: domain.TypeExpense},
		{Amount: 500, Category: "salary", Type: domain.TypeIncome},
		{Amount: 100, Category: "freelance", Type: domain.TypeIncome},
	}}
	svc := newStatsService(store)

	stats, err := svc.ComputeCategoryStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(stats.ExpenseStats) != 2 {
		t.Fatalf("expected 2 expense categories, got %d", len(stats.ExpenseStats))
	}
	// Descending by totalAmount.
	if stats.ExpenseStats[0].Category != "rent" || stats.ExpenseStats[0].TotalAmount != 70 {
		t.Errorf("unexpected top expense: %+v", stats.ExpenseStats[0])
	}
	if stats.ExpenseStats[1].Category != "food" || stats.ExpenseStats[1].TotalAmount != 50 || stats.ExpenseStats[1].CategoryCount != 2 {
		t.Errorf("unexpected second expense: %+v", stats.ExpenseStats[1])
	}

	if len(stats.IncomeStats) != 2 {
		t.Fatalf("expected 2 income categories, got %d", len(stats.IncomeStats))
	}
	if stats.IncomeStats[0].Category != "salary" || stats.IncomeStats[0].TotalAmount != 500 {
		t.Errorf("unexpected top income: %+v", stats.IncomeStats[0])
	}
}

func TestComputeCategoryStats_EmptyStore(t *testing.T) {
	svc := newStatsService(&mockStore{})

	stats, err := svc.ComputeCategoryStats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stats.ExpenseStats == nil || len(stats.ExpenseStats) != 0 {
		t.Errorf("expected empty expenseStats, got %v", stats.ExpenseStats)
	}
	if stats.IncomeStats == nil || len(stats.IncomeStats) != 0 {
		t.Errorf("expected empty incomeStats, got %v", stats.IncomeStats)
	}
}
