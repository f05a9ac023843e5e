package domain

// ============================================================
// Aggregated statistics payloads
// ============================================================

// FinanceStats is returned by GET /finance-stats.
type FinanceStats struct {
	TotalExpense      float64        `json:"totalExpense"`
	TotalIncome       float64        `json:"totalIncome"`
	TotalTransactions int            `json:"totalTransactions"`
	CategoryStats     []CategoryStat `json:"categoryStats"`
	MonthlyStats      []MonthlyStat  `json:"monthlyStats"`
}

// CategoryStat holds conditional sums for one category. The list is emitted in
// no particular order.
type CategoryStat struct {
	Category     string  `json:"category"`
	TotalExpense float64 `json:"totalExpense"`
	TotalIncome  float64 `json:"totalIncome"`
}

// MonthlyStat holds conditional sums for one calendar (year, month) bucket.
type MonthlyStat struct {
	Year         int     `json:"year"`
	Month        int     `json:"month"`
	TotalExpense float64 `json:"totalExpense"`
	TotalIncome  float64 `json:"totalIncome"`
}

// CategoryStats is returned by GET /category-stats: two rankings, each sorted
// descending by TotalAmount.
type CategoryStats struct {
	ExpenseStats []RankedCategoryStat `json:"expenseStats"`
	IncomeStats  []RankedCategoryStat `json:"incomeStats"`
}

// RankedCategoryStat is one entry of a per-type category ranking.
type RankedCategoryStat struct {
	Category      string  `json:"category"`
	CategoryCount int     `json:"categoryCount"`
	TotalAmount   float64 `json:"totalAmount"`
}
