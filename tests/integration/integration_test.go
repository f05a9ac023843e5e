package integration_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
	"github.com/Mihad360/finance-equalizer-server/internal/handler"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/observability"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/postgrest"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/resilience"
	"github.com/Mihad360/finance-equalizer-server/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// fakePostgrest is a minimal in-memory stand-in for the PostgREST API,
// supporting just the request shapes the store issues.
type fakePostgrest struct {
	mu   sync.Mutex
	rows []map[string]any
}

func (f *fakePostgrest) handler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		if !strings.HasPrefix(r.URL.Path, "/rest/v1/finance_records") {
			http.NotFound(w, r)
			return
		}

		w.Header().Set("Content-Type", "application/json")

		switch r.Method {
		case http.MethodPost:
			var row map[string]any
			json.NewDecoder(r.Body).Decode(&row)
			row["id"] = uuid.NewString()
			f.rows = append(f.rows, row)
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode([]map[string]any{row})

		case http.MethodGet:
			filter := r.URL.Query().Get("id")
			if filter == "" || filter == "eq." {
				json.NewEncoder(w).Encode(f.rows)
				return
			}
			id := strings.TrimPrefix(filter, "eq.")
			for _, row := range f.rows {
				if row["id"] == id {
					json.NewEncoder(w).Encode([]map[string]any{row})
					return
				}
			}
			w.Write([]byte("[]"))

		case http.MethodPatch:
			id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
			var fields map[string]any
			json.NewDecoder(r.Body).Decode(&fields)
			for _, row := range f.rows {
				if row["id"] == id {
					for k, v := range fields {
						row[k] = v
					}
					json.NewEncoder(w).Encode([]map[string]any{row})
					return
				}
			}
			w.Write([]byte("[]"))

		case http.MethodDelete:
			id := strings.TrimPrefix(r.URL.Query().Get("id"), "eq.")
			for i, row := range f.rows {
				if row["id"] == id {
					f.rows = append(f.rows[:i], f.rows[i+1:]...)
					json.NewEncoder(w).Encode([]map[string]any{row})
					return
				}
			}
			w.Write([]byte("[]"))

		default:
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		}
	}
}

// TestIntegration_FullFlow spins up a fake PostgREST backend and runs the
// full record lifecycle plus both statistics endpoints through the router.
func TestIntegration_FullFlow(t *testing.T) {
	backend := httptest.NewServer((&fakePostgrest{}).handler())
	defer backend.Close()

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	cfg := resilience.Config{MaxRetries: 1, InitialBackoff: time.Millisecond}
	cb := resilience.NewCircuitBreaker("integration-store")

	store := postgrest.NewClient(backend.Client(), backend.URL, "integration-key", cb, cfg, logger)
	financeSvc := service.NewFinanceService(store, metrics, logger)
	statsSvc := service.NewStatsService(store, metrics, logger)

	srv := httptest.NewServer(handler.NewRouter(financeSvc, statsSvc, metrics, logger))
	defer srv.Close()

	client := srv.Client()

	post := func(t *testing.T, rec domain.Record) string {
		t.Helper()
		raw, _ := json.Marshal(rec)
		resp, err := client.Post(srv.URL+"/finance", "application/json", bytes.NewReader(raw))
		if err != nil {
			t.Fatalf("post record: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("expected 201, got %d", resp.StatusCode)
		}
		var ack domain.CreateAck
		json.NewDecoder(resp.Body).Decode(&ack)
		if !ack.Acknowledged || ack.InsertedID == "" {
			t.Fatalf("unexpected create ack: %+v", ack)
		}
		return ack.InsertedID
	}

	id1 := post(t, domain.Record{
		Title: "groceries", Amount: 100, Date: "2024-01-15", Category: "food", Type: domain.TypeExpense,
	})
	post(t, domain.Record{
		Title: "paycheck", Amount: 50, Date: "2024-01-20", Category: "salary", Type: domain.TypeIncome,
	})

	// --- List ---
	resp, err := client.Get(srv.URL + "/finance")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	var records []domain.Record
	json.NewDecoder(resp.Body).Decode(&records)
	resp.Body.Close()
	if len(records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(records))
	}

	// --- Get by id ---
	resp, err = client.Get(srv.URL + "/finance/" + id1)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	var rec domain.Record
	json.NewDecoder(resp.Body).Decode(&rec)
	resp.Body.Close()
	if rec.Title != "groceries" {
		t.Errorf("expected title groceries, got %q", rec.Title)
	}

	// --- Stats ---
	resp, err = client.Get(srv.URL + "/finance-stats")
	if err != nil {
		t.Fatalf("finance-stats: %v", err)
	}
	var stats domain.FinanceStats
	json.NewDecoder(resp.Body).Decode(&stats)
	resp.Body.Close()
	if stats.TotalExpense != 100 || stats.TotalIncome != 50 || stats.TotalTransactions != 2 {
		t.Errorf("unexpected stats: %+v", stats)
	}
	if len(stats.MonthlyStats) != 1 || stats.MonthlyStats[0].Year != 2024 || stats.MonthlyStats[0].Month != 1 {
		t.Errorf("unexpected monthly stats: %+v", stats.MonthlyStats)
	}

	resp, err = client.Get(srv.URL + "/category-stats")
	if err != nil {
		t.Fatalf("category-stats: %v", err)
	}
	var catStats domain.CategoryStats
	json.NewDecoder(resp.Body).Decode(&catStats)
	resp.Body.Close()
	if len(catStats.ExpenseStats) != 1 || catStats.ExpenseStats[0].Category != "food" {
		t.Errorf("unexpected expense ranking: %+v", catStats.ExpenseStats)
	}
	if len(catStats.IncomeStats) != 1 || catStats.IncomeStats[0].Category != "salary" {
		t.Errorf("unexpected income ranking: %+v", catStats.IncomeStats)
	}

	// --- Update ---
	patch, _ := json.Marshal(domain.RecordPatch{
		Title: "groceries", Amount: 120, Date: "2024-01-15", Category: "food", Type: domain.TypeExpense,
	})
	req, _ := http.NewRequest(http.MethodPatch, srv.URL+"/finance/"+id1, bytes.NewReader(patch))
	req.Header.Set("Content-Type", "application/json")
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	var uack domain.UpdateAck
	json.NewDecoder(resp.Body).Decode(&uack)
	resp.Body.Close()
	if uack.MatchedCount != 1 {
		t.Errorf("unexpected update ack: %+v", uack)
	}

	// --- Delete ---
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/finance/"+id1, nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	var dack domain.DeleteAck
	json.NewDecoder(resp.Body).Decode(&dack)
	resp.Body.Close()
	if dack.DeletedCount != 1 {
		t.Errorf("unexpected delete ack: %+v", dack)
	}

	// --- Deleted record is gone ---
	resp, err = client.Get(srv.URL + "/finance/" + id1)
	if err != nil {
		t.Fatalf("get after delete: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("expected 404 after delete, got %d", resp.StatusCode)
	}

	// --- Health reflects the backend ---
	resp, err = client.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("healthz: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected healthy probe, got %d", resp.StatusCode)
	}
}
