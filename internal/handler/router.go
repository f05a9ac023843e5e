package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/observability"
	"github.com/Mihad360/finance-equalizer-server/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

var tracer = otel.Tracer("handler")

// NewRouter creates the HTTP router with all routes and middleware.
func NewRouter(financeSvc *service.FinanceService, statsSvc *service.StatsService, metrics *observability.Metrics, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	// --- Middleware ---
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(observability.ZapLoggerMiddleware(logger))
	r.Use(observability.TracingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(middleware.Heartbeat("/ping"))
	r.Use(requestCounter(metrics))

	// --- Operational endpoints ---
	r.Get("/healthz", healthzHandler(financeSvc, logger))
	r.Get("/readyz", readyzHandler())
	r.Handle("/metrics", promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))

	// --- Liveness root ---
	r.Get("/", liveHandler())

	// =============================================
	// Transaction records
	// POST/GET /finance, GET/DELETE/PATCH /finance/{id}
	// =============================================
	r.Route("/finance", func(r chi.Router) {
		r.Post("/", createRecordHandler(financeSvc, logger))
		r.Get("/", listRecordsHandler(financeSvc, logger))
		r.Get("/{id}", getRecordHandler(financeSvc, logger))
		r.Delete("/{id}", deleteRecordHandler(financeSvc, logger))
		r.Patch("/{id}", updateRecordHandler(financeSvc, logger))
	})

	// =============================================
	// Aggregated statistics
	// GET /finance-stats, GET /category-stats
	// =============================================
	r.Get("/finance-stats", financeStatsHandler(statsSvc, logger))
	r.Get("/category-stats", categoryStatsHandler(statsSvc, logger))

	return r
}

// requestCounter counts every response by status class (2xx, 4xx, ...).
func requestCounter(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			metrics.IncrRequest(fmt.Sprintf("%dxx", ww.Status()/100))
		})
	}
}

// liveHandler reports the process as running.
func liveHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("finance equalizer server is running"))
	}
}

// ============================================================
// Transaction records
// ============================================================

func createRecordHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "POST /finance")
		defer span.End()

		var rec domain.Record
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		// The id is store-assigned; one supplied by the client is ignored.
		rec.ID = ""

		ack, err := svc.Create(ctx, &rec)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusCreated, ack)
	}
}

func listRecordsHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /finance")
		defer span.End()

		records, err := svc.ListAll(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}
		span.SetAttributes(attribute.Int("record.count", len(records)))

		writeJSON(w, http.StatusOK, records)
	}
}

func getRecordHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /finance/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")
		rec, err := svc.GetByID(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, rec)
	}
}

func deleteRecordHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "DELETE /finance/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")
		ack, err := svc.DeleteByID(ctx, id)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, ack)
	}
}

func updateRecordHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "PATCH /finance/{id}")
		defer span.End()

		id := chi.URLParam(r, "id")

		var patch domain.RecordPatch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		ack, err := svc.UpdateByID(ctx, id, &patch)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, ack)
	}
}

// ============================================================
// Aggregated statistics
// ============================================================

func financeStatsHandler(svc *service.StatsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /finance-stats")
		defer span.End()

		stats, err := svc.ComputeFinanceStats(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

func categoryStatsHandler(svc *service.StatsService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, span := tracer.Start(r.Context(), "GET /category-stats")
		defer span.End()

		stats, err := svc.ComputeCategoryStats(ctx)
		if err != nil {
			handleServiceError(w, err, logger)
			return
		}

		writeJSON(w, http.StatusOK, stats)
	}
}

// ============================================================
// Probes
// ============================================================

func healthzHandler(svc *service.FinanceService, logger *zap.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		status := "healthy"
		storeStatus := "healthy"
		code := http.StatusOK

		start := time.Now()
		if err := svc.Ping(ctx); err != nil {
			logger.Warn("health probe: store unreachable", zap.Error(err))
			status = "degraded"
			storeStatus = "unhealthy"
			code = http.StatusServiceUnavailable
		}

		writeJSON(w, code, map[string]any{
			"status": status,
			"store": map[string]any{
				"status":     storeStatus,
				"latency_ms": time.Since(start).Milliseconds(),
			},
		})
	}
}

func readyzHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}
