package postgrest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Mihad360/finance-equalizer-server/internal/domain"
	"github.com/Mihad360/finance-equalizer-server/internal/infra/resilience"

	"go.opentelemetry.io/otel/attribute"
)

const recordsTable = "finance_records"

// recordRow maps the finance_records table columns.
type recordRow struct {
	ID          string  `json:"id,omitempty"`
	Title       string  `json:"title"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
}

func toDomain(r recordRow) domain.Record {
	return domain.Record{
		ID:          r.ID,
		Title:       r.Title,
		Amount:      r.Amount,
		Description: r.Description,
		Date:        r.Date,
		Category:    r.Category,
		Type:        r.Type,
	}
}

// execute runs fn behind the circuit breaker with retry. Transport and
// non-2xx failures come back wrapped as ErrStoreUnavailable by the callers.
func (c *Client) execute(ctx context.Context, fn func() error) error {
	_, err := c.cb.Execute(func() (any, error) {
		return nil, resilience.RetryWithBackoff(ctx, c.cfg, fn)
	})
	return err
}

// Insert stores a new record; PostgREST generates the uuid id.
func (c *Client) Insert(ctx context.Context, rec *domain.Record) (string, error) {
	ctx, span := tracer.Start(ctx, "Postgrest.Insert")
	defer span.End()

	row := recordRow{
		Title:       rec.Title,
		Amount:      rec.Amount,
		Description: rec.Description,
		Date:        rec.Date,
		Category:    rec.Category,
		Type:        rec.Type,
	}

	var inserted []recordRow
	err := c.execute(ctx, func() error {
		body, err := c.do(ctx, http.MethodPost, recordsTable, row, "return=representation")
		if err != nil {
			return err
		}
		if err := json.Unmarshal(body, &inserted); err != nil {
			return fmt.Errorf("decode inserted record: %w", err)
		}
		return nil
	})
	if err != nil {
		return "", &domain.ErrStoreUnavailable{Op: "insert", Err: err}
	}
	if len(inserted) == 0 {
		return "", &domain.ErrStoreUnavailable{Op: "insert", Err: fmt.Errorf("no representation returned")}
	}

	span.SetAttributes(attribute.String("record.id", inserted[0].ID))
	return inserted[0].ID, nil
}

// List returns every record, oldest insert first.
func (c *Client) List(ctx context.Context) ([]domain.Record, error) {
	ctx, span := tracer.Start(ctx, "Postgrest.List")
	defer span.End()

	var rows []recordRow
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("%s?select=*&order=created_at.asc", recordsTable)
		body, err := c.do(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}
		rows = rows[:0]
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode records: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrStoreUnavailable{Op: "list", Err: err}
	}

	records := make([]domain.Record, 0, len(rows))
	for _, r := range rows {
		records = append(records, toDomain(r))
	}
	return records, nil
}

// Get returns the record with the given id, or ErrNotFound.
func (c *Client) Get(ctx context.Context, id string) (*domain.Record, error) {
	ctx, span := tracer.Start(ctx, "Postgrest.Get")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	var rows []recordRow
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("%s?id=eq.%s&limit=1", recordsTable, id)
		body, err := c.do(ctx, http.MethodGet, path, nil, "")
		if err != nil {
			return err
		}
		rows = rows[:0]
		if err := json.Unmarshal(body, &rows); err != nil {
			return fmt.Errorf("decode record: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, &domain.ErrStoreUnavailable{Op: "get", Err: err}
	}
	if len(rows) == 0 {
		return nil, &domain.ErrNotFound{Resource: "record", ID: id}
	}

	rec := toDomain(rows[0])
	return &rec, nil
}

// Delete removes the record with the given id and reports the affected count.
func (c *Client) Delete(ctx context.Context, id string) (int64, error) {
	ctx, span := tracer.Start(ctx, "Postgrest.Delete")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	var deleted []recordRow
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("%s?id=eq.%s", recordsTable, id)
		body, err := c.do(ctx, http.MethodDelete, path, nil, "return=representation")
		if err != nil {
			return err
		}
		deleted = deleted[:0]
		if body == nil {
			return nil
		}
		if err := json.Unmarshal(body, &deleted); err != nil {
			return fmt.Errorf("decode deleted records: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, &domain.ErrStoreUnavailable{Op: "delete", Err: err}
	}

	return int64(len(deleted)), nil
}

// Update writes the given fields onto the record with the given id.
// PostgREST reports the rows it matched; a matched row counts as modified.
func (c *Client) Update(ctx context.Context, id string, fields map[string]any) (int64, int64, error) {
	ctx, span := tracer.Start(ctx, "Postgrest.Update")
	defer span.End()
	span.SetAttributes(attribute.String("record.id", id))

	var updated []recordRow
	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("%s?id=eq.%s", recordsTable, id)
		body, err := c.do(ctx, http.MethodPatch, path, fields, "return=representation")
		if err != nil {
			return err
		}
		updated = updated[:0]
		if body == nil {
			return nil
		}
		if err := json.Unmarshal(body, &updated); err != nil {
			return fmt.Errorf("decode updated records: %w", err)
		}
		return nil
	})
	if err != nil {
		return 0, 0, &domain.ErrStoreUnavailable{Op: "update", Err: err}
	}

	matched := int64(len(updated))
	return matched, matched, nil
}

// Ping checks that the records table is reachable.
func (c *Client) Ping(ctx context.Context) error {
	ctx, span := tracer.Start(ctx, "Postgrest.Ping")
	defer span.End()

	err := c.execute(ctx, func() error {
		path := fmt.Sprintf("%s?select=id&limit=1", recordsTable)
		_, err := c.do(ctx, http.MethodGet, path, nil, "")
		return err
	})
	if err != nil {
		return &domain.ErrStoreUnavailable{Op: "ping", Err: err}
	}
	return nil
}
