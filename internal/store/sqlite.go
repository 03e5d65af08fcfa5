package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/mattn/go-sqlite3"

	"order-import-service/internal/importer/model"
)

// SQLite is the dataset collaborator backed by a local sqlite file. The
// schema mirrors the tracker's orders table.
type SQLite struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS orders (
	id                 INTEGER PRIMARY KEY AUTOINCREMENT,
	order_date         TEXT NOT NULL DEFAULT '',
	platform           TEXT NOT NULL DEFAULT '',
	seller             TEXT NOT NULL DEFAULT '',
	destination        TEXT NOT NULL DEFAULT '',
	description        TEXT NOT NULL DEFAULT '',
	link               TEXT NOT NULL DEFAULT '',
	quantity           INTEGER NOT NULL DEFAULT 1,
	estimated_delivery TEXT NOT NULL DEFAULT '',
	is_delivered       INTEGER NOT NULL DEFAULT 0,
	tracking_number    TEXT NOT NULL DEFAULT '',
	carrier            TEXT NOT NULL DEFAULT '',
	last_mile_carrier  TEXT NOT NULL DEFAULT '',
	site_order_id      TEXT NOT NULL DEFAULT '',
	status             TEXT NOT NULL DEFAULT '',
	price              REAL,
	image_url          TEXT NOT NULL DEFAULT '',
	created_at         TEXT NOT NULL DEFAULT (datetime('now')),
	updated_at         TEXT NOT NULL DEFAULT (datetime('now'))
);
CREATE INDEX IF NOT EXISTS idx_orders_tracking ON orders(tracking_number);
CREATE INDEX IF NOT EXISTS idx_orders_site_id  ON orders(site_order_id);
`

func Open(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

func (s *SQLite) Close() error { return s.db.Close() }

// Snapshot reads the full order set once, at analysis start.
func (s *SQLite) Snapshot(ctx context.Context) ([]model.Order, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, is_delivered, order_date, platform, seller, destination,
		       description, link, quantity, estimated_delivery,
		       tracking_number, carrier, last_mile_carrier, site_order_id,
		       status, price, image_url
		  FROM orders ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Order
	for rows.Next() {
		var o model.Order
		var price sql.NullFloat64
		if err := rows.Scan(
			&o.ID, &o.Delivered, &o.OrderDate, &o.Platform, &o.Seller,
			&o.Destination, &o.Description, &o.Link, &o.Quantity,
			&o.EstimatedDelivery, &o.TrackingNumber, &o.Carrier,
			&o.LastMileCarrier, &o.SiteOrderID, &o.Status, &price, &o.ImageURL,
		); err != nil {
			return nil, err
		}
		if price.Valid {
			v := price.Float64
			o.Price = &v
		}
		out = append(out, o)
	}
	return out, rows.Err()
}

// Apply executes one merge plan. Inserts create a fresh order; merges update
// only the plan's changed fields; skips touch nothing. Each call is its own
// failure boundary, no cross-plan transaction.
func (s *SQLite) Apply(ctx context.Context, p model.MergePlan) (int64, error) {
	switch p.Decision {
	case model.DecisionInsert:
		return s.insert(ctx, p.Record)
	case model.DecisionMerge:
		return p.TargetID, s.update(ctx, p)
	case model.DecisionSkip:
		return p.TargetID, nil
	default:
		return 0, fmt.Errorf("unknown decision %q", p.Decision)
	}
}

func (s *SQLite) insert(ctx context.Context, r model.Record) (int64, error) {
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO orders (
			order_date, platform, seller, destination, description, link,
			quantity, estimated_delivery, tracking_number, carrier,
			last_mile_carrier, site_order_id, status, price, image_url
		) VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		r.OrderDate, r.Platform, r.Seller, r.Destination, r.Description,
		r.Link, r.Quantity, r.EstimatedDelivery, r.TrackingNumber, r.Carrier,
		r.LastMileCarrier, r.SiteOrderID, r.Status, priceArg(r.Price), r.ImageURL,
	)
	if err != nil {
		return 0, fmt.Errorf("insert order: %w", err)
	}
	return res.LastInsertId()
}

func (s *SQLite) update(ctx context.Context, p model.MergePlan) error {
	if len(p.Changed) == 0 {
		return nil
	}
	sets := make([]string, 0, len(p.Changed)+1)
	args := make([]any, 0, len(p.Changed)+2)
	for _, field := range p.Changed {
		sets = append(sets, field+" = ?")
		if field == model.FieldPrice {
			args = append(args, priceArg(p.Record.Price))
			continue
		}
		v, ok := p.Record.StringField(field)
		if !ok {
			return fmt.Errorf("unknown field %q in plan", field)
		}
		args = append(args, v)
	}
	sets = append(sets, "updated_at = datetime('now')")
	args = append(args, p.TargetID)

	res, err := s.db.ExecContext(ctx,
		"UPDATE orders SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return fmt.Errorf("merge order %d: %w", p.TargetID, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("merge order %d: no such order", p.TargetID)
	}
	return nil
}

func priceArg(p *float64) any {
	if p == nil {
		return nil
	}
	return *p
}
