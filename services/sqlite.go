package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"climate-hub/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
	_ "modernc.org/sqlite"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS reports (
	id          TEXT PRIMARY KEY,
	title       TEXT NOT NULL,
	description TEXT NOT NULL,
	category    TEXT NOT NULL,
	severity    TEXT NOT NULL,
	latitude    REAL NOT NULL,
	longitude   REAL NOT NULL,
	photos      TEXT NOT NULL,
	status      TEXT NOT NULL,
	timestamp   INTEGER NOT NULL,
	created_at  INTEGER NOT NULL,
	updated_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_reports_created ON reports(created_at DESC);

CREATE TABLE IF NOT EXISTS faqs (
	id         TEXT PRIMARY KEY,
	question   TEXT NOT NULL,
	sender     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	updated_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS orders (
	id         TEXT PRIMARY KEY,
	email      TEXT NOT NULL,
	items      TEXT NOT NULL,
	total      REAL NOT NULL,
	currency   TEXT NOT NULL,
	charge_id  TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	paid_at    INTEGER
);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status, created_at);
`

// OpenSQLite opens (creating if needed) the database file at path and applies the schema.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create sqlite dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// a single writer avoids SQLITE_BUSY between handlers
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply sqlite schema: %w", err)
	}
	return db, nil
}

func unixNano(t time.Time) int64 {
	return t.UnixNano()
}

func fromUnixNano(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// SQLiteReportStore keeps reports in a SQLite table.
type SQLiteReportStore struct {
	db *sql.DB
}

func NewSQLiteReportStore(db *sql.DB) *SQLiteReportStore {
	return &SQLiteReportStore{db: db}
}

const reportColumns = `id, title, description, category, severity, latitude, longitude, photos, status, timestamp, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReport(row rowScanner) (models.Report, error) {
	var (
		r                    models.Report
		id, photos           string
		ts, created, updated int64
	)
	err := row.Scan(&id, &r.Title, &r.Description, &r.Category, &r.Severity,
		&r.Latitude, &r.Longitude, &photos, &r.Status, &ts, &created, &updated)
	if err != nil {
		return models.Report{}, err
	}

	if r.ID, err = primitive.ObjectIDFromHex(id); err != nil {
		return models.Report{}, fmt.Errorf("bad report id %q: %w", id, err)
	}
	if err := json.Unmarshal([]byte(photos), &r.Photos); err != nil {
		return models.Report{}, fmt.Errorf("decode photos of %s: %w", id, err)
	}
	r.Timestamp = fromUnixNano(ts)
	r.CreatedAt = fromUnixNano(created)
	r.UpdatedAt = fromUnixNano(updated)
	return r, nil
}

func (s *SQLiteReportStore) Create(ctx context.Context, r *models.Report) error {
	prepareReport(r)
	photos, err := json.Marshal(r.Photos)
	if err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO reports (`+reportColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID.Hex(), r.Title, r.Description, r.Category, r.Severity, r.Latitude, r.Longitude,
		string(photos), r.Status, unixNano(r.Timestamp), unixNano(r.CreatedAt), unixNano(r.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert report: %w", err)
	}
	return nil
}

func (s *SQLiteReportStore) List(ctx context.Context, filter models.ReportFilter) ([]models.Report, error) {
	var (
		where []string
		args  []any
	)
	if filter.Category != "" {
		where = append(where, "category = ?")
		args = append(args, filter.Category)
	}
	if filter.Severity != "" {
		where = append(where, "severity = ?")
		args = append(args, filter.Severity)
	}
	if filter.Status != "" {
		where = append(where, "status = ?")
		args = append(args, filter.Status)
	}

	query := `SELECT ` + reportColumns + ` FROM reports`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY created_at DESC, rowid DESC`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query reports: %w", err)
	}
	defer rows.Close()

	reports := []models.Report{}
	for rows.Next() {
		r, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, r)
	}
	return reports, rows.Err()
}

func (s *SQLiteReportStore) Get(ctx context.Context, id primitive.ObjectID) (models.Report, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+reportColumns+` FROM reports WHERE id = ?`, id.Hex())
	r, err := scanReport(row)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Report{}, ErrNotFound
	}
	if err != nil {
		return models.Report{}, fmt.Errorf("get report: %w", err)
	}
	return r, nil
}

func (s *SQLiteReportStore) UpdateStatus(ctx context.Context, id primitive.ObjectID, status models.ReportStatus) (models.Report, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE reports SET status = ?, updated_at = ? WHERE id = ?`,
		status, unixNano(now()), id.Hex())
	if err != nil {
		return models.Report{}, fmt.Errorf("update report status: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Report{}, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *SQLiteReportStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM reports WHERE id = ?`, id.Hex())
	if err != nil {
		return fmt.Errorf("delete report: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteReportStore) Stats(ctx context.Context) (models.ReportStats, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT category, severity, status, COUNT(*) FROM reports GROUP BY category, severity, status`)
	if err != nil {
		return models.ReportStats{}, fmt.Errorf("query report stats: %w", err)
	}
	defer rows.Close()

	stats := models.NewReportStats()
	for rows.Next() {
		var (
			category models.ReportCategory
			severity models.ReportSeverity
			status   models.ReportStatus
			count    int64
		)
		if err := rows.Scan(&category, &severity, &status, &count); err != nil {
			return models.ReportStats{}, err
		}
		stats.Total += count
		stats.ByCategory[category] += count
		stats.BySeverity[severity] += count
		stats.ByStatus[status] += count
	}
	return stats, rows.Err()
}

// SQLiteFaqStore keeps FAQ messages in a SQLite table.
type SQLiteFaqStore struct {
	db *sql.DB
}

func NewSQLiteFaqStore(db *sql.DB) *SQLiteFaqStore {
	return &SQLiteFaqStore{db: db}
}

func (s *SQLiteFaqStore) Create(ctx context.Context, f *models.Faq) error {
	prepareFaq(f)
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO faqs (id, question, sender, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		f.ID.Hex(), f.Question, f.Sender, unixNano(f.CreatedAt), unixNano(f.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert faq: %w", err)
	}
	return nil
}

func (s *SQLiteFaqStore) List(ctx context.Context) ([]models.Faq, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, question, sender, created_at, updated_at FROM faqs ORDER BY created_at DESC, rowid DESC`)
	if err != nil {
		return nil, fmt.Errorf("query faqs: %w", err)
	}
	defer rows.Close()

	faqs := []models.Faq{}
	for rows.Next() {
		var (
			f                models.Faq
			id               string
			created, updated int64
		)
		if err := rows.Scan(&id, &f.Question, &f.Sender, &created, &updated); err != nil {
			return nil, err
		}
		if f.ID, err = primitive.ObjectIDFromHex(id); err != nil {
			return nil, fmt.Errorf("bad faq id %q: %w", id, err)
		}
		f.CreatedAt = fromUnixNano(created)
		f.UpdatedAt = fromUnixNano(updated)
		faqs = append(faqs, f)
	}
	return faqs, rows.Err()
}

// SQLiteOrderStore keeps shop orders in a SQLite table.
type SQLiteOrderStore struct {
	db *sql.DB
}

func NewSQLiteOrderStore(db *sql.DB) *SQLiteOrderStore {
	return &SQLiteOrderStore{db: db}
}

func (s *SQLiteOrderStore) Create(ctx context.Context, o *models.Order) error {
	prepareOrder(o)
	items, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	var paidAt sql.NullInt64
	if o.PaidAt != nil {
		paidAt = sql.NullInt64{Int64: unixNano(*o.PaidAt), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO orders (id, email, items, total, currency, charge_id, status, created_at, paid_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID.Hex(), o.Email, string(items), o.Total, o.Currency, o.ChargeID, o.Status,
		unixNano(o.CreatedAt), paidAt)
	if err != nil {
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

func (s *SQLiteOrderStore) Get(ctx context.Context, id primitive.ObjectID) (models.Order, error) {
	var (
		o       models.Order
		items   string
		created int64
		paidAt  sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT email, items, total, currency, charge_id, status, created_at, paid_at FROM orders WHERE id = ?`,
		id.Hex()).Scan(&o.Email, &items, &o.Total, &o.Currency, &o.ChargeID, &o.Status, &created, &paidAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Order{}, ErrNotFound
	}
	if err != nil {
		return models.Order{}, fmt.Errorf("get order: %w", err)
	}

	if err := json.Unmarshal([]byte(items), &o.Items); err != nil {
		return models.Order{}, fmt.Errorf("decode items of order %s: %w", id.Hex(), err)
	}
	o.ID = id
	o.CreatedAt = fromUnixNano(created)
	if paidAt.Valid {
		t := fromUnixNano(paidAt.Int64)
		o.PaidAt = &t
	}
	return o, nil
}

func (s *SQLiteOrderStore) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET status = ? WHERE status = ? AND created_at < ?`,
		models.OrderExpired, models.OrderPending, unixNano(cutoff))
	if err != nil {
		return 0, fmt.Errorf("expire orders: %w", err)
	}
	return res.RowsAffected()
}
