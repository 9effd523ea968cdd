package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/freightwatch/bltracker/internal/schema"
	"github.com/freightwatch/bltracker/internal/track"
)

// sentinelBL is the placeholder row ResetResults leaves behind. Downstream
// consumers expect the results table to always contain at least one row.
const sentinelBL = "-"

// Store wraps the sqlite database holding shipment results and the carrier
// registry. Upserts are safe under concurrent workers: sqlite serializes
// writers and busy_timeout absorbs the contention.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the sqlite database at path and configures WAL
// mode.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const carriersMigration = `
CREATE TABLE IF NOT EXISTS carriers (
	id            INTEGER PRIMARY KEY AUTOINCREMENT,
	code          TEXT NOT NULL UNIQUE,
	display_name  TEXT NOT NULL,
	extractor_key TEXT NOT NULL UNIQUE,
	url           TEXT NOT NULL,
	active        INTEGER NOT NULL DEFAULT 1,
	created_at    DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS meta (
	key   TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// Migrate creates the tables and adds any schema column not yet present on
// the shipments table. Column additions are never destructive; a number
// field becomes an INTEGER column, everything else TEXT.
func (s *Store) Migrate(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, shipmentsDDL()); err != nil {
		return eris.Wrap(err, "sqlite: create shipments")
	}
	if _, err := s.db.ExecContext(ctx, carriersMigration); err != nil {
		return eris.Wrap(err, "sqlite: create carriers")
	}
	return s.migrateShipmentColumns(ctx)
}

func shipmentsDDL() string {
	var b strings.Builder
	b.WriteString("CREATE TABLE IF NOT EXISTS shipments (\n")
	for i, col := range schema.Columns {
		if i > 0 {
			b.WriteString(",\n")
		}
		fmt.Fprintf(&b, "\t%s %s", col.Field, columnType(col.Kind))
		if col.Field == schema.FieldBL {
			b.WriteString(" PRIMARY KEY")
		}
	}
	b.WriteString("\n)")
	return b.String()
}

func columnType(kind schema.Kind) string {
	if kind == schema.KindNumber {
		return "INTEGER"
	}
	return "TEXT"
}

func (s *Store) migrateShipmentColumns(ctx context.Context) error {
	rows, err := s.db.QueryContext(ctx, "PRAGMA table_info(shipments)")
	if err != nil {
		return eris.Wrap(err, "sqlite: table_info shipments")
	}
	defer rows.Close()

	existing := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			colType string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dflt, &pk); err != nil {
			return eris.Wrap(err, "sqlite: scan table_info")
		}
		existing[name] = true
	}
	if err := rows.Err(); err != nil {
		return eris.Wrap(err, "sqlite: iterate table_info")
	}

	for _, col := range schema.Columns {
		if existing[string(col.Field)] {
			continue
		}
		ddl := fmt.Sprintf("ALTER TABLE shipments ADD COLUMN %s %s", col.Field, columnType(col.Kind))
		if _, err := s.db.ExecContext(ctx, ddl); err != nil {
			return eris.Wrapf(err, "sqlite: add column %s", col.Field)
		}
	}
	return nil
}

// UpsertShipment inserts or replaces the record keyed by its shipment
// identifier. On conflict every non-key column is overwritten
// unconditionally: last-write-wins, no merge of old and new field sets.
func (s *Store) UpsertShipment(ctx context.Context, rec schema.Record) error {
	if rec.ID == "" {
		return eris.New("sqlite: record id is required")
	}

	cols := make([]string, 0, len(schema.Columns))
	placeholders := make([]string, 0, len(schema.Columns))
	updates := make([]string, 0, len(schema.Columns))
	args := make([]any, 0, len(schema.Columns))
	for _, col := range schema.Columns {
		name := string(col.Field)
		cols = append(cols, name)
		placeholders = append(placeholders, "?")
		args = append(args, rec.Arg(col.Field))
		if col.Field != schema.FieldBL {
			updates = append(updates, fmt.Sprintf("%s=excluded.%s", name, name))
		}
	}

	query := fmt.Sprintf(
		"INSERT INTO shipments (%s) VALUES (%s) ON CONFLICT(bl) DO UPDATE SET %s",
		strings.Join(cols, ","),
		strings.Join(placeholders, ","),
		strings.Join(updates, ","),
	)
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return eris.Wrapf(err, "sqlite: upsert shipment %s", rec.ID)
	}
	return nil
}

// ListShipments returns all shipment records ordered by identifier.
func (s *Store) ListShipments(ctx context.Context) ([]schema.Record, error) {
	names := make([]string, len(schema.Columns))
	for i, col := range schema.Columns {
		names[i] = string(col.Field)
	}
	query := fmt.Sprintf("SELECT %s FROM shipments ORDER BY bl", strings.Join(names, ","))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list shipments")
	}
	defer rows.Close()

	var records []schema.Record
	for rows.Next() {
		rec, err := scanShipment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, eris.Wrap(rows.Err(), "sqlite: list shipments iterate")
}

func scanShipment(rows *sql.Rows) (schema.Record, error) {
	texts := make([]sql.NullString, len(schema.Columns))
	numbers := make([]sql.NullInt64, len(schema.Columns))
	dest := make([]any, len(schema.Columns))
	for i, col := range schema.Columns {
		if col.Kind == schema.KindNumber {
			dest[i] = &numbers[i]
		} else {
			dest[i] = &texts[i]
		}
	}
	if err := rows.Scan(dest...); err != nil {
		return schema.Record{}, eris.Wrap(err, "sqlite: scan shipment")
	}

	var rec schema.Record
	for i, col := range schema.Columns {
		switch col.Field {
		case schema.FieldBL:
			rec.ID = texts[i].String
		case schema.FieldStatus:
			rec.Status = schema.Status(texts[i].String)
		default:
			if col.Kind == schema.KindNumber {
				if numbers[i].Valid {
					rec.SetNumber(col.Field, int(numbers[i].Int64))
				}
			} else if texts[i].Valid {
				rec.SetText(col.Field, texts[i].String)
			}
		}
	}
	return rec, nil
}

// ResetResults deletes every shipment row and inserts the sentinel
// placeholder, so consumers always find at least one row.
func (s *Store) ResetResults(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin reset")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM shipments"); err != nil {
		return eris.Wrap(err, "sqlite: delete shipments")
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO shipments (bl, status) VALUES (?, ?)", sentinelBL, "",
	); err != nil {
		return eris.Wrap(err, "sqlite: insert sentinel")
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit reset")
}

// SeedCarriers inserts the embedded default carriers, skipping any extractor
// key already present. It runs once at first start; later reconciliation
// goes through UpsertCarriers.
func (s *Store) SeedCarriers(ctx context.Context, carriers []track.Carrier) error {
	for _, c := range carriers {
		_, err := s.db.ExecContext(ctx, `
			INSERT OR IGNORE INTO carriers (code, display_name, extractor_key, url, active)
			VALUES (?, ?, ?, ?, ?)`,
			c.Code, c.DisplayName, c.ExtractorKey, c.TrackingURL, boolToInt(c.Active),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: seed carrier %s", c.ExtractorKey)
		}
	}
	return nil
}

// UpsertCarriers reconciles the registry against an authoritative list,
// keyed by extractor key. Carriers are never deleted, only deactivated by an
// upsert with active=0.
func (s *Store) UpsertCarriers(ctx context.Context, carriers []track.Carrier) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return eris.Wrap(err, "sqlite: begin carrier upsert")
	}
	defer tx.Rollback()

	for _, c := range carriers {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO carriers (code, display_name, extractor_key, url, active)
			VALUES (?, ?, ?, ?, ?)
			ON CONFLICT(extractor_key) DO UPDATE SET
				display_name = excluded.display_name,
				url          = excluded.url,
				active       = excluded.active`,
			c.Code, c.DisplayName, c.ExtractorKey, c.TrackingURL, boolToInt(c.Active),
		)
		if err != nil {
			return eris.Wrapf(err, "sqlite: upsert carrier %s", c.ExtractorKey)
		}
	}
	return eris.Wrap(tx.Commit(), "sqlite: commit carrier upsert")
}

// ActiveCarrier resolves an active carrier by extractor key. It returns
// (nil, nil) when no active carrier matches.
func (s *Store) ActiveCarrier(ctx context.Context, extractorKey string) (*track.Carrier, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT code, display_name, extractor_key, url, active
		FROM carriers
		WHERE active = 1 AND extractor_key = ?`,
		strings.ToLower(strings.TrimSpace(extractorKey)),
	)
	c, err := scanCarrier(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: active carrier %s", extractorKey)
	}
	return c, nil
}

// ListCarriers returns every carrier definition, active or not.
func (s *Store) ListCarriers(ctx context.Context) ([]track.Carrier, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT code, display_name, extractor_key, url, active
		FROM carriers ORDER BY code`)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list carriers")
	}
	defer rows.Close()

	var carriers []track.Carrier
	for rows.Next() {
		c, err := scanCarrier(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan carrier")
		}
		carriers = append(carriers, *c)
	}
	return carriers, eris.Wrap(rows.Err(), "sqlite: list carriers iterate")
}

type scannable interface {
	Scan(dest ...any) error
}

func scanCarrier(row scannable) (*track.Carrier, error) {
	var c track.Carrier
	var active int
	if err := row.Scan(&c.Code, &c.DisplayName, &c.ExtractorKey, &c.TrackingURL, &active); err != nil {
		return nil, err
	}
	c.Active = active != 0
	return &c, nil
}

// RegistryVersion returns the locally recorded carrier registry version, or
// "0.0.0" when none has been recorded yet.
func (s *Store) RegistryVersion(ctx context.Context) (string, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'registry_version'")
	var v string
	err := row.Scan(&v)
	if err == sql.ErrNoRows {
		return "0.0.0", nil
	}
	if err != nil {
		return "", eris.Wrap(err, "sqlite: registry version")
	}
	return v, nil
}

// SetRegistryVersion records the carrier registry version after a sync.
func (s *Store) SetRegistryVersion(ctx context.Context, version string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('registry_version', ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		version,
	)
	return eris.Wrap(err, "sqlite: set registry version")
}

// Initialized reports whether first-run setup has completed.
func (s *Store) Initialized(ctx context.Context) (bool, error) {
	row := s.db.QueryRowContext(ctx, "SELECT value FROM meta WHERE key = 'initialized'")
	var v string
	err := row.Scan(&v)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, eris.Wrap(err, "sqlite: initialized")
	}
	return v == "1", nil
}

// MarkInitialized records that first-run setup has completed.
func (s *Store) MarkInitialized(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO meta (key, value) VALUES ('initialized', '1')
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`)
	return eris.Wrap(err, "sqlite: mark initialized")
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
