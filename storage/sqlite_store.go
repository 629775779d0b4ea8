// Package storage persists templates, committed shipment records, and the
// department/locality reference data in SQLite.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"goship/dedup"
	"goship/location"
	"goship/shipment"
	"goship/templates"
)

type SQLiteStore struct {
	db *sql.DB
}

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}

	store := &SQLiteStore{db: db}
	if err := store.ensureSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	const schema = `
CREATE TABLE IF NOT EXISTS templates (
	id TEXT PRIMARY KEY,
	org_id TEXT NOT NULL,
	name TEXT NOT NULL DEFAULT '',
	signature TEXT NOT NULL,
	signature_loose TEXT NOT NULL,
	fingerprint TEXT NOT NULL,
	headers TEXT NOT NULL,
	field_map TEXT NOT NULL,
	defaults TEXT NOT NULL DEFAULT '{}',
	updated_at TEXT NOT NULL,
	UNIQUE(org_id, signature)
);

CREATE TABLE IF NOT EXISTS records (
	id TEXT PRIMARY KEY,
	org_id TEXT NOT NULL,
	tracking_code TEXT NOT NULL DEFAULT '',
	recipient_name TEXT NOT NULL DEFAULT '',
	recipient_address TEXT NOT NULL DEFAULT '',
	recipient_phone TEXT NOT NULL DEFAULT '',
	recipient_email TEXT NOT NULL DEFAULT '',
	department TEXT NOT NULL DEFAULT '',
	locality TEXT NOT NULL DEFAULT '',
	postal_code TEXT NOT NULL DEFAULT '',
	observations TEXT NOT NULL DEFAULT '',
	notes TEXT NOT NULL DEFAULT '',
	freight_paid INTEGER,
	freight_amount REAL,
	cost REAL,
	package_size TEXT NOT NULL DEFAULT '',
	package_count REAL,
	weight REAL,
	content_description TEXT NOT NULL DEFAULT '',
	agency TEXT NOT NULL DEFAULT '',
	service_type_id TEXT NOT NULL DEFAULT '',
	delivery_type TEXT NOT NULL DEFAULT '',
	source_file TEXT NOT NULL DEFAULT '',
	source_format TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_records_org_tracking ON records(org_id, tracking_code);
CREATE INDEX IF NOT EXISTS idx_records_org_created ON records(org_id, created_at);

CREATE TABLE IF NOT EXISTS departments (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS localities (
	id TEXT PRIMARY KEY,
	department_id TEXT NOT NULL,
	name TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_localities_department ON localities(department_id);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	return nil
}

var _ templates.Store = (*SQLiteStore)(nil)

const templateColumns = `id, org_id, name, signature, signature_loose, fingerprint, headers, field_map, defaults, updated_at`

func (s *SQLiteStore) GetBySignature(ctx context.Context, orgID, signature string) (*templates.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE org_id = ? AND signature = ?`, orgID, signature)
	return scanTemplate(row)
}

func (s *SQLiteStore) GetByLooseSignature(ctx context.Context, orgID, signature string) (*templates.Template, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE org_id = ? AND signature_loose = ?`, orgID, signature)
	return scanTemplate(row)
}

func (s *SQLiteStore) ListByOrg(ctx context.Context, orgID string) ([]templates.Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+templateColumns+` FROM templates WHERE org_id = ? ORDER BY updated_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	result := make([]templates.Template, 0)
	for rows.Next() {
		tpl, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *tpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate templates: %w", err)
	}
	return result, nil
}

// Upsert inserts a template; a conflict on (org_id, signature) resolves to
// the already-stored record.
func (s *SQLiteStore) Upsert(ctx context.Context, tpl templates.Template) (*templates.Template, error) {
	headers, err := json.Marshal(tpl.Headers)
	if err != nil {
		return nil, fmt.Errorf("encode headers: %w", err)
	}
	fieldMap, err := json.Marshal(tpl.FieldMap)
	if err != nil {
		return nil, fmt.Errorf("encode field map: %w", err)
	}
	defaults, err := json.Marshal(tpl.Defaults)
	if err != nil {
		return nil, fmt.Errorf("encode defaults: %w", err)
	}

	id := tpl.ID
	if id == "" {
		id = uuid.NewString()
	}

	_, err = s.db.ExecContext(ctx, `
INSERT INTO templates (id, org_id, name, signature, signature_loose, fingerprint, headers, field_map, defaults, updated_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
ON CONFLICT(org_id, signature) DO NOTHING`,
		id, tpl.OrgID, tpl.Name, tpl.Signature, tpl.SignatureLoose, tpl.Fingerprint,
		string(headers), string(fieldMap), string(defaults), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return nil, fmt.Errorf("insert template: %w", err)
	}

	return s.GetBySignature(ctx, tpl.OrgID, tpl.Signature)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*templates.Template, error) {
	var tpl templates.Template
	var headers, fieldMap, defaults, updatedAt string

	err := row.Scan(&tpl.ID, &tpl.OrgID, &tpl.Name, &tpl.Signature, &tpl.SignatureLoose,
		&tpl.Fingerprint, &headers, &fieldMap, &defaults, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, templates.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan template: %w", err)
	}

	if err := json.Unmarshal([]byte(headers), &tpl.Headers); err != nil {
		return nil, fmt.Errorf("decode headers: %w", err)
	}
	if err := json.Unmarshal([]byte(fieldMap), &tpl.FieldMap); err != nil {
		return nil, fmt.Errorf("decode field map: %w", err)
	}
	if defaults != "" && defaults != "null" {
		if err := json.Unmarshal([]byte(defaults), &tpl.Defaults); err != nil {
			return nil, fmt.Errorf("decode defaults: %w", err)
		}
	}
	if parsed, err := time.Parse(time.RFC3339, updatedAt); err == nil {
		tpl.UpdatedAt = parsed
	}

	return &tpl, nil
}

var _ dedup.RecordStore = (*SQLiteStore)(nil)

const recordColumns = `id, org_id, tracking_code, recipient_name, recipient_address, recipient_phone,
recipient_email, department, locality, postal_code, observations, notes, freight_paid,
freight_amount, cost, package_size, package_count, weight, content_description, agency,
service_type_id, delivery_type, source_file, source_format, created_at`

func (s *SQLiteStore) GetByTrackingCode(ctx context.Context, orgID, trackingCode string) (*shipment.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE org_id = ? AND tracking_code = ? LIMIT 1`,
		orgID, trackingCode)
	return scanRecord(row)
}

// FindRecentMatch narrows the time-windowed lookup by each filter the query
// carries. Always org-scoped.
func (s *SQLiteStore) FindRecentMatch(ctx context.Context, query dedup.MatchQuery) (*shipment.Record, error) {
	clauses := []string{"org_id = ?", "service_type_id = ?", "created_at >= ?"}
	args := []any{query.OrgID, query.ServiceTypeID, query.Since.UTC().Format(time.RFC3339)}

	if query.Phone != "" {
		clauses = append(clauses, "recipient_phone = ?")
		args = append(args, query.Phone)
	}
	if query.Address != "" {
		clauses = append(clauses, "recipient_address = ?")
		args = append(args, query.Address)
	}
	if query.AgencyID != "" {
		clauses = append(clauses, "agency = ?")
		args = append(args, query.AgencyID)
	}
	if query.DeliveryType != "" {
		clauses = append(clauses, "delivery_type = ?")
		args = append(args, string(query.DeliveryType))
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE `+strings.Join(clauses, " AND ")+` LIMIT 1`,
		args...)
	return scanRecord(row)
}

// InsertRecords commits canonical records inside one transaction, assigning
// ids and timestamps where missing. Returns the number inserted.
func (s *SQLiteStore) InsertRecords(ctx context.Context, records []shipment.Record) (int, error) {
	if len(records) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
INSERT INTO records (`+recordColumns+`)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("prepare insert statement: %w", err)
	}
	defer stmt.Close()

	inserted := 0
	for _, record := range records {
		id := record.ID
		if id == "" {
			id = uuid.NewString()
		}
		createdAt := record.CreatedAt
		if createdAt.IsZero() {
			createdAt = time.Now().UTC()
		}

		_, err := stmt.ExecContext(ctx,
			id, record.OrgID, record.TrackingCode, record.RecipientName, record.RecipientAddress,
			record.RecipientPhone, record.RecipientEmail, record.Department, record.Locality,
			record.PostalCode, record.Observations, record.Notes, boolPtrToNull(record.FreightPaid),
			floatPtrToNull(record.FreightAmount), floatPtrToNull(record.Cost), record.PackageSize,
			floatPtrToNull(record.PackageCount), floatPtrToNull(record.Weight), record.ContentDescription,
			record.Agency, record.ServiceTypeID, string(record.DeliveryType),
			record.SourceFile, record.SourceFormat, createdAt.Format(time.RFC3339))
		if err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("insert record: %w", err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit transaction: %w", err)
	}
	return inserted, nil
}

// ListRecords returns all committed records for an organization, newest
// first.
func (s *SQLiteStore) ListRecords(ctx context.Context, orgID string) ([]shipment.Record, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM records WHERE org_id = ? ORDER BY created_at DESC`, orgID)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	result := make([]shipment.Record, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate records: %w", err)
	}
	return result, nil
}

func scanRecord(row rowScanner) (*shipment.Record, error) {
	var record shipment.Record
	var freightPaid sql.NullInt64
	var freightAmount, cost, packageCount, weight sql.NullFloat64
	var deliveryType, createdAt string

	err := row.Scan(&record.ID, &record.OrgID, &record.TrackingCode, &record.RecipientName,
		&record.RecipientAddress, &record.RecipientPhone, &record.RecipientEmail,
		&record.Department, &record.Locality, &record.PostalCode, &record.Observations,
		&record.Notes, &freightPaid, &freightAmount, &cost, &record.PackageSize,
		&packageCount, &weight, &record.ContentDescription, &record.Agency,
		&record.ServiceTypeID, &deliveryType, &record.SourceFile, &record.SourceFormat, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, dedup.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scan record: %w", err)
	}

	if freightPaid.Valid {
		value := freightPaid.Int64 != 0
		record.FreightPaid = &value
	}
	record.FreightAmount = nullToFloatPtr(freightAmount)
	record.Cost = nullToFloatPtr(cost)
	record.PackageCount = nullToFloatPtr(packageCount)
	record.Weight = nullToFloatPtr(weight)
	record.DeliveryType = shipment.DeliveryType(deliveryType)
	if parsed, err := time.Parse(time.RFC3339, createdAt); err == nil {
		record.CreatedAt = parsed
	}

	return &record, nil
}

// SeedReferenceData replaces the stored department/locality reference data.
func (s *SQLiteStore) SeedReferenceData(ctx context.Context, departments []location.Department, localities []location.Locality) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM localities`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear localities: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM departments`); err != nil {
		_ = tx.Rollback()
		return fmt.Errorf("clear departments: %w", err)
	}

	for _, department := range departments {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO departments (id, name) VALUES (?, ?)`, department.ID, department.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert department %s: %w", department.Name, err)
		}
	}
	for _, locality := range localities {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO localities (id, department_id, name) VALUES (?, ?, ?)`,
			locality.ID, locality.DepartmentID, locality.Name); err != nil {
			_ = tx.Rollback()
			return fmt.Errorf("insert locality %s: %w", locality.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// LocationContext loads the reference data the location inferencer runs
// against.
func (s *SQLiteStore) LocationContext(ctx context.Context) (location.Context, error) {
	result := location.Context{Localities: make(map[string][]location.Locality)}

	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM departments ORDER BY name`)
	if err != nil {
		return result, fmt.Errorf("query departments: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var department location.Department
		if err := rows.Scan(&department.ID, &department.Name); err != nil {
			return result, fmt.Errorf("scan department: %w", err)
		}
		result.Departments = append(result.Departments, department)
	}
	if err := rows.Err(); err != nil {
		return result, fmt.Errorf("iterate departments: %w", err)
	}

	localityRows, err := s.db.QueryContext(ctx, `SELECT id, department_id, name FROM localities ORDER BY name`)
	if err != nil {
		return result, fmt.Errorf("query localities: %w", err)
	}
	defer localityRows.Close()
	for localityRows.Next() {
		var locality location.Locality
		if err := localityRows.Scan(&locality.ID, &locality.DepartmentID, &locality.Name); err != nil {
			return result, fmt.Errorf("scan locality: %w", err)
		}
		result.Localities[locality.DepartmentID] = append(result.Localities[locality.DepartmentID], locality)
	}
	if err := localityRows.Err(); err != nil {
		return result, fmt.Errorf("iterate localities: %w", err)
	}

	return result, nil
}

func boolPtrToNull(value *bool) any {
	if value == nil {
		return nil
	}
	if *value {
		return int64(1)
	}
	return int64(0)
}

func floatPtrToNull(value *float64) any {
	if value == nil {
		return nil
	}
	return *value
}

func nullToFloatPtr(value sql.NullFloat64) *float64 {
	if !value.Valid {
		return nil
	}
	result := value.Float64
	return &result
}
