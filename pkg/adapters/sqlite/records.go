package sqlite

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/aretw0/portnet/pkg/domain"
	"github.com/spf13/cast"
)

// RecordStore implements ports.EventSource and ports.EventSink on the raw_records table.
// The full record is kept as JSON; identifier columns are copied out for querying.
type RecordStore struct {
	db *sql.DB
}

// NewRecordStore creates a record store on an open database.
func NewRecordStore(d *DB) *RecordStore {
	return &RecordStore{db: d.db}
}

// Write replaces all stored records, preserving their order.
func (s *RecordStore) Write(ctx context.Context, records []domain.RawRecord) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM raw_records`); err != nil {
		return fmt.Errorf("failed to clear records: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO raw_records (seq, event_id, vessel_id, port_id, start, data)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare record insert: %w", err)
	}
	defer stmt.Close()

	for i, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("record %d: failed to marshal: %w", i, err)
		}
		if _, err := stmt.ExecContext(ctx, i,
			column(rec, domain.KeyEventID),
			column(rec, domain.KeyVesselID),
			column(rec, domain.KeyPortID),
			column(rec, domain.KeyStart),
			data,
		); err != nil {
			return fmt.Errorf("record %d: failed to insert: %w", i, err)
		}
	}
	return tx.Commit()
}

// Load returns every stored record in insertion order.
func (s *RecordStore) Load(ctx context.Context) ([]domain.RawRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM raw_records ORDER BY seq`)
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	records := []domain.RawRecord{}
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.UseNumber()
		var rec domain.RawRecord
		if err := dec.Decode(&rec); err != nil {
			return nil, fmt.Errorf("failed to unmarshal record: %w", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating records: %w", err)
	}
	return records, nil
}

func column(rec domain.RawRecord, key string) sql.NullString {
	v := rec.Get(key)
	if v == nil {
		return sql.NullString{}
	}
	s, err := cast.ToStringE(v)
	if err != nil || s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
