package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aretw0/portnet/pkg/domain"
)

// Store implements ports.NetworkStore with one row per port and per edge.
type Store struct {
	db *sql.DB
}

// NewStore creates a network store on an open database.
func NewStore(d *DB) *Store {
	return &Store{db: d.db}
}

// Save replaces the dataset in a single transaction.
func (s *Store) Save(ctx context.Context, dataset string, network *domain.Network) error {
	stats, err := json.Marshal(network.Stats)
	if err != nil {
		return fmt.Errorf("failed to marshal stats: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, dataset); err != nil {
		return fmt.Errorf("failed to clear dataset: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `INSERT INTO datasets (name, stats) VALUES (?, ?)`, dataset, stats); err != nil {
		return fmt.Errorf("failed to insert dataset: %w", err)
	}

	portStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO ports (dataset, seq, port_id, port_name, port_flag, port_lat, port_lon,
			visits, vessels_unique, total_duration_hrs, avg_distance_shore_km,
			in_strength, out_strength, total_strength)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare port insert: %w", err)
	}
	defer portStmt.Close()

	for i, p := range network.Ports {
		if _, err := portStmt.ExecContext(ctx, dataset, i, p.PortID, p.PortName, p.PortFlag, p.PortLat, p.PortLon,
			p.Visits, p.VesselsUnique, p.TotalDurationHrs, p.AvgDistanceShoreKm,
			p.InStrength, p.OutStrength, p.TotalStrength); err != nil {
			return fmt.Errorf("failed to insert port %s: %w", p.PortID, err)
		}
	}

	edgeStmt, err := tx.PrepareContext(ctx, `
		INSERT INTO edges (dataset, seq, port_id_from, port_id_to, trips, vessels_unique,
			from_name, from_lat, from_lon, to_name, to_lat, to_lon, median_delta_hours)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare edge insert: %w", err)
	}
	defer edgeStmt.Close()

	for i, e := range network.Edges {
		if _, err := edgeStmt.ExecContext(ctx, dataset, i, e.PortIDFrom, e.PortIDTo, e.Trips, e.VesselsUnique,
			e.FromName, e.FromLat, e.FromLon, e.ToName, e.ToLat, e.ToLon, e.MedianDeltaHours); err != nil {
			return fmt.Errorf("failed to insert edge %s->%s: %w", e.PortIDFrom, e.PortIDTo, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit dataset: %w", err)
	}
	return nil
}

// Load reads the dataset back in the order it was saved.
func (s *Store) Load(ctx context.Context, dataset string) (*domain.Network, error) {
	var stats []byte
	err := s.db.QueryRowContext(ctx, `SELECT stats FROM datasets WHERE name = ?`, dataset).Scan(&stats)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrDatasetNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query dataset: %w", err)
	}

	network := &domain.Network{}
	if err := json.Unmarshal(stats, &network.Stats); err != nil {
		return nil, fmt.Errorf("failed to unmarshal stats: %w", err)
	}

	if network.Ports, err = s.loadPorts(ctx, dataset); err != nil {
		return nil, err
	}
	if network.Edges, err = s.loadEdges(ctx, dataset); err != nil {
		return nil, err
	}
	return network, nil
}

func (s *Store) loadPorts(ctx context.Context, dataset string) ([]domain.PortMetrics, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT port_id, port_name, port_flag, port_lat, port_lon, visits, vessels_unique,
			total_duration_hrs, avg_distance_shore_km, in_strength, out_strength, total_strength
		FROM ports WHERE dataset = ? ORDER BY seq
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query ports: %w", err)
	}
	defer rows.Close()

	var out []domain.PortMetrics
	for rows.Next() {
		var (
			p          domain.PortMetrics
			name, flag sql.NullString
		)
		if err := rows.Scan(&p.PortID, &name, &flag, &p.PortLat, &p.PortLon, &p.Visits, &p.VesselsUnique,
			&p.TotalDurationHrs, &p.AvgDistanceShoreKm, &p.InStrength, &p.OutStrength, &p.TotalStrength); err != nil {
			return nil, fmt.Errorf("failed to scan port: %w", err)
		}
		p.PortName, p.PortFlag = nullToString(name), nullToString(flag)
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ports: %w", err)
	}
	return out, nil
}

func (s *Store) loadEdges(ctx context.Context, dataset string) ([]domain.Edge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT port_id_from, port_id_to, trips, vessels_unique, from_name, from_lat, from_lon,
			to_name, to_lat, to_lon, median_delta_hours
		FROM edges WHERE dataset = ? ORDER BY seq
	`, dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to query edges: %w", err)
	}
	defer rows.Close()

	var out []domain.Edge
	for rows.Next() {
		var (
			e                domain.Edge
			fromName, toName sql.NullString
		)
		if err := rows.Scan(&e.PortIDFrom, &e.PortIDTo, &e.Trips, &e.VesselsUnique, &fromName, &e.FromLat, &e.FromLon,
			&toName, &e.ToLat, &e.ToLon, &e.MedianDeltaHours); err != nil {
			return nil, fmt.Errorf("failed to scan edge: %w", err)
		}
		e.FromName, e.ToName = nullToString(fromName), nullToString(toName)
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating edges: %w", err)
	}
	return out, nil
}

// Delete removes the dataset and, through the foreign keys, its rows.
func (s *Store) Delete(ctx context.Context, dataset string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM datasets WHERE name = ?`, dataset); err != nil {
		return fmt.Errorf("failed to delete dataset: %w", err)
	}
	return nil
}

// List returns the stored dataset names, sorted.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM datasets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list datasets: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan dataset: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func nullToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}
