package store

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// RecordMeta is the cached view of one on-chain vault record: identity
// and shape only. Field values, plaintext and secrets never enter the
// cache; the chain remains the single source of truth and the cache is
// rebuildable at any time by cmd/sync.
type RecordMeta struct {
	TxID       string   `json:"transaction_id"`
	Timestamp  int64    `json:"timestamp"`
	Confirmed  bool     `json:"confirmed"`
	FieldNames []string `json:"field_names"`
}

type Store struct {
	Db *pgxpool.Pool
}

func NewStore(connString string) (*Store, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("unable to parse database config: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(context.Background(), config)
	if err != nil {
		return nil, fmt.Errorf("unable to create connection pool: %w", err)
	}

	if err := pool.Ping(context.Background()); err != nil {
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	return &Store{Db: pool}, nil
}

func (s *Store) Close() {
	s.Db.Close()
}

// EnsureSchema creates the cache table when it does not exist yet.
func (s *Store) EnsureSchema(ctx context.Context) error {
	_, err := s.Db.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS record_index (
			tx_id       TEXT PRIMARY KEY,
			ts          BIGINT NOT NULL,
			confirmed   BOOLEAN NOT NULL,
			field_names TEXT[] NOT NULL,
			synced_at   TIMESTAMPTZ NOT NULL DEFAULT now()
		)`)
	return err
}

// UpsertRecord inserts or refreshes one record's metadata. A pending
// record that has since confirmed is updated in place.
func (s *Store) UpsertRecord(ctx context.Context, meta RecordMeta) error {
	_, err := s.Db.Exec(ctx, `
		INSERT INTO record_index (tx_id, ts, confirmed, field_names)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (tx_id) DO UPDATE
		SET ts = EXCLUDED.ts, confirmed = EXCLUDED.confirmed,
		    field_names = EXCLUDED.field_names, synced_at = now()`,
		meta.TxID, meta.Timestamp, meta.Confirmed, meta.FieldNames)
	return err
}

// ListRecords returns cached metadata, pending records first and
// newest first within each group, matching the chain view ordering.
func (s *Store) ListRecords(ctx context.Context) ([]RecordMeta, error) {
	rows, err := s.Db.Query(ctx, `
		SELECT tx_id, ts, confirmed, field_names
		FROM record_index
		ORDER BY confirmed ASC, ts DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	metas := []RecordMeta{}
	for rows.Next() {
		var meta RecordMeta
		if err := rows.Scan(&meta.TxID, &meta.Timestamp, &meta.Confirmed, &meta.FieldNames); err != nil {
			log.Printf("Error scanning record index row: %v", err)
			continue
		}
		metas = append(metas, meta)
	}
	return metas, rows.Err()
}

// Prune drops cache rows whose transactions are no longer visible on
// the chain (e.g. expired unconfirmed transactions).
func (s *Store) Prune(ctx context.Context, keepIDs []string) (int64, error) {
	if len(keepIDs) == 0 {
		tag, err := s.Db.Exec(ctx, "DELETE FROM record_index")
		return tag.RowsAffected(), err
	}
	tag, err := s.Db.Exec(ctx, "DELETE FROM record_index WHERE NOT (tx_id = ANY($1))", keepIDs)
	return tag.RowsAffected(), err
}

// CopyRecords bulk-loads metadata rows, used by cmd/sync for the
// initial population of an empty cache.
func (s *Store) CopyRecords(ctx context.Context, metas []RecordMeta) (int64, error) {
	rows := make([][]interface{}, 0, len(metas))
	for _, meta := range metas {
		rows = append(rows, []interface{}{meta.TxID, meta.Timestamp, meta.Confirmed, meta.FieldNames})
	}
	return s.Db.CopyFrom(
		ctx,
		pgx.Identifier{"record_index"},
		[]string{"tx_id", "ts", "confirmed", "field_names"},
		pgx.CopyFromRows(rows),
	)
}
