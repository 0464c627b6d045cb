package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
)

const schema = `
CREATE TABLE IF NOT EXISTS ledger_entries (
	key        TEXT PRIMARY KEY,
	value      JSONB NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// serializationFailure is the SQLSTATE postgres reports when a SERIALIZABLE
// transaction loses a conflict.
const serializationFailure = "40001"

// PostgresStore keeps every record as a row of ledger_entries. Each Update is
// one SERIALIZABLE transaction; transactions that lose a serialization
// conflict are replayed.
type PostgresStore struct {
	db         *sql.DB
	maxRetries uint64
}

// NewPostgresStore prepares the schema on db.
func NewPostgresStore(ctx context.Context, db *sql.DB, maxRetries uint64) (*PostgresStore, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create ledger_entries: %w", err)
	}
	return &PostgresStore{db: db, maxRetries: maxRetries}, nil
}

func (s *PostgresStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	op := func() error {
		err := s.run(ctx, false, fn)
		if err == nil || isSerializationFailure(err) {
			return err
		}
		return backoff.Permanent(err)
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), s.maxRetries), ctx)

	err := backoff.Retry(op, policy)
	switch {
	case err == nil:
		metrics.StoreTransactions.WithLabelValues("postgres", "committed").Inc()
	case isSerializationFailure(err):
		metrics.StoreTransactions.WithLabelValues("postgres", "failed").Inc()
	default:
		metrics.StoreTransactions.WithLabelValues("postgres", "aborted").Inc()
	}
	return err
}

func (s *PostgresStore) View(ctx context.Context, fn func(tx Txn) error) error {
	return s.run(ctx, true, fn)
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

func (s *PostgresStore) run(ctx context.Context, readOnly bool, fn func(tx Txn) error) error {
	tx, err := s.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelSerializable, ReadOnly: readOnly})
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&pgTxn{ctx: ctx, id: uuid.New(), tx: tx, readOnly: readOnly}); err != nil {
		return err
	}
	return tx.Commit()
}

func isSerializationFailure(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == serializationFailure
}

type pgTxn struct {
	ctx      context.Context
	id       uuid.UUID
	tx       *sql.Tx
	readOnly bool
}

func (t *pgTxn) ID() uuid.UUID { return t.id }

func (t *pgTxn) Get(key Key, v any) error {
	k := DatastoreKey(key).String()
	var raw []byte
	err := t.tx.QueryRowContext(t.ctx, `SELECT value FROM ledger_entries WHERE key=$1`, k).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("get %s: %w", k, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode %s: %w", k, err)
	}
	return nil
}

func (t *pgTxn) Has(key Key) (bool, error) {
	var exists bool
	err := t.tx.QueryRowContext(t.ctx,
		`SELECT EXISTS(SELECT 1 FROM ledger_entries WHERE key=$1)`, DatastoreKey(key).String()).Scan(&exists)
	return exists, err
}

func (t *pgTxn) Put(key Key, v any) error {
	if t.readOnly {
		return ErrReadOnly
	}
	k := DatastoreKey(key).String()
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", k, err)
	}
	_, err = t.tx.ExecContext(t.ctx, `
		INSERT INTO ledger_entries (key, value) VALUES ($1, $2)
		ON CONFLICT (key) DO UPDATE SET value=EXCLUDED.value, updated_at=NOW()`, k, b)
	if err != nil {
		return fmt.Errorf("put %s: %w", k, err)
	}
	return nil
}

func (t *pgTxn) Delete(key Key) error {
	if t.readOnly {
		return ErrReadOnly
	}
	_, err := t.tx.ExecContext(t.ctx, `DELETE FROM ledger_entries WHERE key=$1`, DatastoreKey(key).String())
	return err
}
