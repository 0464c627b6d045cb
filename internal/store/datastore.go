package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/ipfs/go-datastore"
	"github.com/ipfs/go-datastore/namespace"
	dssync "github.com/ipfs/go-datastore/sync"
	levelds "github.com/ipfs/go-ds-leveldb"

	"github.com/georgemunganga/bazaar-ledger/internal/metrics"
)

// DatastoreStore runs transactions over a go-datastore backend. Writers are
// serialized; a transaction buffers its writes and commits them in a single
// batch once the transition succeeds.
type DatastoreStore struct {
	mu      sync.RWMutex
	ds      datastore.Batching
	closer  func() error
	backend string
}

// NewMemory returns a store kept entirely in memory.
func NewMemory() *DatastoreStore {
	ds := dssync.MutexWrap(datastore.NewMapDatastore())
	return newDatastoreStore("memory", ds, ds.Close)
}

// OpenLevelDB opens (or creates) a LevelDB-backed store at path.
func OpenLevelDB(path string) (*DatastoreStore, error) {
	ds, err := levelds.NewDatastore(path, nil)
	if err != nil {
		return nil, fmt.Errorf("open leveldb datastore %s: %w", path, err)
	}
	return newDatastoreStore("leveldb", ds, ds.Close), nil
}

func newDatastoreStore(backend string, ds datastore.Batching, closer func() error) *DatastoreStore {
	return &DatastoreStore{
		ds:      namespace.Wrap(ds, datastore.NewKey("/market")),
		closer:  closer,
		backend: backend,
	}
}

func (s *DatastoreStore) Update(ctx context.Context, fn func(tx Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	tx := &dsTxn{ctx: ctx, id: uuid.New(), ds: s.ds, writes: map[string]pending{}}
	if err := fn(tx); err != nil {
		metrics.StoreTransactions.WithLabelValues(s.backend, "aborted").Inc()
		return err
	}
	if err := tx.commit(); err != nil {
		metrics.StoreTransactions.WithLabelValues(s.backend, "failed").Inc()
		return err
	}
	metrics.StoreTransactions.WithLabelValues(s.backend, "committed").Inc()
	return nil
}

func (s *DatastoreStore) View(ctx context.Context, fn func(tx Txn) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()

	return fn(&dsTxn{ctx: ctx, id: uuid.New(), ds: s.ds, readOnly: true})
}

func (s *DatastoreStore) Close() error {
	return s.closer()
}

type pending struct {
	value   []byte
	deleted bool
}

type dsTxn struct {
	ctx      context.Context
	id       uuid.UUID
	ds       datastore.Batching
	writes   map[string]pending
	order    []datastore.Key
	readOnly bool
}

func (t *dsTxn) ID() uuid.UUID { return t.id }

func (t *dsTxn) Get(key Key, v any) error {
	b, err := t.get(DatastoreKey(key))
	if err != nil {
		return err
	}
	if err := json.Unmarshal(b, v); err != nil {
		return fmt.Errorf("decode %s: %w", DatastoreKey(key), err)
	}
	return nil
}

func (t *dsTxn) Has(key Key) (bool, error) {
	_, err := t.get(DatastoreKey(key))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

func (t *dsTxn) get(dk datastore.Key) ([]byte, error) {
	if w, ok := t.writes[dk.String()]; ok {
		if w.deleted {
			return nil, ErrNotFound
		}
		return w.value, nil
	}
	b, err := t.ds.Get(t.ctx, dk)
	if errors.Is(err, datastore.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", dk, err)
	}
	return b, nil
}

func (t *dsTxn) Put(key Key, v any) error {
	if t.readOnly {
		return ErrReadOnly
	}
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", DatastoreKey(key), err)
	}
	t.stage(DatastoreKey(key), pending{value: b})
	return nil
}

func (t *dsTxn) Delete(key Key) error {
	if t.readOnly {
		return ErrReadOnly
	}
	t.stage(DatastoreKey(key), pending{deleted: true})
	return nil
}

func (t *dsTxn) stage(dk datastore.Key, w pending) {
	if _, seen := t.writes[dk.String()]; !seen {
		t.order = append(t.order, dk)
	}
	t.writes[dk.String()] = w
}

func (t *dsTxn) commit() error {
	if len(t.order) == 0 {
		return nil
	}
	batch, err := t.ds.Batch(t.ctx)
	if err != nil {
		return fmt.Errorf("open batch: %w", err)
	}
	for _, dk := range t.order {
		w := t.writes[dk.String()]
		if w.deleted {
			err = batch.Delete(t.ctx, dk)
		} else {
			err = batch.Put(t.ctx, dk, w.value)
		}
		if err != nil {
			return fmt.Errorf("stage %s: %w", dk, err)
		}
	}
	if err := batch.Commit(t.ctx); err != nil {
		return fmt.Errorf("commit batch: %w", err)
	}
	return nil
}
