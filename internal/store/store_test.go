package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stellar/go/keypair"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
)

type record struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

var errBoom = errors.New("boom")

func randomAddress() ledger.Address {
	return ledger.Address(keypair.MustRandom().Address())
}

func TestDatastoreKeyVariants(t *testing.T) {
	seller := randomAddress()
	buyer := randomAddress()

	keys := []Key{
		AdminKey{},
		AuctionKey{Seller: seller, ProductID: 1},
		ProductListKey{Seller: seller},
		ProductKey{Seller: seller, ProductID: 1},
		ShipmentListKey{Seller: seller},
		ShipmentKey{Seller: seller, ShipmentID: buyer.String() + ":1"},
		SellerVerificationKey{Seller: seller},
		DisputeKey{Buyer: buyer, Seller: seller, ProductID: 1},
		ReturnPolicyKey{Seller: seller},
		ReturnRequestKey{Seller: seller, ProductID: 1},
	}

	seen := map[string]bool{}
	for _, k := range keys {
		dk := DatastoreKey(k).String()
		assert.False(t, seen[dk], "duplicate encoding %s", dk)
		seen[dk] = true
	}

	assert.Equal(t, "/auction/"+seller.String()+"/7", DatastoreKey(AuctionKey{Seller: seller, ProductID: 7}).String())
	assert.NotEqual(t,
		DatastoreKey(ProductKey{Seller: seller, ProductID: 1}),
		DatastoreKey(AuctionKey{Seller: seller, ProductID: 1}))
}

func TestDatastoreKeyUnknownVariantPanics(t *testing.T) {
	assert.Panics(t, func() { DatastoreKey(nil) })
}

func exerciseStore(t *testing.T, s Store) {
	ctx := context.Background()
	seller := randomAddress()
	k := ProductKey{Seller: seller, ProductID: 1}

	// Missing keys.
	require.NoError(t, s.View(ctx, func(tx Txn) error {
		_, err := Load[record](tx, k)
		require.ErrorIs(t, err, ErrNotFound)
		ok, err := tx.Has(k)
		require.NoError(t, err)
		require.False(t, ok)
		zero, err := LoadOrZero[record](tx, k)
		require.NoError(t, err)
		require.Equal(t, record{}, zero)
		return nil
	}))

	// Committed writes are visible, including to the writing transaction.
	require.NoError(t, s.Update(ctx, func(tx Txn) error {
		require.NoError(t, tx.Put(k, record{Name: "lamp", Count: 1}))
		got, err := Load[record](tx, k)
		require.NoError(t, err)
		require.Equal(t, 1, got.Count)
		return tx.Put(k, record{Name: "lamp", Count: 2})
	}))

	require.NoError(t, s.View(ctx, func(tx Txn) error {
		got, err := Load[record](tx, k)
		require.NoError(t, err)
		assert.Equal(t, record{Name: "lamp", Count: 2}, *got)
		return nil
	}))

	// A failing transition leaves no trace.
	err := s.Update(ctx, func(tx Txn) error {
		require.NoError(t, tx.Put(k, record{Name: "lamp", Count: 99}))
		require.NoError(t, tx.Put(AdminKey{}, seller))
		return errBoom
	})
	require.ErrorIs(t, err, errBoom)

	require.NoError(t, s.View(ctx, func(tx Txn) error {
		got, err := Load[record](tx, k)
		require.NoError(t, err)
		assert.Equal(t, 2, got.Count)
		ok, err := tx.Has(AdminKey{})
		require.NoError(t, err)
		assert.False(t, ok)
		return nil
	}))

	// Views cannot write.
	require.ErrorIs(t, s.View(ctx, func(tx Txn) error {
		return tx.Put(k, record{})
	}), ErrReadOnly)

	// Deletes are staged like writes.
	require.NoError(t, s.Update(ctx, func(tx Txn) error {
		require.NoError(t, tx.Delete(k))
		ok, err := tx.Has(k)
		require.NoError(t, err)
		require.False(t, ok)
		return nil
	}))
	require.NoError(t, s.View(ctx, func(tx Txn) error {
		_, err := Load[record](tx, k)
		require.ErrorIs(t, err, ErrNotFound)
		return nil
	}))
}

// exerciseConcurrentUpdates runs read-modify-write transitions over two keys
// from many goroutines; no increment may be lost and the keys never diverge.
func exerciseConcurrentUpdates(t *testing.T, s Store) {
	ctx := context.Background()
	seller := randomAddress()
	a := ProductKey{Seller: seller, ProductID: 1}
	b := ProductListKey{Seller: seller}
	const n = 50

	errs := make(chan error, n)
	var wg sync.WaitGroup
	for range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- s.Update(ctx, func(tx Txn) error {
				ra, err := LoadOrZero[record](tx, a)
				if err != nil {
					return err
				}
				rb, err := LoadOrZero[record](tx, b)
				if err != nil {
					return err
				}
				if ra.Count != rb.Count {
					return fmt.Errorf("diverged: %d != %d", ra.Count, rb.Count)
				}
				ra.Count++
				rb.Count++
				if err := tx.Put(a, ra); err != nil {
					return err
				}
				return tx.Put(b, rb)
			})
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	require.NoError(t, s.View(ctx, func(tx Txn) error {
		ra, err := Load[record](tx, a)
		require.NoError(t, err)
		rb, err := Load[record](tx, b)
		require.NoError(t, err)
		assert.Equal(t, n, ra.Count)
		assert.Equal(t, n, rb.Count)
		return nil
	}))
}

func TestMemoryStore(t *testing.T) {
	s := NewMemory()
	defer s.Close()
	exerciseStore(t, s)
	exerciseConcurrentUpdates(t, s)
}

func TestLevelDBStore(t *testing.T) {
	s, err := OpenLevelDB(t.TempDir())
	require.NoError(t, err)
	defer s.Close()
	exerciseStore(t, s)
	exerciseConcurrentUpdates(t, s)
}

func TestUpdateCancelledContext(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := s.Update(ctx, func(tx Txn) error {
		called = true
		return nil
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestTransactionIDsAreDistinct(t *testing.T) {
	s := NewMemory()
	defer s.Close()

	ids := map[string]bool{}
	for i := 0; i < 10; i++ {
		require.NoError(t, s.Update(context.Background(), func(tx Txn) error {
			ids[tx.ID().String()] = true
			return nil
		}))
	}
	assert.Len(t, ids, 10)
}
