package catalog

import (
	"context"
	"slices"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger/ledgertest"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/registry"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

type fixture struct {
	svc      Service
	registry registry.Service
	admin    ledger.Address
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	env, _ := ledgertest.NewEnv()
	log := ledgertest.Logger()

	f := &fixture{
		svc:      NewService(st, env, DefaultConfig(), log),
		registry: registry.NewService(st, env, log),
		admin:    ledgertest.NewAddress(),
	}
	err := f.registry.SetAdmin(ledgertest.As(f.admin), registry.SetAdminRequest{Caller: f.admin, NewAdmin: f.admin})
	require.NoError(t, err)
	return f
}

func (f *fixture) verifiedSeller(t *testing.T) ledger.Address {
	t.Helper()
	seller := ledgertest.NewAddress()
	_, err := f.registry.RequestVerification(ledgertest.As(seller), seller)
	require.NoError(t, err)
	_, err = f.registry.DecideVerification(ledgertest.As(f.admin), seller, registry.DecisionRequest{Admin: f.admin, Approve: true})
	require.NoError(t, err)
	return seller
}

func validRequest(seller ledger.Address) CreateProductRequest {
	return CreateProductRequest{
		Seller:       seller,
		Name:         "lamp",
		Description:  "brass desk lamp",
		Price:        250,
		Condition:    ConditionUsedGood,
		Stock:        3,
		Images:       []string{"ipfs://lamp-front"},
		WeightPounds: 4,
	}
}

func TestCreateProductValidation(t *testing.T) {
	f := newFixture(t)
	seller := f.verifiedSeller(t)

	tests := []struct {
		name   string
		mutate func(*CreateProductRequest)
		want   error
	}{
		{"empty name", func(r *CreateProductRequest) { r.Name = "  " }, ErrInvalidName},
		{"long name", func(r *CreateProductRequest) { r.Name = strings.Repeat("n", MaxNameLen+1) }, ErrInvalidName},
		{"empty description", func(r *CreateProductRequest) { r.Description = "" }, ErrInvalidDescription},
		{"long description", func(r *CreateProductRequest) { r.Description = strings.Repeat("d", 501) }, ErrInvalidDescription},
		{"zero price", func(r *CreateProductRequest) { r.Price = 0 }, ErrInvalidPrice},
		{"zero weight", func(r *CreateProductRequest) { r.WeightPounds = 0 }, ErrInvalidWeight},
		{"unknown condition", func(r *CreateProductRequest) { r.Condition = "Mint" }, ErrInvalidCondition},
		{"no images", func(r *CreateProductRequest) { r.Images = nil }, ErrInvalidImageCount},
		{"too many images", func(r *CreateProductRequest) { r.Images = make([]string, 6) }, ErrInvalidImageCount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest(seller)
			tt.mutate(&req)
			_, err := f.svc.CreateProduct(ledgertest.As(seller), req)
			require.ErrorIs(t, err, tt.want)
		})
	}

	products, err := f.svc.ListProducts(context.Background(), seller)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCreateProductAssignsSequentialIDs(t *testing.T) {
	f := newFixture(t)
	seller := f.verifiedSeller(t)
	other := f.verifiedSeller(t)

	for want := uint64(1); want <= 3; want++ {
		p, err := f.svc.CreateProduct(ledgertest.As(seller), validRequest(seller))
		require.NoError(t, err)
		assert.Equal(t, want, p.ID)
		assert.True(t, p.Verified)
		assert.Equal(t, uint64(ledgertest.Genesis.Unix()), p.ListedAt)
	}

	// Ids are scoped per seller.
	p, err := f.svc.CreateProduct(ledgertest.As(other), validRequest(other))
	require.NoError(t, err)
	assert.Equal(t, uint64(1), p.ID)

	products, err := f.svc.ListProducts(context.Background(), seller)
	require.NoError(t, err)
	require.Len(t, products, 3)
	assert.Equal(t, uint64(3), products[2].ID)

	got, err := f.svc.GetProduct(context.Background(), seller, 2)
	require.NoError(t, err)
	assert.Equal(t, "lamp", got.Name)

	_, err = f.svc.GetProduct(context.Background(), seller, 4)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestConcurrentListingsGetContiguousIDs(t *testing.T) {
	f := newFixture(t)
	seller := f.verifiedSeller(t)
	const n = 32

	ids := make([]uint64, n)
	errs := make([]error, n)
	var wg sync.WaitGroup
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := f.svc.CreateProduct(ledgertest.As(seller), validRequest(seller))
			errs[i] = err
			if err == nil {
				ids[i] = p.ID
			}
		}()
	}
	wg.Wait()

	for _, err := range errs {
		require.NoError(t, err)
	}
	slices.Sort(ids)
	for i, id := range ids {
		assert.Equal(t, uint64(i+1), id)
	}

	products, err := f.svc.ListProducts(context.Background(), seller)
	require.NoError(t, err)
	require.Len(t, products, n)
	for i, p := range products {
		assert.Equal(t, uint64(i+1), p.ID)
	}
}

func TestUnverifiedSellerCannotList(t *testing.T) {
	f := newFixture(t)
	seller := ledgertest.NewAddress()

	_, err := f.svc.CreateProduct(ledgertest.As(seller), validRequest(seller))
	require.ErrorIs(t, err, ErrSellerNotVerified)

	// A pending request is not enough either.
	_, err = f.registry.RequestVerification(ledgertest.As(seller), seller)
	require.NoError(t, err)
	_, err = f.svc.CreateProduct(ledgertest.As(seller), validRequest(seller))
	require.ErrorIs(t, err, ErrSellerNotVerified)

	_, err = f.svc.GetProduct(context.Background(), seller, 1)
	require.ErrorIs(t, err, ErrProductNotFound)
	products, err := f.svc.ListProducts(context.Background(), seller)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestCreateProductRequiresAuth(t *testing.T) {
	f := newFixture(t)
	seller := f.verifiedSeller(t)

	_, err := f.svc.CreateProduct(context.Background(), validRequest(seller))
	require.ErrorIs(t, err, ledger.ErrAuthRequired)
	_, err = f.svc.CreateProduct(ledgertest.As(ledgertest.NewAddress()), validRequest(seller))
	require.ErrorIs(t, err, ledger.ErrAuthRequired)
}

func TestUpdatePrice(t *testing.T) {
	f := newFixture(t)
	seller := f.verifiedSeller(t)
	intruder := f.verifiedSeller(t)
	p, err := f.svc.CreateProduct(ledgertest.As(seller), validRequest(seller))
	require.NoError(t, err)

	_, err = f.svc.UpdatePrice(ledgertest.As(seller), seller, p.ID, UpdatePriceRequest{Caller: seller, Price: 0})
	require.ErrorIs(t, err, ErrInvalidPrice)

	_, err = f.svc.UpdatePrice(ledgertest.As(intruder), seller, p.ID, UpdatePriceRequest{Caller: intruder, Price: 10})
	require.ErrorIs(t, err, ErrUnauthorized)

	// Another seller's namespace holds no such product.
	_, err = f.svc.UpdatePrice(ledgertest.As(intruder), intruder, p.ID, UpdatePriceRequest{Caller: intruder, Price: 10})
	require.ErrorIs(t, err, ErrProductNotFound)

	updated, err := f.svc.UpdatePrice(ledgertest.As(seller), seller, p.ID, UpdatePriceRequest{Caller: seller, Price: 300})
	require.NoError(t, err)
	assert.Equal(t, uint64(300), updated.Price)

	got, err := f.svc.GetProduct(context.Background(), seller, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint64(300), got.Price)
}
