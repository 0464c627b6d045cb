package market

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/raulk/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/georgemunganga/bazaar-ledger/internal/httpx"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/ledger/ledgertest"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/auction"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/auth"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/catalog"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/dispute"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/registry"
	"github.com/georgemunganga/bazaar-ledger/internal/modules/shipping"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

func testConfig() Config {
	return Config{
		Catalog:  catalog.DefaultConfig(),
		Auction:  auction.DefaultConfig(),
		Shipping: shipping.DefaultConfig(),
	}
}

func newMarket(t *testing.T) (*Market, *clock.Mock) {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })
	env, mock := ledgertest.NewEnv()
	return New(st, env, testConfig(), ledgertest.Logger()), mock
}

func initAdmin(t *testing.T, m *Market) ledger.Address {
	t.Helper()
	admin := ledgertest.NewAddress()
	require.NoError(t, m.Registry.SetAdmin(ledgertest.As(admin), registry.SetAdminRequest{Caller: admin, NewAdmin: admin}))
	return admin
}

func verify(t *testing.T, m *Market, admin, seller ledger.Address) {
	t.Helper()
	_, err := m.Registry.RequestVerification(ledgertest.As(seller), seller)
	require.NoError(t, err)
	_, err = m.Registry.DecideVerification(ledgertest.As(admin), seller, registry.DecisionRequest{Admin: admin, Approve: true})
	require.NoError(t, err)
}

func listing(seller ledger.Address, stock uint32) catalog.CreateProductRequest {
	return catalog.CreateProductRequest{
		Seller:       seller,
		Name:         "guitar",
		Description:  "acoustic, solid spruce top",
		Price:        300,
		Condition:    catalog.ConditionUsedGood,
		Stock:        stock,
		Images:       []string{"ipfs://guitar"},
		WeightPounds: 9,
	}
}

func TestAuctionToDeliveryScenario(t *testing.T) {
	m, mock := newMarket(t)
	admin := initAdmin(t, m)
	seller, a, b := ledgertest.NewAddress(), ledgertest.NewAddress(), ledgertest.NewAddress()
	verify(t, m, admin, seller)

	p, err := m.Catalog.CreateProduct(ledgertest.As(seller), listing(seller, 1))
	require.NoError(t, err)

	end := uint64(ledgertest.Genesis.Add(time.Hour).Unix())
	_, err = m.Auctions.CreateAuction(ledgertest.As(seller), seller, p.ID, auction.CreateAuctionRequest{ReservePrice: 100, EndTime: end})
	require.NoError(t, err)

	snap, err := m.Auctions.PlaceBid(ledgertest.As(a), seller, p.ID, auction.BidRequest{Bidder: a, Amount: 150})
	require.NoError(t, err)
	assert.Equal(t, uint64(150), snap.HighestBid)

	_, err = m.Auctions.PlaceBid(ledgertest.As(b), seller, p.ID, auction.BidRequest{Bidder: b, Amount: 150})
	require.ErrorIs(t, err, auction.ErrBidTooLow)

	mock.Add(time.Hour)
	out, err := m.Auctions.ResolveAuction(ledgertest.As(seller), seller, p.ID, auction.ResolveRequest{Caller: seller})
	require.NoError(t, err)
	assert.Equal(t, a, out.Winner)
	assert.Equal(t, uint64(150), out.Amount)

	got, err := m.Catalog.GetProduct(context.Background(), seller, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got.Stock)

	// The winner's parcel is costed and tracked.
	sh, err := m.Shipping.QuoteShipment(ledgertest.As(seller), seller, shipping.QuoteRequest{
		Buyer: a, ProductID: p.ID, WeightPounds: 9, DistanceKm: 640, Zone: "EU-WEST",
	})
	require.NoError(t, err)
	assert.Equal(t, uint64(9*6+640), sh.Cost)
	assert.Equal(t, uint32(2), sh.EtaDays)

	_, err = m.Shipping.UpdateStatus(ledgertest.As(seller), seller, sh.ID, shipping.StatusRequest{Caller: seller, Status: shipping.StatusDelivered})
	require.NoError(t, err)

	// A complaint about the item stays single while pending.
	_, err = m.Disputes.OpenDispute(ledgertest.As(a), dispute.OpenRequest{Buyer: a, Seller: seller, ProductID: p.ID, Reason: "cracked neck"})
	require.NoError(t, err)
	_, err = m.Disputes.OpenDispute(ledgertest.As(a), dispute.OpenRequest{Buyer: a, Seller: seller, ProductID: p.ID, Reason: "cracked neck"})
	require.ErrorIs(t, err, dispute.ErrDisputeAlreadyExists)
	d, err := m.Disputes.ResolveDispute(ledgertest.As(admin), a, seller, p.ID, dispute.ResolveRequest{Caller: admin, Approve: true})
	require.NoError(t, err)
	assert.Equal(t, dispute.StatusApproved, d.Status)
}

func TestUnverifiedSellerCreatesNothing(t *testing.T) {
	m, _ := newMarket(t)
	initAdmin(t, m)
	seller := ledgertest.NewAddress()

	_, err := m.Catalog.CreateProduct(ledgertest.As(seller), listing(seller, 1))
	require.ErrorIs(t, err, catalog.ErrSellerNotVerified)

	_, err = m.Catalog.GetProduct(context.Background(), seller, 1)
	require.ErrorIs(t, err, catalog.ErrProductNotFound)
	products, err := m.Catalog.ListProducts(context.Background(), seller)
	require.NoError(t, err)
	assert.Empty(t, products)
}

func TestNoBidsLeavesStockUnchanged(t *testing.T) {
	m, mock := newMarket(t)
	admin := initAdmin(t, m)
	seller := ledgertest.NewAddress()
	verify(t, m, admin, seller)

	p, err := m.Catalog.CreateProduct(ledgertest.As(seller), listing(seller, 4))
	require.NoError(t, err)
	end := uint64(ledgertest.Genesis.Add(time.Minute).Unix())
	_, err = m.Auctions.CreateAuction(ledgertest.As(seller), seller, p.ID, auction.CreateAuctionRequest{ReservePrice: 10, EndTime: end})
	require.NoError(t, err)

	mock.Add(time.Minute)
	for i := 0; i < 2; i++ {
		_, err = m.Auctions.ResolveAuction(ledgertest.As(seller), seller, p.ID, auction.ResolveRequest{Caller: seller})
		require.ErrorIs(t, err, auction.ErrNoBidsPlaced)
	}
	got, err := m.Catalog.GetProduct(context.Background(), seller, p.ID)
	require.NoError(t, err)
	assert.Equal(t, uint32(4), got.Stock)
}

type httpClient struct {
	t      *testing.T
	router http.Handler
	tokens auth.Service
}

func (c *httpClient) do(as ledger.Address, method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(c.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	if as != "" {
		token, err := c.tokens.IssueToken(as)
		require.NoError(c.t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body httpx.ErrorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body.Error
}

func TestHTTPFlow(t *testing.T) {
	m, _ := newMarket(t)
	tokens := auth.NewService(auth.Config{Secret: "test-secret", Issuer: "bazaar-ledger", TTL: time.Hour})
	router := chi.NewRouter()
	router.Use(auth.NewHandler(tokens).Middleware)
	m.RegisterRoutes(router)
	c := &httpClient{t: t, router: router, tokens: tokens}

	admin, seller := ledgertest.NewAddress(), ledgertest.NewAddress()

	rec := c.do(admin, http.MethodPut, "/api/v1/registry/admin", registry.SetAdminRequest{Caller: admin, NewAdmin: admin})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	// Listing before verification is forbidden.
	rec = c.do(seller, http.MethodPost, "/api/v1/catalog/products", listing(seller, 2))
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "SellerNotVerified", errorCode(t, rec))

	rec = c.do(seller, http.MethodPost, "/api/v1/registry/verifications/"+seller.String(), nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	rec = c.do(admin, http.MethodPost, "/api/v1/registry/verifications/"+seller.String()+"/decision", registry.DecisionRequest{Admin: admin, Approve: true})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = c.do(seller, http.MethodPost, "/api/v1/catalog/products", listing(seller, 2))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var p catalog.Product
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	assert.Equal(t, uint64(1), p.ID)

	// Anonymous callers cannot mutate, but can read.
	productPath := fmt.Sprintf("/api/v1/catalog/sellers/%s/products/%d", seller, p.ID)
	rec = c.do("", http.MethodPut, productPath+"/price", catalog.UpdatePriceRequest{Price: 10})
	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "AuthRequired", errorCode(t, rec))
	rec = c.do("", http.MethodGet, productPath, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = c.do("", http.MethodGet, "/api/v1/catalog/sellers/not-an-address/products", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(seller, http.MethodGet, fmt.Sprintf("/api/v1/auctions/sellers/%s/products/%d", seller, p.ID), nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "AuctionNotFound", errorCode(t, rec))

	rec = c.do(seller, http.MethodPost, fmt.Sprintf("/api/v1/auctions/sellers/%s/products/%d", seller, p.ID), auction.CreateAuctionRequest{ReservePrice: 5, EndTime: 1})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Equal(t, "InvalidAuctionEndTime", errorCode(t, rec))
}
