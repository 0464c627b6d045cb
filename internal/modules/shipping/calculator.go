package shipping

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/samber/lo"
	"golang.org/x/crypto/blake2b"

	"github.com/georgemunganga/bazaar-ledger/internal/ledger"
	"github.com/georgemunganga/bazaar-ledger/internal/store"
)

// Calculate prices a shipment. It depends only on its inputs.
func Calculate(weightPounds, distanceKm, kmPerDay uint32) Quote {
	return Quote{
		Cost:    uint64(weightPounds)*CostPerPound + uint64(distanceKm)*CostPerKm,
		EtaDays: 1 + distanceKm/kmPerDay,
	}
}

// ShipmentID names the shipment a seller sends a buyer for one product.
func ShipmentID(buyer ledger.Address, productID uint64) string {
	return buyer.String() + ":" + strconv.FormatUint(productID, 10)
}

// TrackingToken derives the opaque tracking number for a shipment key.
func TrackingToken(seller ledger.Address, shipmentID string) string {
	key := store.DatastoreKey(store.ShipmentKey{Seller: seller, ShipmentID: shipmentID})
	h, _ := blake2b.New(16, nil)
	h.Write(key.Bytes())
	return "TRK-" + hex.EncodeToString(h.Sum(nil))
}

func normalizeZone(zone string) string {
	return strings.ToUpper(strings.TrimSpace(zone))
}

// checkDestination applies the zone and distance policy.
func (c Config) checkDestination(zone string, distanceKm uint32) error {
	zone = normalizeZone(zone)
	if zone == "" {
		return ErrInvalidBuyerZone
	}
	if len(c.AllowedZones) > 0 && !lo.Contains(lo.Map(c.AllowedZones, func(z string, _ int) string { return normalizeZone(z) }), zone) {
		return ErrInvalidBuyerZone
	}
	if lo.ContainsBy(c.RestrictedZones, func(z string) bool { return normalizeZone(z) == zone }) {
		return ErrRestrictedLocation
	}
	if distanceKm > c.MaxDistanceKm {
		return ErrRestrictedLocation
	}
	return nil
}
