package checkin

import (
	"context"
	"encoding/json"
	"log/slog"
	"math"
	"strconv"

	"Homefeed/internal/domain"
	"Homefeed/internal/ports"
)

// Collection names are fixed by the record lexicons.
const (
	Collection        = "app.dropanchor.checkin"
	AddressCollection = "community.lexicon.location.address"
)

// Normalizer collapses the two check-in schema versions into the unified
// shape. The current schema embeds the address and stores coordinates as
// decimal strings under geo; the legacy schema stores native numbers under
// coordinates and only a cross-reference to a separate address record.
type Normalizer struct {
	fetcher ports.RecordFetcher
	logger  *slog.Logger
}

var _ ports.CheckinNormalizer = (*Normalizer)(nil)

// NewNormalizer wires the record fetcher used for legacy address lookups.
func NewNormalizer(fetcher ports.RecordFetcher, logger *slog.Logger) *Normalizer {
	return &Normalizer{fetcher: fetcher, logger: logger}
}

// recordValue is the superset of both schema versions. It is decoded once
// per record; downstream code only ever sees the unified shape.
type recordValue struct {
	Text      string `json:"text"`
	CreatedAt string `json:"createdAt"`

	// current schema
	Geo *struct {
		Latitude  string `json:"latitude"`
		Longitude string `json:"longitude"`
	} `json:"geo"`
	Address *domain.Address `json:"address"`

	// legacy schema
	Coordinates *struct {
		Latitude  float64 `json:"latitude"`
		Longitude float64 `json:"longitude"`
	} `json:"coordinates"`
	AddressRef *struct {
		URI string `json:"uri"`
		CID string `json:"cid"`
	} `json:"addressRef"`
}

// Normalize processes records sequentially in input order. Records that
// cannot be normalized are dropped; one bad record never aborts the batch.
func (n *Normalizer) Normalize(ctx context.Context, identity domain.Identity, records []domain.RawRecord) []domain.UnifiedCheckin {
	out := make([]domain.UnifiedCheckin, 0, len(records))
	for _, record := range records {
		unified, ok := n.normalizeOne(ctx, identity, record)
		if !ok {
			continue
		}
		out = append(out, unified)
	}
	return out
}

func (n *Normalizer) normalizeOne(ctx context.Context, identity domain.Identity, record domain.RawRecord) (domain.UnifiedCheckin, bool) {
	var value recordValue
	if err := json.Unmarshal(record.Value, &value); err != nil {
		n.drop(record, "undecodable value", err)
		return domain.UnifiedCheckin{}, false
	}

	coords, ok := parseCoordinates(value)
	if !ok {
		n.drop(record, "unusable coordinates", nil)
		return domain.UnifiedCheckin{}, false
	}

	var address domain.Address
	switch {
	case value.Address != nil:
		address = *value.Address
	case value.AddressRef != nil:
		fetched, err := n.fetchAddress(ctx, identity, value.AddressRef.URI)
		if err != nil {
			n.drop(record, "address lookup failed", err)
			return domain.UnifiedCheckin{}, false
		}
		address = fetched
	default:
		n.drop(record, "no address data", nil)
		return domain.UnifiedCheckin{}, false
	}

	if address.Country == "" {
		n.drop(record, "address missing country", nil)
		return domain.UnifiedCheckin{}, false
	}

	return domain.UnifiedCheckin{
		Record:      record,
		Text:        value.Text,
		CreatedAt:   value.CreatedAt,
		Address:     address,
		Coordinates: coords,
	}, true
}

// parseCoordinates resolves either coordinate encoding to finite floats.
// A record with neither encoding, or with values that do not parse to a
// finite number, is unusable.
func parseCoordinates(value recordValue) (domain.Coordinates, bool) {
	switch {
	case value.Geo != nil:
		lat, latErr := strconv.ParseFloat(value.Geo.Latitude, 64)
		lng, lngErr := strconv.ParseFloat(value.Geo.Longitude, 64)
		if latErr != nil || lngErr != nil || !finite(lat) || !finite(lng) {
			return domain.Coordinates{}, false
		}
		return domain.Coordinates{Latitude: lat, Longitude: lng}, true
	case value.Coordinates != nil:
		lat, lng := value.Coordinates.Latitude, value.Coordinates.Longitude
		if !finite(lat) || !finite(lng) {
			return domain.Coordinates{}, false
		}
		return domain.Coordinates{Latitude: lat, Longitude: lng}, true
	default:
		return domain.Coordinates{}, false
	}
}

// fetchAddress resolves a legacy cross-reference by record key against the
// fixed address collection.
func (n *Normalizer) fetchAddress(ctx context.Context, identity domain.Identity, refURI string) (domain.Address, error) {
	rkey := domain.RecordKeyFromURI(refURI)
	record, err := n.fetcher.GetRecord(ctx, identity.ServiceEndpoint, identity.DID, AddressCollection, rkey)
	if err != nil {
		return domain.Address{}, err
	}

	var address domain.Address
	if err := json.Unmarshal(record.Value, &address); err != nil {
		return domain.Address{}, err
	}
	return address, nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func (n *Normalizer) drop(record domain.RawRecord, reason string, err error) {
	if n.logger == nil {
		return
	}
	if err != nil {
		n.logger.Warn("dropping check-in", "uri", record.URI, "reason", reason, "error", err)
		return
	}
	n.logger.Debug("dropping check-in", "uri", record.URI, "reason", reason)
}
