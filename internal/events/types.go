package events

import (
	"strings"
)

type Type string

const (
	TypeMint    Type = "mint"
	TypeSale    Type = "sale"
	TypeListing Type = "listing"
	TypeOffer   Type = "offer"
	TypeBurn    Type = "burn"
	TypeUnknown Type = "unknown"
)

var knownTypes = map[string]Type{
	"mint":    TypeMint,
	"sale":    TypeSale,
	"listing": TypeListing,
	"offer":   TypeOffer,
	"burn":    TypeBurn,
}

// ParseType maps a raw upstream type onto the closed set. Anything it does not
// recognize, including the empty string, is TypeUnknown.
func ParseType(raw string) Type {
	if t, ok := knownTypes[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return t
	}
	return TypeUnknown
}

type ReferenceKind string

const (
	ReferenceNFT         ReferenceKind = "nft"
	ReferenceTransaction ReferenceKind = "tx"
)

// Event is one normalized marketplace occurrence for a collection.
type Event struct {
	CollectionID  string        `json:"collection_id"`
	Key           string        `json:"key"`
	Type          Type          `json:"type"`
	DisplayName   string        `json:"display_name"`
	ImageURL      string        `json:"image_url,omitempty"`
	Price         *float64      `json:"price,omitempty"`
	Currency      string        `json:"currency"`
	ReferenceID   string        `json:"reference_id,omitempty"`
	ReferenceKind ReferenceKind `json:"reference_kind,omitempty"`
}

// SeenKey is the deduplication key, scoped to the collection.
func (e Event) SeenKey() string {
	return e.CollectionID + ":" + e.Key
}

// HasPrice reports whether the upstream event carried a price at all; a zero
// price is still a price.
func (e Event) HasPrice() bool {
	return e.Price != nil
}

type FailureKind string

const (
	FailureNone        FailureKind = "none"
	FailureNetwork     FailureKind = "network"
	FailureTimeout     FailureKind = "timeout"
	FailureStatus      FailureKind = "status"
	FailureMalformed   FailureKind = "malformed"
	FailureCircuitOpen FailureKind = "circuit_open"
)

// FetchResult always carries a usable (possibly empty) event list. A failed
// fetch is reported through Failure and Err and yields no events.
type FetchResult struct {
	Events  []Event
	Failure FailureKind
	Err     error
}

func (r FetchResult) Failed() bool {
	return r.Failure != FailureNone && r.Failure != ""
}

func failed(kind FailureKind, err error) FetchResult {
	return FetchResult{Failure: kind, Err: err}
}

// Attributes exposes the event as a flat map for filter expressions.
func (e Event) Attributes() map[string]interface{} {
	price := 0.0
	if e.HasPrice() {
		price = *e.Price
	}
	return map[string]interface{}{
		"collection_id": e.CollectionID,
		"key":           e.Key,
		"type":          string(e.Type),
		"name":          e.DisplayName,
		"image_url":     e.ImageURL,
		"price":         price,
		"has_price":     e.HasPrice(),
		"currency":      e.Currency,
		"reference_id":  e.ReferenceID,
	}
}
