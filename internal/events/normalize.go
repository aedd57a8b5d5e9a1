package events

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"nftrelay/internal/constants"
)

// Field aliases in priority order. The first alias holding a usable value wins.
var (
	txHashAliases      = []string{"txHash", "tx_hash", "TxHash", "hash", "transaction_hash"}
	eventIDAliases     = []string{"event_id", "eventId", "id", "NFTokenID", "nftoken_id"}
	typeAliases        = []string{"type", "Type", "event_type", "eventType"}
	displayNameAliases = []string{"name", "NFTName", "nft_name", "title"}
	imageAliases       = []string{"image", "Image", "image_url", "imageUrl"}
	priceAliases       = []string{"price", "Amount", "amount"}
	currencyAliases    = []string{"currency", "Currency"}
	nftIDAliases       = []string{"id", "NFTokenID", "nftoken_id", "nft_id"}
)

// containerKeys are checked, in order, when the payload is an object wrapping
// the event list.
var containerKeys = []string{"data", "events", "sales", "items", "result"}

var errMalformed = errors.New("malformed payload")

// DecodePayload extracts the raw event objects from a response body. Array
// entries that are not objects are dropped.
func DecodePayload(body []byte) ([]map[string]interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var root interface{}
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}

	var list []interface{}
	switch v := root.(type) {
	case []interface{}:
		list = v
	case map[string]interface{}:
		for _, key := range containerKeys {
			if inner, ok := v[key].([]interface{}); ok {
				list = inner
				break
			}
		}
		if list == nil {
			return nil, fmt.Errorf("%w: no event list under any of %v", errMalformed, containerKeys)
		}
	default:
		return nil, fmt.Errorf("%w: unexpected top-level %T", errMalformed, root)
	}

	out := make([]map[string]interface{}, 0, len(list))
	for _, item := range list {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out, nil
}

// Normalize coalesces one raw upstream object into an Event.
func Normalize(collectionID string, raw map[string]interface{}, hasher *Hasher) (Event, error) {
	txHash := firstString(raw, txHashAliases)

	key := txHash
	if key == "" {
		key = firstString(raw, eventIDAliases)
	}
	if key == "" {
		hashed, err := hasher.ContentHash(raw)
		if err != nil {
			return Event{}, err
		}
		key = hashed
	}

	event := Event{
		CollectionID: collectionID,
		Key:          key,
		Type:         ParseType(firstString(raw, typeAliases)),
		DisplayName:  firstString(raw, displayNameAliases),
		ImageURL:     firstString(raw, imageAliases),
		Price:        firstNumber(raw, priceAliases),
		Currency:     firstString(raw, currencyAliases),
	}

	if event.DisplayName == "" {
		event.DisplayName = constants.DefaultDisplayName
	}
	if event.Currency == "" {
		event.Currency = constants.DefaultCurrency
	}

	if nftID := firstString(raw, nftIDAliases); nftID != "" {
		event.ReferenceID = nftID
		event.ReferenceKind = ReferenceNFT
	} else if txHash != "" {
		event.ReferenceID = txHash
		event.ReferenceKind = ReferenceTransaction
	}

	return event, nil
}

func firstString(raw map[string]interface{}, aliases []string) string {
	for _, alias := range aliases {
		if s := stringValue(raw[alias]); s != "" {
			return s
		}
	}
	return ""
}

func stringValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case json.Number:
		return t.String()
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return ""
	}
}

func firstNumber(raw map[string]interface{}, aliases []string) *float64 {
	for _, alias := range aliases {
		if f, ok := numberValue(raw[alias]); ok {
			return &f
		}
	}
	return nil
}

func numberValue(v interface{}) (float64, bool) {
	switch t := v.(type) {
	case json.Number:
		f, err := t.Float64()
		return f, err == nil && finite(f)
	case float64:
		return t, finite(t)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil && finite(f)
	default:
		return 0, false
	}
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
