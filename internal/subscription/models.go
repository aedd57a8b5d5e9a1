package subscription

import (
	"context"
	"errors"
	"sort"
)

// ErrCorruptState is returned by a Persister whose stored state could not be
// decoded.
var ErrCorruptState = errors.New("corrupt subscription state")

// ErrStateUnavailable is returned by writes to a FilePersister whose file
// exists but could not be read, so a partial snapshot never replaces it.
var ErrStateUnavailable = errors.New("subscription state unavailable")

// Record is everything stored for one destination.
type Record struct {
	Collections []string `json:"collections" bson:"collections"`
	Locale      string   `json:"locale" bson:"locale"`
}

func (r Record) clone() Record {
	out := Record{Locale: r.Locale}
	if len(r.Collections) > 0 {
		out.Collections = append([]string(nil), r.Collections...)
	}
	return out
}

func (r Record) has(collectionID string) bool {
	i := sort.SearchStrings(r.Collections, collectionID)
	return i < len(r.Collections) && r.Collections[i] == collectionID
}

func (r Record) with(collectionID string) Record {
	out := r.clone()
	out.Collections = append(out.Collections, collectionID)
	sort.Strings(out.Collections)
	return out
}

func (r Record) without(collectionID string) Record {
	out := Record{Locale: r.Locale}
	for _, c := range r.Collections {
		if c != collectionID {
			out.Collections = append(out.Collections, c)
		}
	}
	return out
}

// State maps destination to its record.
type State map[string]Record

// Entry is one tracking destination as returned by Store.All.
type Entry struct {
	Destination string   `json:"destination"`
	Collections []string `json:"collections"`
	Locale      string   `json:"locale"`
}

// Persister is the durable side of the store. Put and Delete must not return
// before the change is durable.
type Persister interface {
	Load(ctx context.Context) (State, error)
	Put(ctx context.Context, destination string, record Record) error
	Delete(ctx context.Context, destination string) error
}
