package notifier

import (
	"context"
)

// Format selects how the transport renders text.
type Format string

const (
	FormatPlain Format = "plain"
	// FormatRich text uses the <b>, <code> and <a> subset of HTML.
	FormatRich Format = "rich"
)

// Notifier delivers messages to a destination. Implementations must be safe
// for concurrent use and must honor ctx for cancellation.
type Notifier interface {
	SendText(ctx context.Context, destination, text string, format Format) error
	SendPhoto(ctx context.Context, destination, imageURL, caption string, format Format) error
}
