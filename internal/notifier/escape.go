package notifier

import (
	"html"
)

// Escape makes text safe to embed in a FormatRich message, which Telegram
// parses as HTML. Values escaped this way cannot open or close a tag.
func Escape(text string) string {
	return html.EscapeString(text)
}
