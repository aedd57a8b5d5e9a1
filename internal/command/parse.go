package command

import (
	"strings"

	"nftrelay/internal/events"
)

// Parse turns a chat message into a Request. Commands may carry a bot
// mention ("/track@relay_bot abc"). A message that is nothing but a
// marketplace link is read as /track. ok is false for anything else.
func Parse(destination, text string, links *events.CollectionParser) (Request, bool) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Request{}, false
	}

	if !strings.HasPrefix(text, "/") {
		if links != nil && links.IsLink(text) {
			return Request{Destination: destination, Command: Track, Argument: text}, true
		}
		return Request{}, false
	}

	head, arg, _ := strings.Cut(text[1:], " ")
	if at := strings.IndexByte(head, '@'); at >= 0 {
		head = head[:at]
	}

	name := Name(strings.ToLower(head))
	if _, ok := known[name]; !ok {
		return Request{}, false
	}

	return Request{
		Destination: destination,
		Command:     name,
		Argument:    strings.TrimSpace(arg),
	}, true
}
