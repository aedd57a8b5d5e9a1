package command

import (
	"nftrelay/internal/notifier"
)

type Name string

const (
	Start    Name = "start"
	Help     Name = "help"
	Track    Name = "track"
	Stop     Name = "stop"
	StopAll  Name = "stopall"
	List     Name = "list"
	Language Name = "language"
)

var known = map[Name]struct{}{
	Start:    {},
	Help:     {},
	Track:    {},
	Stop:     {},
	StopAll:  {},
	List:     {},
	Language: {},
}

// Source identifies the transport a request arrived on.
const (
	SourceTelegram = "telegram"
	SourceHTTP     = "http"
	SourceBroker   = "broker"
)

type Request struct {
	Destination string `json:"destination"`
	Command     Name   `json:"command"`
	Argument    string `json:"argument,omitempty"`
	Source      string `json:"-"`
}

// Reply is the localized answer to a Request. It is meaningful even when
// Execute also returns an error.
type Reply struct {
	Text   string          `json:"text"`
	Format notifier.Format `json:"format"`
}
