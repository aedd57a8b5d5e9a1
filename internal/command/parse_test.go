package command

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nftrelay/internal/events"
)

func TestParse(t *testing.T) {
	links := events.NewCollectionParser([]string{"xrp.cafe"})

	tests := []struct {
		name   string
		text   string
		want   Request
		wantOK bool
	}{
		{
			name:   "track with id",
			text:   "/track abc123",
			want:   Request{Destination: "1001", Command: Track, Argument: "abc123"},
			wantOK: true,
		},
		{
			name:   "bot mention",
			text:   "/list@relay_bot",
			want:   Request{Destination: "1001", Command: List},
			wantOK: true,
		},
		{
			name:   "upper case and extra spaces",
			text:   "  /LANGUAGE   fr ",
			want:   Request{Destination: "1001", Command: Language, Argument: "fr"},
			wantOK: true,
		},
		{
			name:   "bare link means track",
			text:   "https://xrp.cafe/collection/beardnft",
			want:   Request{Destination: "1001", Command: Track, Argument: "https://xrp.cafe/collection/beardnft"},
			wantOK: true,
		},
		{
			name:   "stop without argument",
			text:   "/stop",
			want:   Request{Destination: "1001", Command: Stop},
			wantOK: true,
		},
		{name: "unknown command", text: "/dance"},
		{name: "plain chatter", text: "hello there"},
		{name: "foreign link", text: "https://example.com/collection/x"},
		{name: "empty", text: "   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Parse("1001", tt.text, links)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
