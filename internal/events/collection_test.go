package events

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "nftrelay/pkg/errors"
)

func TestCollectionParser_Parse(t *testing.T) {
	parser := NewCollectionParser([]string{"xrp.cafe"})

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "verbatim", input: "abc123", want: "abc123"},
		{name: "issuer with taxon", input: "rBeard:42", want: "rBeard:42"},
		{name: "trims spaces", input: "  abc123  ", want: "abc123"},
		{name: "https link", input: "https://xrp.cafe/collection/beardnft", want: "beardnft"},
		{name: "trailing slash", input: "https://xrp.cafe/collection/beardnft/", want: "beardnft"},
		{name: "query dropped", input: "https://xrp.cafe/collection/beardnft?tab=activity", want: "beardnft"},
		{name: "www host", input: "https://www.xrp.cafe/collection/beardnft", want: "beardnft"},
		{name: "schemeless link", input: "xrp.cafe/collection/beardnft", want: "beardnft"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parser.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCollectionParser_Rejects(t *testing.T) {
	parser := NewCollectionParser([]string{"xrp.cafe"})

	for _, input := range []string{
		"",
		"has space",
		"emoji😀",
		"https://evil.example/collection/abc",
		"https://xrp.cafe/",
		string(make([]byte, 129)),
	} {
		_, err := parser.Parse(input)
		require.Error(t, err, input)
		assert.True(t, apperrors.IsValidation(err), input)
	}
}

func TestCollectionParser_IsLink(t *testing.T) {
	parser := NewCollectionParser([]string{"xrp.cafe"})

	assert.True(t, parser.IsLink("https://xrp.cafe/collection/beardnft"))
	assert.False(t, parser.IsLink("beardnft"))
	assert.False(t, parser.IsLink("https://other.example/collection/beardnft"))
}
