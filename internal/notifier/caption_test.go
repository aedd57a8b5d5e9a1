package notifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nftrelay/internal/events"
	"nftrelay/internal/locale"
)

func price(v float64) *float64 {
	return &v
}

func TestCaptionBuilder_Sale(t *testing.T) {
	b := NewCaptionBuilder("", "")
	pack := locale.NewRegistry("en").Get("en")

	alert := b.Build(events.Event{
		CollectionID:  "abc123",
		Key:           "T1",
		Type:          events.TypeSale,
		DisplayName:   "Punk #1",
		ImageURL:      "https://img.example/1.png",
		Price:         price(250),
		Currency:      "XRP",
		ReferenceID:   "NFT1",
		ReferenceKind: events.ReferenceNFT,
	}, pack)

	assert.Equal(t, "https://img.example/1.png", alert.ImageURL)
	assert.Equal(t, FormatRich, alert.Format)
	assert.Equal(t,
		"💰 <b>SALE</b>\n🎨 <b>Punk #1</b>\n💰 250 XRP\n<a href=\"https://xrpscan.com/nft/NFT1\">🔗 View on XRPSCAN</a>",
		alert.Caption,
	)
}

func TestCaptionBuilder_NoPriceFallbackImageAndTxLink(t *testing.T) {
	b := NewCaptionBuilder("https://explorer.example/", "https://fallback.example/logo.png")
	pack := locale.NewRegistry("en").Get("en")

	alert := b.Build(events.Event{
		Type:          events.TypeMint,
		DisplayName:   "Unnamed NFT",
		ReferenceID:   "HASH1",
		ReferenceKind: events.ReferenceTransaction,
	}, pack)

	assert.Equal(t, "https://fallback.example/logo.png", alert.ImageURL)
	assert.NotContains(t, alert.Caption, "💰")
	assert.Contains(t, alert.Caption, `<a href="https://explorer.example/tx/HASH1">`)
}

func TestCaptionBuilder_EscapesName(t *testing.T) {
	b := NewCaptionBuilder("", "")
	pack := locale.NewRegistry("en").Get("en")

	alert := b.Build(events.Event{
		Type:        events.TypeListing,
		DisplayName: `*bold_* <i>"x" & y</b>`,
		ReferenceID: "a&b",
	}, pack)

	assert.Contains(t, alert.Caption, "🎨 <b>*bold_* &lt;i&gt;&#34;x&#34; &amp; y&lt;/b&gt;</b>")
	assert.Contains(t, alert.Caption, `href="https://xrpscan.com/nft/a&amp;b"`)
}

func TestCaptionBuilder_LocalizedLabel(t *testing.T) {
	b := NewCaptionBuilder("", "")
	reg := locale.NewRegistry("en")

	en := b.Build(events.Event{Type: events.TypeBurn, DisplayName: "x"}, reg.Get("en"))
	fr := b.Build(events.Event{Type: events.TypeBurn, DisplayName: "x"}, reg.Get("fr"))

	assert.Contains(t, en.Caption, "🔥 <b>BURN</b>")
	assert.NotEqual(t, en.Caption, fr.Caption)
	assert.NotContains(t, en.Caption, "<a ")
}

func TestEmoji(t *testing.T) {
	tests := []struct {
		typ  events.Type
		want string
	}{
		{events.TypeMint, "✨"},
		{events.TypeSale, "💰"},
		{events.TypeListing, "🏷️"},
		{events.TypeOffer, "🤝"},
		{events.TypeBurn, "🔥"},
		{events.TypeUnknown, "🧩"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Emoji(tt.typ), string(tt.typ))
	}
}

func TestEscape(t *testing.T) {
	assert.Equal(t, "a_b*c[d]", Escape("a_b*c[d]"))
	assert.Equal(t, "&lt;b&gt;x&lt;/b&gt; &amp; y", Escape("<b>x</b> & y"))
	assert.Equal(t, "plain text", Escape("plain text"))
}
