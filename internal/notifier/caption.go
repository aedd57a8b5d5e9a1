package notifier

import (
	"net/url"
	"strconv"
	"strings"

	"nftrelay/internal/constants"
	"nftrelay/internal/events"
	"nftrelay/internal/locale"
)

var typeEmoji = map[events.Type]string{
	events.TypeMint:    "✨",
	events.TypeSale:    "💰",
	events.TypeListing: "🏷️",
	events.TypeOffer:   "🤝",
	events.TypeBurn:    "🔥",
}

const unknownEmoji = "🧩"

// Alert is one rendered event notification.
type Alert struct {
	ImageURL string
	Caption  string
	Format   Format
}

type CaptionBuilder struct {
	explorerURL   string
	fallbackImage string
}

func NewCaptionBuilder(explorerURL, fallbackImage string) *CaptionBuilder {
	if explorerURL == "" {
		explorerURL = constants.DefaultExplorerURL
	}
	if fallbackImage == "" {
		fallbackImage = constants.DefaultFallbackImageURL
	}
	return &CaptionBuilder{
		explorerURL:   strings.TrimRight(explorerURL, "/"),
		fallbackImage: fallbackImage,
	}
}

func Emoji(t events.Type) string {
	if e, ok := typeEmoji[t]; ok {
		return e
	}
	return unknownEmoji
}

// Build renders ev in the language of pack.
func (b *CaptionBuilder) Build(ev events.Event, pack *locale.Pack) Alert {
	var sb strings.Builder

	sb.WriteString(Emoji(ev.Type))
	sb.WriteString(" <b>")
	sb.WriteString(Escape(pack.TypeLabel(ev.Type)))
	sb.WriteString("</b>\n")

	name := ev.DisplayName
	if name == "" {
		name = constants.DefaultDisplayName
	}
	sb.WriteString("🎨 <b>")
	sb.WriteString(Escape(name))
	sb.WriteString("</b>\n")

	if ev.HasPrice() {
		currency := ev.Currency
		if currency == "" {
			currency = constants.DefaultCurrency
		}
		sb.WriteString("💰 ")
		sb.WriteString(strconv.FormatFloat(*ev.Price, 'f', -1, 64))
		sb.WriteString(" ")
		sb.WriteString(Escape(currency))
		sb.WriteString("\n")
	}

	if link := b.ExplorerLink(ev); link != "" {
		sb.WriteString(`<a href="`)
		sb.WriteString(Escape(link))
		sb.WriteString(`">`)
		sb.WriteString(Escape(pack.ViewOnExplorer()))
		sb.WriteString("</a>")
	}

	image := ev.ImageURL
	if image == "" {
		image = b.fallbackImage
	}

	return Alert{
		ImageURL: image,
		Caption:  strings.TrimRight(sb.String(), "\n"),
		Format:   FormatRich,
	}
}

// ExplorerLink points at the NFT or the transaction, depending on what the
// event references. Empty when there is no reference.
func (b *CaptionBuilder) ExplorerLink(ev events.Event) string {
	if ev.ReferenceID == "" {
		return ""
	}
	segment := "nft"
	if ev.ReferenceKind == events.ReferenceTransaction {
		segment = "tx"
	}
	return b.explorerURL + "/" + segment + "/" + url.PathEscape(ev.ReferenceID)
}
