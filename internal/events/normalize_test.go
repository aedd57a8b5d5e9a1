package events

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOne(t *testing.T, body string) map[string]interface{} {
	t.Helper()
	raws, err := DecodePayload([]byte(body))
	require.NoError(t, err)
	require.Len(t, raws, 1)
	return raws[0]
}

func TestParseType(t *testing.T) {
	tests := map[string]Type{
		"sale":     TypeSale,
		" SALE ":   TypeSale,
		"Mint":     TypeMint,
		"listing":  TypeListing,
		"offer":    TypeOffer,
		"burn":     TypeBurn,
		"transfer": TypeUnknown,
		"":         TypeUnknown,
	}
	for raw, want := range tests {
		assert.Equal(t, want, ParseType(raw), raw)
	}
}

func TestDecodePayload_Shapes(t *testing.T) {
	tests := []struct {
		name string
		body string
		want int
	}{
		{name: "array", body: `[{"id":"a"},{"id":"b"}]`, want: 2},
		{name: "data wrapper", body: `{"data":[{"id":"a"}]}`, want: 1},
		{name: "sales wrapper", body: `{"meta":{},"sales":[{"id":"a"},{"id":"b"},{"id":"c"}]}`, want: 3},
		{name: "non-object entries dropped", body: `[{"id":"a"}, 3, "x", null]`, want: 1},
		{name: "empty array", body: `[]`, want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raws, err := DecodePayload([]byte(tt.body))
			require.NoError(t, err)
			assert.Len(t, raws, tt.want)
		})
	}
}

func TestDecodePayload_Malformed(t *testing.T) {
	for _, body := range []string{`not json`, `{"foo":[1]}`, `"text"`, `{"data":{"id":1}}`} {
		_, err := DecodePayload([]byte(body))
		assert.ErrorIs(t, err, errMalformed, body)
	}
}

func TestNormalize_SaleWithTxHash(t *testing.T) {
	raw := decodeOne(t, `[{"txHash":"T1","id":"NFT1","type":"Sale","name":"Beard #1","image":"https://img/1.png","price":50}]`)

	event, err := Normalize("abc123", raw, NewHasher("sha256"))

	require.NoError(t, err)
	assert.Equal(t, "T1", event.Key)
	assert.Equal(t, "abc123:T1", event.SeenKey())
	assert.Equal(t, TypeSale, event.Type)
	assert.Equal(t, "Beard #1", event.DisplayName)
	assert.Equal(t, "https://img/1.png", event.ImageURL)
	require.NotNil(t, event.Price)
	assert.Equal(t, 50.0, *event.Price)
	assert.Equal(t, "XRP", event.Currency)
	assert.Equal(t, "NFT1", event.ReferenceID)
	assert.Equal(t, ReferenceNFT, event.ReferenceKind)
}

func TestNormalize_Aliases(t *testing.T) {
	raw := decodeOne(t, `[{"tx_hash":"H9","NFTName":"Alias","Image":"i.png","Amount":"12.5","Currency":"USD","Type":"OFFER"}]`)

	event, err := Normalize("c", raw, NewHasher("sha256"))

	require.NoError(t, err)
	assert.Equal(t, "H9", event.Key)
	assert.Equal(t, "Alias", event.DisplayName)
	assert.Equal(t, "i.png", event.ImageURL)
	require.NotNil(t, event.Price)
	assert.Equal(t, 12.5, *event.Price)
	assert.Equal(t, "USD", event.Currency)
	assert.Equal(t, TypeOffer, event.Type)
	assert.Equal(t, "H9", event.ReferenceID)
	assert.Equal(t, ReferenceTransaction, event.ReferenceKind)
}

func TestNormalize_PriorityOrder(t *testing.T) {
	raw := decodeOne(t, `[{"hash":"low","txHash":"high","id":"nft","name":"","title":"Fallback Title"}]`)

	event, err := Normalize("c", raw, NewHasher("sha256"))

	require.NoError(t, err)
	assert.Equal(t, "high", event.Key)
	assert.Equal(t, "Fallback Title", event.DisplayName)
}

func TestNormalize_NumericID(t *testing.T) {
	raw := decodeOne(t, `[{"id":12345678901234567890}]`)

	event, err := Normalize("c", raw, NewHasher("sha256"))

	require.NoError(t, err)
	assert.Equal(t, "12345678901234567890", event.Key)
}

func TestNormalize_Defaults(t *testing.T) {
	raw := decodeOne(t, `[{"id":"x","price":"not-a-number"}]`)

	event, err := Normalize("c", raw, NewHasher("sha256"))

	require.NoError(t, err)
	assert.Equal(t, "Unnamed NFT", event.DisplayName)
	assert.Equal(t, "XRP", event.Currency)
	assert.Equal(t, TypeUnknown, event.Type)
	assert.Nil(t, event.Price)
	assert.False(t, event.HasPrice())
}

func TestNormalize_ContentHashIsStable(t *testing.T) {
	hasher := NewHasher("sha256")
	a := decodeOne(t, `[{"type":"mint","name":"No Key","price":1}]`)
	b := decodeOne(t, `[{"price":1,"name":"No Key","type":"mint"}]`)
	c := decodeOne(t, `[{"type":"mint","name":"Other","price":1}]`)

	ea, err := Normalize("c", a, hasher)
	require.NoError(t, err)
	eb, err := Normalize("c", b, hasher)
	require.NoError(t, err)
	ec, err := Normalize("c", c, hasher)
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(ea.Key, "sha256:"))
	assert.Equal(t, ea.Key, eb.Key)
	assert.NotEqual(t, ea.Key, ec.Key)
	assert.Empty(t, ea.ReferenceID)
}

func TestHasher_Algorithms(t *testing.T) {
	raw := map[string]interface{}{"a": "b"}

	for _, algo := range []string{"md5", "sha1", "sha256", "SHA256"} {
		sum, err := NewHasher(algo).ContentHash(raw)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(sum, strings.ToLower(algo)+":"), sum)
	}

	sum, err := NewHasher("crc32").ContentHash(raw)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(sum, "sha256:"), sum)
}
