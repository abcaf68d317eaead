package extractor

import (
	"testing"

	"github.com/SepDev7/shop-crawler/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustPayload(t *testing.T, text string) Payload {
	t.Helper()
	payload, err := parseJSON([]byte(text))
	require.NoError(t, err)
	return payload
}

func TestNormalize_CompleteEntries(t *testing.T) {
	payload := mustPayload(t, `{"data": {"ads": [
		{"detail": {"title": "Pride 111", "image": "http://img/1.jpg"}, "price": {"price": "285,000,000"}},
		{"detail": {"title": "Pride 131", "image": "http://img/2.jpg"}, "price": {"price": "310,000,000"}}
	]}}`)

	got := Normalize(payload)
	assert.Equal(t, []entity.Listing{
		{Title: "Pride 111", Price: "285,000,000", ImageURL: "http://img/1.jpg"},
		{Title: "Pride 131", Price: "310,000,000", ImageURL: "http://img/2.jpg"},
	}, got)
}

func TestNormalize_DropsIncompleteEntries(t *testing.T) {
	payload := mustPayload(t, `{"data": {"ads": [
		{"detail": {"image": "http://img/1.jpg"}, "price": {"price": "1"}},
		{"detail": {"title": "no image"}, "price": {"price": "1"}},
		{"detail": {"title": "no price", "image": "http://img/3.jpg"}},
		{"detail": {"title": "empty price", "image": "http://img/4.jpg"}, "price": {"price": ""}},
		{"detail": {"title": "null price", "image": "http://img/5.jpg"}, "price": {"price": null}},
		{"detail": {"title": "zero price", "image": "http://img/6.jpg"}, "price": {"price": 0}},
		{"detail": {"title": "", "image": "http://img/7.jpg"}, "price": {"price": "1"}},
		{"price": {"price": "1"}},
		{"detail": null, "price": {"price": "1"}},
		"not an object",
		{"detail": {"title": "kept", "image": "http://img/8.jpg"}, "price": {"price": "42"}}
	]}}`)

	got := Normalize(payload)
	require.Len(t, got, 1)
	assert.Equal(t, entity.Listing{Title: "kept", Price: "42", ImageURL: "http://img/8.jpg"}, got[0])
}

func TestNormalize_NumericPriceIsCopiedAsText(t *testing.T) {
	payload := mustPayload(t, `{"data": {"ads": [
		{"detail": {"title": "numeric", "image": "http://img/1.jpg"}, "price": {"price": 450000000}}
	]}}`)

	got := Normalize(payload)
	require.Len(t, got, 1)
	assert.Equal(t, "450000000", got[0].Price)
}

func TestNormalize_MissingOrEmptyAds(t *testing.T) {
	tests := []struct {
		name    string
		payload Payload
	}{
		{name: "nil payload", payload: nil},
		{name: "no data key", payload: mustPayload(t, `{}`)},
		{name: "no ads key", payload: mustPayload(t, `{"data": {}}`)},
		{name: "null ads", payload: mustPayload(t, `{"data": {"ads": null}}`)},
		{name: "empty ads", payload: mustPayload(t, `{"data": {"ads": []}}`)},
		{name: "ads not a list", payload: mustPayload(t, `{"data": {"ads": {"detail": {}}}}`)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, Normalize(tt.payload))
		})
	}
}

func TestNormalize_KeepsDuplicates(t *testing.T) {
	entry := `{"detail": {"title": "same", "image": "http://img/1.jpg"}, "price": {"price": "1"}}`
	payload := mustPayload(t, `{"data": {"ads": [`+entry+`,`+entry+`]}}`)

	assert.Len(t, Normalize(payload), 2)
}
