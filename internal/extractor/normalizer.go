package extractor

import (
	"encoding/json"
	"strconv"

	"github.com/SepDev7/shop-crawler/internal/entity"
)

// Normalize maps the ads under data.ads into listings, in source order.
// An ad contributes a listing only when its title, image and price are all
// present; anything else is dropped without error.
func Normalize(p Payload) []entity.Listing {
	ads, _ := lookup(p, "data", "ads").([]any)

	listings := make([]entity.Listing, 0, len(ads))
	for _, raw := range ads {
		ad, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		title, hasTitle := scalarText(lookup(ad, "detail", "title"))
		image, hasImage := scalarText(lookup(ad, "detail", "image"))
		price, hasPrice := scalarText(lookup(ad, "price", "price"))
		if !hasTitle || !hasImage || !hasPrice {
			continue
		}

		listings = append(listings, entity.Listing{
			Title:    title,
			Price:    price,
			ImageURL: image,
		})
	}
	return listings
}

func lookup(m map[string]any, path ...string) any {
	var cur any = m
	for _, key := range path {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		cur = obj[key]
	}
	return cur
}

// scalarText returns the text of a non-empty string or a non-zero number.
func scalarText(v any) (string, bool) {
	switch val := v.(type) {
	case string:
		return val, val != ""
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return "", false
		}
		return val.String(), true
	case float64:
		if val == 0 {
			return "", false
		}
		return strconv.FormatFloat(val, 'f', -1, 64), true
	default:
		return "", false
	}
}
