package entity

// Listing mirrors the `listings` PostgreSQL table schema.
// All three fields are non-empty for every Listing produced by the normalizer.
type Listing struct {
	Title    string `json:"title"`
	Price    string `json:"price"` // kept as the source text, never parsed
	ImageURL string `json:"image_url"`
}
