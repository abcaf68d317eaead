package entity

// RawResponse is an upstream HTTP response as handed over by a fetcher.
type RawResponse struct {
	URL         string
	StatusCode  int
	ContentType string
	Body        []byte
}
