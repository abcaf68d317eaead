package utils

import (
	"net/url"
)

// RedactURL hides the password of a URL's userinfo so it can be logged.
// Strings that do not parse as URLs are returned unchanged.
func RedactURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.User == nil {
		return rawURL
	}
	return u.Redacted()
}
