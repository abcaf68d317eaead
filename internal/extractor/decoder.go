package extractor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/SepDev7/shop-crawler/internal/entity"
	"go.uber.org/zap"
)

// ErrDecode marks a response that declared JSON but did not carry a JSON object.
var ErrDecode = errors.New("malformed JSON payload")

const embeddedJSONSelector = `script[type="application/json"]`

// Payload is the structured document decoded from a search page.
// A nil Payload means the page carried no data.
type Payload map[string]any

// Decoder turns raw upstream responses into payloads.
type Decoder struct {
	logger *zap.Logger
}

func NewDecoder(logger *zap.Logger) *Decoder {
	return &Decoder{logger: logger}
}

// Decode extracts the payload from resp based on its content type.
// JSON bodies are parsed directly; HTML bodies are searched for the first
// embedded JSON script element. Any other content type yields (nil, nil).
func (d *Decoder) Decode(resp *entity.RawResponse) (Payload, error) {
	contentType := strings.ToLower(resp.ContentType)

	switch {
	case strings.Contains(contentType, "application/json"):
		payload, err := parseJSON(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("%w from %s: %w", ErrDecode, resp.URL, err)
		}
		return payload, nil
	case strings.Contains(contentType, "text/html"):
		return d.fromHTML(resp)
	default:
		d.logger.Debug("unsupported content type, no payload",
			zap.String("url", resp.URL), zap.String("content_type", resp.ContentType))
		return nil, nil
	}
}

func (d *Decoder) fromHTML(resp *entity.RawResponse) (Payload, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(resp.Body))
	if err != nil {
		return nil, fmt.Errorf("parse html from %s: %w", resp.URL, err)
	}

	script := doc.Find(embeddedJSONSelector).First()
	if script.Length() == 0 {
		d.logger.Debug("no embedded JSON script", zap.String("url", resp.URL))
		return nil, nil
	}

	payload, err := parseJSON([]byte(script.Text()))
	if err != nil {
		// Broken embedded data is treated like a page without data.
		d.logger.Debug("embedded JSON script is malformed", zap.String("url", resp.URL), zap.Error(err))
		return nil, nil
	}
	return payload, nil
}

// parseJSON decodes exactly one JSON object, keeping numbers as their literal text.
func parseJSON(body []byte) (Payload, error) {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()

	var payload Payload
	if err := dec.Decode(&payload); err != nil {
		return nil, err
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return payload, nil
}
