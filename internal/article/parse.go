package article

import (
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ErrInvalidDocument is returned when an article does not match the schema.
var ErrInvalidDocument = errors.New("invalid article document")

//go:embed schema.json
var schemaJSON []byte

var schema = mustSchema(schemaJSON)

func mustSchema(data []byte) *gojsonschema.Schema {
	s, err := gojsonschema.NewSchema(gojsonschema.NewBytesLoader(data))
	if err != nil {
		panic(fmt.Sprintf("article schema: %v", err))
	}
	return s
}

// Parse validates data against the article schema and decodes it.
func Parse(data []byte) (*Document, error) {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: %s", ErrInvalidDocument, strings.Join(msgs, "; "))
	}

	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("decoding article: %w", err)
	}
	return &doc, nil
}

// TitleOf extracts the title of an article in lang without validating the
// rest of the document.
func TitleOf(data []byte, lang string) (string, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return "", fmt.Errorf("decoding article title: %w", err)
	}
	return localizedText(raw, "title").In(lang), nil
}
