package render

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"pagebuilder/internal/domain"
)

var (
	ErrParse    = errors.New("failed to parse JSON")
	ErrNotArray = errors.New("invalid JSON format: expected an array of components")
)

// JSON renders the document as 2-space indented JSON. It is the exact
// dual of ParseJSON.
func JSON(doc domain.Document) (string, error) {
	if doc == nil {
		doc = domain.Document{}
	}
	data, err := domain.EncodeJSON(doc, "  ")
	if err != nil {
		return "", fmt.Errorf("encode document: %w", err)
	}
	return string(data), nil
}

// ParseJSON decodes a document. Only a top-level array of objects is
// accepted; any other shape is rejected as a whole with ErrNotArray, and
// ErrParse is reserved for text that is not JSON at all.
func ParseJSON(text string) (domain.Document, error) {
	trimmed := bytes.TrimSpace([]byte(text))
	if !json.Valid(trimmed) {
		return nil, ErrParse
	}
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, ErrNotArray
	}
	doc := domain.Document{}
	if err := json.Unmarshal(trimmed, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotArray, err)
	}
	return doc, nil
}
