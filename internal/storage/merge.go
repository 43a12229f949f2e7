package storage

import (
	"encoding/json"
	"fmt"
	"sort"
)

// Encode marshals a record for storage. json.RawMessage passes through.
func Encode(data any) (json.RawMessage, error) {
	if raw, ok := data.(json.RawMessage); ok {
		return raw, nil
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return encoded, nil
}

// MergeFields applies a top-level patch to an encoded document. existing
// may be nil for a document that does not exist yet.
func MergeFields(existing json.RawMessage, fields map[string]any) (json.RawMessage, error) {
	doc := make(map[string]json.RawMessage)
	if len(existing) > 0 {
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("decode document for patch: %w", err)
		}
	}

	for key, value := range fields {
		if value == nil {
			delete(doc, key)
			continue
		}
		encoded, err := Encode(value)
		if err != nil {
			return nil, err
		}
		doc[key] = encoded
	}

	return json.Marshal(doc)
}

// SortDocuments orders documents by id
func SortDocuments(docs []Document) {
	sort.Slice(docs, func(i, j int) bool {
		return docs[i].ID < docs[j].ID
	})
}
