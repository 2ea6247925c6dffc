// Package services orchestrates the shared-room domain on top of the
// document store: validation, singleton handling, rotation upkeep and
// change notifications after every successful write.
package services

import (
	"encoding/json"
	"fmt"

	"roomledger/internal/docstore"
)

func encodeDoc(v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return body, nil
}

func decodeDoc(body []byte, v any) error {
	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("decode document: %w", err)
	}
	return nil
}

// decodeAll decodes a listed collection into typed values, stamping each
// value with its document id through assign.
func decodeAll[T any](docs []docstore.Document, assign func(*T, string)) ([]T, error) {
	out := make([]T, 0, len(docs))
	for _, doc := range docs {
		var v T
		if err := decodeDoc(doc.Body, &v); err != nil {
			return nil, err
		}
		assign(&v, doc.ID)
		out = append(out, v)
	}
	return out, nil
}
