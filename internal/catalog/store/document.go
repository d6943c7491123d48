// Package store persists the whole product catalog as one JSON document.
// Every backend reads and replaces the full collection; none of them keeps
// per-product records.
package store

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"

	"product-catalog/internal/catalog"
)

const documentIndent = "  "

// decoder turns a raw document into a collection. In lenient mode an
// undecodable document is logged and read as empty; strict mode reports it
// as ErrMalformedStore.
type decoder struct {
	strict bool
	logger *slog.Logger
	source string
}

func (d decoder) decode(data []byte) ([]catalog.Product, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []catalog.Product{}, nil
	}

	var items []catalog.Product
	if err := json.Unmarshal(data, &items); err != nil {
		if d.strict {
			return nil, fmt.Errorf("%w: %s: %v", catalog.ErrMalformedStore, d.source, err)
		}
		d.logger.Warn("catalog document is malformed, reading it as empty",
			"source", d.source,
			"error", err,
		)
		return []catalog.Product{}, nil
	}
	if items == nil {
		items = []catalog.Product{}
	}
	return items, nil
}

// readFailed applies the same leniency to documents that could not be read at all.
func (d decoder) readFailed(err error) ([]catalog.Product, error) {
	if d.strict {
		return nil, err
	}
	d.logger.Warn("catalog document is unreadable, reading it as empty",
		"source", d.source,
		"error", err,
	)
	return []catalog.Product{}, nil
}

func encode(items []catalog.Product) ([]byte, error) {
	if items == nil {
		items = []catalog.Product{}
	}
	data, err := json.MarshalIndent(items, "", documentIndent)
	if err != nil {
		return nil, fmt.Errorf("marshal catalog: %w", err)
	}
	return append(data, '\n'), nil
}
