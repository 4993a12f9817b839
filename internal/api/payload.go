package api

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is a single decoded document plus anything that had to be patched
// up to decode it.
type Document[T any] struct {
	Data     *T
	Warnings []string
}

// List is a decoded collection plus decode warnings.
type List[T any] struct {
	Items    []T
	Warnings []string
}

// arrayKeys are the embedded collections that must be JSON arrays.
var arrayKeys = []string{"lines", "applications"}

// sanitize replaces a non-array "lines" or "applications" value with [] so a
// malformed payload decodes as an empty collection instead of failing.
func sanitize(raw json.RawMessage) (json.RawMessage, []string, error) {
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(raw, &obj); err != nil {
		return nil, nil, err
	}
	var warnings []string
	changed := false
	for _, key := range arrayKeys {
		v, ok := obj[key]
		if !ok {
			continue
		}
		trimmed := bytes.TrimSpace(v)
		if len(trimmed) > 0 && trimmed[0] == '[' {
			continue
		}
		if bytes.Equal(trimmed, []byte("null")) {
			obj[key] = json.RawMessage("[]")
			changed = true
			continue
		}
		warnings = append(warnings, fmt.Sprintf("%s is not an array; treated as empty", key))
		obj[key] = json.RawMessage("[]")
		changed = true
	}
	if !changed {
		return raw, nil, nil
	}
	out, err := json.Marshal(obj)
	if err != nil {
		return nil, nil, err
	}
	return out, warnings, nil
}

func decodeDocument[T any](payload []byte) (*Document[T], error) {
	clean, warnings, err := sanitize(payload)
	if err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	var v T
	if err := json.Unmarshal(clean, &v); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return &Document[T]{Data: &v, Warnings: warnings}, nil
}

func decodeList[T any](payload []byte) (*List[T], error) {
	var raws []json.RawMessage
	if err := json.Unmarshal(payload, &raws); err != nil {
		return nil, fmt.Errorf("decode list: %w", err)
	}
	list := &List[T]{Items: make([]T, 0, len(raws))}
	for i, raw := range raws {
		clean, warnings, err := sanitize(raw)
		if err != nil {
			return nil, fmt.Errorf("decode list item %d: %w", i, err)
		}
		var v T
		if err := json.Unmarshal(clean, &v); err != nil {
			return nil, fmt.Errorf("decode list item %d: %w", i, err)
		}
		for _, w := range warnings {
			list.Warnings = append(list.Warnings, fmt.Sprintf("item %d: %s", i, w))
		}
		list.Items = append(list.Items, v)
	}
	return list, nil
}
