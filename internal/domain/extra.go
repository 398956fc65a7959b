package domain

import (
	"bytes"
	"encoding/json"
	"slices"
)

// marshalWithExtra encodes known and adds every extra key that is not one of
// the modelled keys. With no extras the struct encoding is returned as is.
func marshalWithExtra(known any, extra map[string]json.RawMessage, keys []string) ([]byte, error) {
	b, err := json.Marshal(known)
	if err != nil || len(extra) == 0 {
		return b, err
	}

	var fields map[string]json.RawMessage
	if err := json.Unmarshal(b, &fields); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if slices.Contains(keys, k) {
			continue
		}
		fields[k] = v
	}
	return json.Marshal(fields)
}

// splitExtra returns the keys of the JSON object in data that are not listed
// in keys. It returns nil rather than an empty map when nothing is left over.
func splitExtra(data []byte, keys []string) (map[string]json.RawMessage, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, err
	}
	for _, k := range keys {
		delete(fields, k)
	}
	if len(fields) == 0 {
		return nil, nil
	}
	return fields, nil
}

func isNull(data []byte) bool {
	return bytes.Equal(bytes.TrimSpace(data), []byte("null"))
}
