package domain

import (
	"bytes"
	"encoding/json"
	"maps"
)

// Extra holds object keys the tree widget stores that are not modelled
// here. They are written back unchanged, so a save never strips them.
type Extra map[string]json.RawMessage

func (e Extra) Equal(other Extra) bool {
	return maps.EqualFunc(e, other, func(a, b json.RawMessage) bool {
		return bytes.Equal(a, b)
	})
}

// Clone copies the map. Values are never mutated in place.
func (e Extra) Clone() Extra {
	return maps.Clone(e)
}

// splitExtra returns the keys of the object in data that are not in known.
// Values are compacted so equal content compares byte-equal.
func splitExtra(data []byte, known ...string) (Extra, error) {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	for _, k := range known {
		delete(raw, k)
	}
	if len(raw) == 0 {
		return nil, nil
	}

	extra := make(Extra, len(raw))
	for k, v := range raw {
		var buf bytes.Buffer
		if err := json.Compact(&buf, v); err != nil {
			return nil, err
		}
		extra[k] = buf.Bytes()
	}
	return extra, nil
}

// withExtra merges extra keys into an encoded object. Modelled keys win.
func withExtra(encoded []byte, extra Extra) ([]byte, error) {
	if len(extra) == 0 {
		return encoded, nil
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &obj); err != nil {
		return nil, err
	}
	for k, v := range extra {
		if _, ok := obj[k]; !ok {
			obj[k] = v
		}
	}
	return json.Marshal(obj)
}

func isNull(data []byte) bool {
	return string(bytes.TrimSpace(data)) == "null"
}
