package cache

import (
	"encoding/json"
	"sort"
	"strings"
)

// Key builds the canonical cache key for a named read and its parameters.
// With no params the key is just the name; otherwise it is
// "name:{...}" with the JSON object keys sorted, so the key is independent
// of the insertion order of params.
func Key(name string, params map[string]any) string {
	if len(params) == 0 {
		return name
	}

	names := make([]string, 0, len(params))
	for k := range params {
		names = append(names, k)
	}
	sort.Strings(names)

	var b strings.Builder
	b.WriteString(name)
	b.WriteString(":{")
	for i, k := range names {
		if i > 0 {
			b.WriteByte(',')
		}
		kb, _ := json.Marshal(k)
		b.Write(kb)
		b.WriteByte(':')
		vb, err := json.Marshal(params[k])
		if err != nil {
			// Unencodable values still need a stable representation.
			vb = []byte(`null`)
		}
		b.Write(vb)
	}
	b.WriteString("}")
	return b.String()
}
