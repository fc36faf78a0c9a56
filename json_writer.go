package costbasis

import (
	"bytes"
	"fmt"
	"reflect"

	"github.com/goccy/go-json"
)

// jsonObjectWriter builds the JSON form of events, snapshots and money with
// keys in a fixed order, so that JSONL output diffs line by line. The first
// failure is kept and returned by MarshalJSON. The zero value is an empty
// object.
type jsonObjectWriter struct {
	body bytes.Buffer // members, comma separated, without braces
	err  error
}

// member writes one raw `"key":value` or a list of members.
func (w *jsonObjectWriter) member(raw []byte) {
	if w.body.Len() > 0 {
		w.body.WriteByte(',')
	}
	w.body.Write(raw)
}

// Append writes key with the JSON encoding of value.
func (w *jsonObjectWriter) Append(key string, value any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(value)
	if err != nil {
		w.err = fmt.Errorf("cannot encode %q: %w", key, err)
		return w
	}
	name, _ := json.Marshal(key)
	w.member(append(append(name, ':'), data...))
	return w
}

// Optional is Append, skipped when value is the zero value of its type:
// an empty id, a never-set date.
func (w *jsonObjectWriter) Optional(key string, value any) *jsonObjectWriter {
	if v := reflect.ValueOf(value); !v.IsValid() || v.IsZero() {
		return w
	}
	return w.Append(key, value)
}

// Embed merges the members of a JSON object into w. An empty object adds
// nothing.
func (w *jsonObjectWriter) Embed(object []byte) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	members := bytes.TrimSpace(object)
	members = bytes.TrimPrefix(members, []byte("{"))
	members = bytes.TrimSuffix(members, []byte("}"))
	if members = bytes.TrimSpace(members); len(members) > 0 {
		w.member(members)
	}
	return w
}

// EmbedFrom merges the members of v, typically a struct of omitempty
// metadata fields.
func (w *jsonObjectWriter) EmbedFrom(v any) *jsonObjectWriter {
	if w.err != nil {
		return w
	}
	data, err := json.Marshal(v)
	if err != nil {
		w.err = fmt.Errorf("cannot encode embedded %T: %w", v, err)
		return w
	}
	return w.Embed(data)
}

// MarshalJSON returns the object.
func (w *jsonObjectWriter) MarshalJSON() ([]byte, error) {
	if w.err != nil {
		return nil, w.err
	}
	out := make([]byte, 0, w.body.Len()+2)
	out = append(out, '{')
	out = append(out, w.body.Bytes()...)
	return append(out, '}'), nil
}
