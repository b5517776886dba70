package trip

import (
	"bytes"
	"encoding/json"
)

// Text is a free-form request field. It accepts any JSON value and keeps its
// text: strings lose their quotes, other values keep their literal form.
// null and absent both decode to "".
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case len(b) == 0 || bytes.Equal(b, []byte("null")):
		*t = ""
	case b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
	default:
		var buf bytes.Buffer
		if err := json.Compact(&buf, b); err != nil {
			return err
		}
		*t = Text(buf.String())
	}
	return nil
}

// List is a list request field that also accepts a single value, which
// becomes a one-element list. Elements decode like Text.
type List []string

func (l *List) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*l = nil
		return nil
	}
	if b[0] != '[' {
		var t Text
		if err := t.UnmarshalJSON(b); err != nil {
			return err
		}
		*l = List{string(t)}
		return nil
	}

	var items []Text
	if err := json.Unmarshal(b, &items); err != nil {
		return err
	}
	out := make(List, len(items))
	for i, it := range items {
		out[i] = string(it)
	}
	*l = out
	return nil
}
