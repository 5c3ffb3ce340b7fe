package plant

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

var nullLiteral = []byte("null")

// Text is a free-text attribute. The API sends plain strings, lists of
// strings or {"value": "..."} objects depending on the detail.
type Text string

func (t *Text) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		*t = ""
		return nil
	}

	var raw any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Text(textOf(raw))
	return nil
}

func (t Text) String() string { return strings.TrimSpace(string(t)) }

// Empty reports whether the attribute carries no visible text.
func (t Text) Empty() bool { return t.String() == "" }

func textOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			if s := textOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", ")
	case map[string]any:
		if inner, ok := val["value"]; ok {
			return textOf(inner)
		}
		return ""
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// TextList is a list of names; a bare string decodes as a single entry.
type TextList []string

func (l *TextList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		*l = nil
		return nil
	}

	var raw any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}

	var out []string
	switch val := raw.(type) {
	case string:
		if s := strings.TrimSpace(val); s != "" {
			out = []string{s}
		}
	case []any:
		for _, item := range val {
			if s, ok := item.(string); ok && strings.TrimSpace(s) != "" {
				out = append(out, strings.TrimSpace(s))
			}
		}
	}
	*l = out
	return nil
}

// Bound is one end of a numeric range. The raw token is kept so that
// callers decide what an unconvertible value means.
type Bound struct {
	raw string
	set bool
}

// NewBound builds a bound from a literal value, mainly for tests.
func NewBound(raw string) Bound {
	return Bound{raw: raw, set: true}
}

func (b *Bound) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, nullLiteral) {
		*b = Bound{}
		return nil
	}
	*b = Bound{raw: strings.Trim(string(data), `"`), set: true}
	return nil
}

// maxBound is the largest magnitude a bound may have; beyond it the
// value no longer converts to an exact integer.
const maxBound = 1 << 53

// Float converts the bound; ok is false when absent, not numeric, not
// finite or too large to render as an integer.
func (b Bound) Float() (float64, bool) {
	if !b.set {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(b.raw), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || math.Abs(f) > maxBound {
		return 0, false
	}
	return f, true
}

// objectOnly drops non-object payloads for optional nested structs.
func objectOnly(data []byte) bool {
	data = bytes.TrimSpace(data)
	return len(data) > 0 && data[0] == '{'
}

func (t *Taxonomy) UnmarshalJSON(data []byte) error {
	if !objectOnly(data) {
		*t = Taxonomy{}
		return nil
	}
	var raw map[string]any
	if err := sonic.Unmarshal(data, &raw); err != nil {
		return err
	}
	*t = Taxonomy{
		Kingdom: textOf(raw["kingdom"]),
		Phylum:  textOf(raw["phylum"]),
		Class:   textOf(raw["class"]),
		Order:   textOf(raw["order"]),
		Family:  textOf(raw["family"]),
		Genus:   textOf(raw["genus"]),
	}
	return nil
}

func (w *Watering) UnmarshalJSON(data []byte) error {
	if !objectOnly(data) {
		*w = Watering{}
		return nil
	}
	type plain Watering
	var p plain
	if err := sonic.Unmarshal(data, &p); err != nil {
		return err
	}
	*w = Watering(p)
	return nil
}

// Empty reports whether no rank is known.
func (t *Taxonomy) Empty() bool {
	return t == nil || *t == Taxonomy{}
}
