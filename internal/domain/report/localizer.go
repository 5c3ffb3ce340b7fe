package report

import (
	"context"
	"strconv"
	"strings"
	"unicode"
)

// Translator is the cached translation capability the builders depend on.
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

// localizer binds a translator to one request's language.
type localizer struct {
	ctx     context.Context
	tr      Translator
	lang    string
	literal string
}

// literalMode reports whether strings can be emitted verbatim.
func (l localizer) literalMode() bool {
	return l.lang == "" || l.lang == l.literal || l.tr == nil
}

// T translates a literal label or a free-text value.
func (l localizer) T(s string) string {
	if l.literalMode() {
		return s
	}
	return l.tr.Translate(l.ctx, s, l.lang)
}

// safeT is T falling back to s when translation itself faults.
func (l localizer) safeT(s string) (out string) {
	defer func() {
		if recover() != nil {
			out = s
		}
	}()
	return l.T(s)
}

func bold(s string) string   { return "<b>" + s + "</b>" }
func italic(s string) string { return "<i>" + s + "</i>" }

// formatPercent renders p in [0,1] with up to two decimals: 0.8 -> "80%",
// 0.1234 -> "12.34%".
func formatPercent(p float64) string {
	s := strconv.FormatFloat(p*100, 'f', 2, 64)
	s = strings.TrimRight(s, "0")
	s = strings.TrimSuffix(s, ".")
	return s + "%"
}

// capitalize upper-cases the first letter and lower-cases the rest.
func capitalize(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	r[0] = unicode.ToUpper(r[0])
	for i := 1; i < len(r); i++ {
		r[i] = unicode.ToLower(r[i])
	}
	return string(r)
}
