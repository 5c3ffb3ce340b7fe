package report

import (
	"fmt"
	"strings"

	"plantid-bot-go/internal/domain/plant"
)

type layout int

const (
	// inline renders "<b>label</b>: value".
	inline layout = iota
	// block renders "<b>label</b>\n— value".
	block
)

// fieldRule describes how one free-text attribute is rendered.
type fieldRule struct {
	label string
	value func(*plant.Details) plant.Text
	// placeholder, when set, is rendered instead of omitting an empty value.
	placeholder string
	layout      layout
}

var careRules = []fieldRule{
	{label: labelLight, layout: block, value: func(d *plant.Details) plant.Text { return d.BestLightCondition }},
	{label: labelSoil, layout: block, value: func(d *plant.Details) plant.Text { return d.BestSoilType }},
}

var usageRules = []fieldRule{
	{label: labelToxicity, layout: block, value: func(d *plant.Details) plant.Text { return d.Toxicity }},
	{label: labelUses, layout: block, value: func(d *plant.Details) plant.Text { return d.CommonUses }},
	{label: labelCulture, layout: block, value: func(d *plant.Details) plant.Text { return d.CulturalSignificance }},
}

var additionalRules = []fieldRule{
	{label: labelEdible, layout: inline, placeholder: placeholderNone, value: func(d *plant.Details) plant.Text { return d.EdibleParts }},
	{label: labelPropagation, layout: inline, placeholder: placeholderNoData, value: func(d *plant.Details) plant.Text { return d.PropagationMethods }},
}

var taxonomyRanks = []struct {
	label string
	value func(*plant.Taxonomy) string
}{
	{"Царство", func(t *plant.Taxonomy) string { return t.Kingdom }},
	{"Отдел", func(t *plant.Taxonomy) string { return t.Phylum }},
	{"Класс", func(t *plant.Taxonomy) string { return t.Class }},
	{"Порядок", func(t *plant.Taxonomy) string { return t.Order }},
	{"Семейство", func(t *plant.Taxonomy) string { return t.Family }},
	{"Род", func(t *plant.Taxonomy) string { return t.Genus }},
}

// fieldFormatter turns one attribute group into markup lines.
type fieldFormatter struct {
	loc localizer
}

// rule renders a single attribute; ok is false when the group is omitted.
func (f fieldFormatter) rule(r fieldRule, d *plant.Details) (string, bool) {
	value := r.value(d).String()
	if value == "" {
		if r.placeholder == "" {
			return "", false
		}
		value = r.placeholder
	}
	label := bold(f.loc.T(r.label))
	value = f.loc.T(value)
	if r.layout == block {
		return label + "\n— " + value, true
	}
	return label + ": " + value, true
}

// taxonomy renders the header and one line per known rank. Rank values
// are proper nouns and stay untranslated.
func (f fieldFormatter) taxonomy(t *plant.Taxonomy) []string {
	if t.Empty() {
		return nil
	}
	lines := []string{bold(f.loc.T(titleTaxonomy))}
	for _, rank := range taxonomyRanks {
		if v := strings.TrimSpace(rank.value(t)); v != "" {
			lines = append(lines, bold(f.loc.T(rank.label))+": "+v)
		}
	}
	return lines
}

func (f fieldFormatter) synonyms(names []string) []string {
	if len(names) == 0 {
		return nil
	}
	lines := []string{bold(f.loc.T(titleSynonyms))}
	for _, name := range names {
		lines = append(lines, italic(f.loc.T(name)))
	}
	return lines
}

// wateringFrequency renders the weekly range. ok is false unless both
// bounds are present and numeric.
func (f fieldFormatter) wateringFrequency(w *plant.Watering) (string, bool) {
	if w == nil {
		return "", false
	}
	lo, okLo := w.Min.Float()
	hi, okHi := w.Max.Float()
	if !okLo || !okHi {
		return "", false
	}

	var freq string
	if lo == hi {
		suffix := ""
		if lo >= 2 && lo <= 4 {
			suffix = "а"
		}
		freq = fmt.Sprintf(timesWeekly, int(lo), suffix)
	} else {
		freq = fmt.Sprintf(timesWeeklyRange, int(lo), int(hi))
	}
	return bold(f.loc.T(labelFrequency)) + ": " + f.loc.T(freq), true
}

// watering merges the frequency line and the free-text recommendation.
func (f fieldFormatter) watering(d *plant.Details) (string, bool) {
	var lines []string
	if line, ok := f.wateringFrequency(d.Watering); ok {
		lines = append(lines, line)
	}
	if rec := d.BestWatering.String(); rec != "" {
		lines = append(lines, bold(f.loc.T(labelRecommended))+": "+f.loc.T(rec))
	}
	if len(lines) == 0 {
		return "", false
	}
	return bold(f.loc.T(sectionWatering)) + "\n" + strings.Join(lines, "\n"), true
}

// care merges watering, light and soil under one header.
func (f fieldFormatter) care(d *plant.Details) []string {
	var sections []string
	if s, ok := f.watering(d); ok {
		sections = append(sections, s)
	}
	sections = append(sections, f.rules(careRules, d)...)
	return f.group(titleCare, sections)
}

func (f fieldFormatter) usage(d *plant.Details) []string {
	return f.group(titleUsage, f.rules(usageRules, d))
}

// additional always renders since both of its rules carry placeholders.
func (f fieldFormatter) additional(d *plant.Details) []string {
	return f.group(titleAdditional, f.rules(additionalRules, d))
}

func (f fieldFormatter) rules(rules []fieldRule, d *plant.Details) []string {
	var out []string
	for _, r := range rules {
		if s, ok := f.rule(r, d); ok {
			out = append(out, s)
		}
	}
	return out
}

func (f fieldFormatter) group(title string, sections []string) []string {
	if len(sections) == 0 {
		return nil
	}
	return append([]string{bold(f.loc.T(title))}, sections...)
}
