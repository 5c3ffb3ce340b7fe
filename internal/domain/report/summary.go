package report

import (
	"context"
	"fmt"
	"math"
	"strings"

	"plantid-bot-go/internal/domain/plant"
)

// NameResolver maps a latin name to a local one, e.g. via Wikipedia.
type NameResolver interface {
	LocalName(ctx context.Context, latin, lang string) string
}

// Summary is the short reply sent right after a photo is identified.
type Summary struct {
	Text       string
	Identified bool
	PlantName  string
	LatinName  string
	CommonName string
}

// IdentificationSummary renders the quick overview of the top suggestion.
// names is consulted only when the API returned no common name.
func (b *Builder) IdentificationSummary(ctx context.Context, id *plant.Identification, lang string, names NameResolver) Summary {
	loc := b.localizer(ctx, lang)
	top, ok := id.Top()
	if !ok || top.Probability < b.minConfidence {
		return Summary{Text: loc.T(msgCouldNotIdentify)}
	}

	common := top.CommonNames()
	display := ""
	if len(common) > 0 {
		display = common[0]
	} else if names != nil && top.Name != "" {
		display = names.LocalName(ctx, top.Name, lang)
	}
	if display == "" {
		display = top.Name
	}

	lines := []string{
		loc.T(labelLikely) + ": " + display,
		loc.T(labelScientific) + ": " + top.Name,
	}
	if len(common) > 0 {
		lines = append(lines, loc.T(labelOtherNames)+": "+strings.Join(common, ", "))
	}
	lines = append(lines, fmt.Sprintf("(%s: %d%%)", loc.T(labelProbability), int(math.Round(top.Probability*100))))

	if d := top.Details; d != nil {
		if desc := d.Description.String(); desc != "" {
			lines = append(lines, "\n"+loc.T(labelDescription)+": "+loc.T(desc))
		}
		if edible := d.EdibleParts.String(); edible != "" {
			lines = append(lines, loc.T(labelEdible)+": "+loc.T(edible))
		}
		if tox := d.Toxicity.String(); tox != "" {
			lines = append(lines, loc.T(labelToxicityLine)+": "+loc.T(tox))
		}
	}

	commonName := ""
	if len(common) > 0 {
		commonName = common[0]
	}
	return Summary{
		Text:       strings.Join(lines, "\n"),
		Identified: true,
		PlantName:  display,
		LatinName:  top.Name,
		CommonName: commonName,
	}
}
