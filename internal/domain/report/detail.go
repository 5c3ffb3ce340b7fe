package report

import (
	"context"
	"fmt"
	"strings"

	"plantid-bot-go/internal/domain/plant"
)

// DetailReport renders the top suggestion of an identification payload.
// It never fails: structural faults become a localized error string.
func (b *Builder) DetailReport(ctx context.Context, id *plant.Identification, lang string) (out string) {
	loc := b.localizer(ctx, lang)
	defer func() {
		if r := recover(); r != nil {
			b.logger.Error("detail report panic: %v", r)
			out = b.criticalFormatting(loc, fmt.Sprint(r))
		}
	}()

	if id == nil {
		return b.criticalFormatting(loc, "empty identification payload")
	}
	top, ok := id.Top()
	if !ok || top.Probability < b.minConfidence {
		return loc.T(msgCouldNotIdentify)
	}

	details := top.Details
	if details == nil {
		details = &plant.Details{}
	}
	f := fieldFormatter{loc: loc}

	lines := titleBlock(loc, top.Name, details.CommonNames)
	for _, group := range [][]string{
		f.taxonomy(details.Taxonomy),
		f.synonyms(details.Synonyms),
		f.care(details),
		f.usage(details),
		f.additional(details),
	} {
		if len(group) == 0 {
			continue
		}
		lines = append(lines, group...)
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

// DetailReportJSON decodes payload and renders it like DetailReport.
func (b *Builder) DetailReportJSON(ctx context.Context, payload []byte, lang string) string {
	id, err := plant.DecodeIdentification(payload)
	if err != nil {
		b.logger.Warn("detail payload rejected: %v", err)
		return b.criticalFormatting(b.localizer(ctx, lang), err.Error())
	}
	return b.DetailReport(ctx, id, lang)
}

// titleBlock is the header plus the untranslated latin name.
func titleBlock(loc localizer, latin string, commonNames []string) []string {
	var names string
	if len(commonNames) > 0 {
		translated := make([]string, len(commonNames))
		for i, name := range commonNames {
			translated[i] = loc.T(name)
		}
		names = strings.Join(translated, " / ")
	} else {
		names = loc.T(titlePlantInfo)
	}
	if latin == "" {
		latin = unknownPlant
	}
	title := strings.ReplaceAll(loc.T(titlePlant), "{name}", names)
	return []string{
		bold(title),
		bold(loc.T(labelLatinName)) + ": " + italic(latin) + "\n",
	}
}

func (b *Builder) criticalFormatting(loc localizer, msg string) string {
	return loc.safeT(fmt.Sprintf(msgCriticalFormat, msg))
}
