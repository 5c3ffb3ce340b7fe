package report

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"plantid-bot-go/internal/domain/plant"
	"plantid-bot-go/internal/platform/errors"
)

// maxDiseases is how many disease suggestions a health report lists.
const maxDiseases = 3

// HealthReportError is returned when a health payload cannot be rendered.
// Message is already localized for the user.
type HealthReportError struct {
	Message string
	Cause   error
}

func (e *HealthReportError) Error() string { return e.Message }

func (e *HealthReportError) Unwrap() error { return e.Cause }

// HealthReport renders a health assessment. treatment, when non-empty, is
// appended verbatim: it comes pre-localized from its generator.
func (b *Builder) HealthReport(ctx context.Context, h *plant.HealthAssessment, lang, treatment string) (out string, err error) {
	loc := b.localizer(ctx, lang)
	defer func() {
		if r := recover(); r != nil {
			out, err = "", b.healthError(loc, errors.New(errors.KindFormatting, "report.health", fmt.Sprint(r)))
		}
	}()

	if h == nil {
		return "", b.healthError(loc, errors.New(errors.KindFormatting, "report.health", "missing payload"))
	}
	// A missing result or is_plant verdict reads as "not a plant" with
	// probability 0.
	res := h.Result
	if res == nil || res.IsPlant == nil || !res.IsPlant.Binary {
		var p float64
		if res != nil && res.IsPlant != nil {
			p = res.IsPlant.Probability
		}
		return loc.T(fmt.Sprintf(msgNotPlant, formatPercent(1-p))), nil
	}

	healthy, healthP := true, 1.0
	if res.IsHealthy != nil {
		healthy, healthP = res.IsHealthy.Binary, res.IsHealthy.Probability
	}

	lines := []string{bold(loc.T(titleHealth)) + "\n"}
	if healthy {
		lines = append(lines, "✅ "+bold(loc.T(fmt.Sprintf(msgHealthy, formatPercent(healthP))))+"\n")
		return strings.Join(lines, "\n"), nil
	}
	lines = append(lines, "⚠️ "+bold(loc.T(fmt.Sprintf(msgUnhealthy, formatPercent(healthP))))+"\n")

	var suggestions []plant.DiseaseSuggestion
	var question *plant.Question
	if res.Disease != nil {
		suggestions = res.Disease.Suggestions
		question = res.Disease.Question
	}

	lines = append(lines, bold(loc.T(titleIssues)))
	ranked := topDiseases(suggestions, maxDiseases)
	if len(ranked) == 0 {
		lines = append(lines, "— "+loc.T(msgNoIssues))
	}
	for i, s := range ranked {
		name := s.Name
		if strings.TrimSpace(name) == "" {
			name = unknownIssue
		}
		lines = append(lines, fmt.Sprintf("— %d. %s — %s", i+1, capitalize(loc.T(name)), bold(formatPercent(s.Probability))))
	}

	lines = append(lines, questionLines(loc, question, suggestions)...)

	if t := strings.TrimSpace(treatment); t != "" {
		lines = append(lines, "\n"+bold(loc.T(titleTreatment)), t)
	}

	lines = append(lines, "\n"+loc.T(noteLicense))
	return strings.Join(lines, "\n"), nil
}

// HealthReportJSON decodes payload and renders it like HealthReport.
func (b *Builder) HealthReportJSON(ctx context.Context, payload []byte, lang, treatment string) (string, error) {
	h, err := plant.DecodeHealth(payload)
	if err != nil {
		return "", b.healthError(b.localizer(ctx, lang), err)
	}
	return b.HealthReport(ctx, h, lang, treatment)
}

// LikelyDiseases names the diseases a health report would list, most
// probable first. It is empty for healthy plants and non-plants.
func LikelyDiseases(h *plant.HealthAssessment) []string {
	if h == nil || h.Result == nil || h.Result.Disease == nil {
		return nil
	}
	res := h.Result
	if res.IsPlant == nil || !res.IsPlant.Binary || res.IsHealthy == nil || res.IsHealthy.Binary {
		return nil
	}
	var names []string
	for _, s := range topDiseases(res.Disease.Suggestions, maxDiseases) {
		if name := strings.TrimSpace(s.Name); name != "" {
			names = append(names, name)
		}
	}
	return names
}

// topDiseases returns the n most probable suggestions; ties keep API order.
func topDiseases(in []plant.DiseaseSuggestion, n int) []plant.DiseaseSuggestion {
	ranked := append([]plant.DiseaseSuggestion(nil), in...)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Probability > ranked[j].Probability
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

// questionLines renders the diagnostic question. Option indices point
// into the suggestion list as the API sent it.
func questionLines(loc localizer, q *plant.Question, suggestions []plant.DiseaseSuggestion) []string {
	if q == nil || strings.TrimSpace(q.Text) == "" {
		return nil
	}
	lines := []string{
		"\n" + bold(loc.T(titleQuestion)),
		"— " + loc.T(q.Text),
	}
	yes, no := q.Options.Yes, q.Options.No
	if yes == nil || no == nil {
		return lines
	}
	issue := func(idx int) string {
		if idx < 0 || idx >= len(suggestions) || strings.TrimSpace(suggestions[idx].Name) == "" {
			return loc.T(genericIssue)
		}
		return loc.T(suggestions[idx].Name)
	}
	return append(lines,
		fmt.Sprintf("   • %s: %s", loc.T(labelYes), italic(issue(yes.SuggestionIndex))),
		fmt.Sprintf("   • %s: %s", loc.T(labelNo), italic(issue(no.SuggestionIndex))),
	)
}

func (b *Builder) healthError(loc localizer, cause error) *HealthReportError {
	b.logger.Error("health report failed: %v", cause)
	return &HealthReportError{
		Message: loc.safeT(fmt.Sprintf(msgCriticalFormat, cause.Error())),
		Cause:   cause,
	}
}
