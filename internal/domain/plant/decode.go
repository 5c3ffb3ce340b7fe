package plant

import (
	"github.com/bytedance/sonic"

	"plantid-bot-go/internal/platform/errors"
)

// DecodeIdentification parses an identification payload.
func DecodeIdentification(data []byte) (*Identification, error) {
	var out Identification
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.KindFormatting, "plant.decode_identification", "malformed identification payload", err)
	}
	return &out, nil
}

// DecodeHealth parses a health-assessment payload.
func DecodeHealth(data []byte) (*HealthAssessment, error) {
	var out HealthAssessment
	if err := sonic.Unmarshal(data, &out); err != nil {
		return nil, errors.Wrap(errors.KindFormatting, "plant.decode_health", "malformed health payload", err)
	}
	return &out, nil
}

// Top returns the first classification suggestion.
func (i *Identification) Top() (Suggestion, bool) {
	if i == nil || len(i.Result.Classification.Suggestions) == 0 {
		return Suggestion{}, false
	}
	return i.Result.Classification.Suggestions[0], true
}

// CommonNames is a nil-safe accessor over Details.
func (s Suggestion) CommonNames() []string {
	if s.Details == nil {
		return nil
	}
	return s.Details.CommonNames
}

// Similar returns the similar images wherever the API placed them.
func (s Suggestion) Similar() []SimilarImage {
	if len(s.SimilarImages) > 0 {
		return s.SimilarImages
	}
	if s.Details != nil {
		return s.Details.SimilarImages
	}
	return nil
}

// PreferredURL picks the thumbnail when available.
func (img SimilarImage) PreferredURL() string {
	if img.URLSmall != "" {
		return img.URLSmall
	}
	return img.URL
}
