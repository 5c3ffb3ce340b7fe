// Package plant holds the typed view of plant.id identification and
// health-assessment payloads. Every optional field is decoded leniently:
// a value of an unexpected shape is dropped instead of failing the decode.
package plant

// Identification is the /identification response.
type Identification struct {
	AccessToken string               `json:"access_token"`
	Status      string               `json:"status"`
	Input       Input                `json:"input"`
	Result      IdentificationResult `json:"result"`
}

type Input struct {
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Images    []string `json:"images,omitempty"`
}

type IdentificationResult struct {
	IsPlant        *Binary        `json:"is_plant,omitempty"`
	Classification Classification `json:"classification"`
}

type Classification struct {
	Suggestions []Suggestion `json:"suggestions"`
}

// Binary is a yes/no verdict with its probability.
type Binary struct {
	Binary      bool    `json:"binary"`
	Probability float64 `json:"probability"`
	Threshold   float64 `json:"threshold,omitempty"`
}

// Suggestion is one classification outcome.
type Suggestion struct {
	ID            string         `json:"id"`
	Name          string         `json:"name"`
	Probability   float64        `json:"probability"`
	Details       *Details       `json:"details,omitempty"`
	SimilarImages []SimilarImage `json:"similar_images,omitempty"`
}

// Details is the optional attribute bag requested through the details query parameter.
type Details struct {
	CommonNames          TextList       `json:"common_names"`
	URL                  string         `json:"url"`
	Description          Text           `json:"description"`
	Taxonomy             *Taxonomy      `json:"taxonomy"`
	Synonyms             TextList       `json:"synonyms"`
	Watering             *Watering      `json:"watering"`
	BestWatering         Text           `json:"best_watering"`
	BestLightCondition   Text           `json:"best_light_condition"`
	BestSoilType         Text           `json:"best_soil_type"`
	Toxicity             Text           `json:"toxicity"`
	CommonUses           Text           `json:"common_uses"`
	CulturalSignificance Text           `json:"cultural_significance"`
	EdibleParts          Text           `json:"edible_parts"`
	PropagationMethods   Text           `json:"propagation_methods"`
	SimilarImages        []SimilarImage `json:"similar_images,omitempty"`
}

// Taxonomy ranks in display order.
type Taxonomy struct {
	Kingdom string `json:"kingdom"`
	Phylum  string `json:"phylum"`
	Class   string `json:"class"`
	Order   string `json:"order"`
	Family  string `json:"family"`
	Genus   string `json:"genus"`
}

// Watering is the recommended weekly watering range.
type Watering struct {
	Min Bound `json:"min"`
	Max Bound `json:"max"`
}

type SimilarImage struct {
	ID          string  `json:"id"`
	URL         string  `json:"url"`
	URLSmall    string  `json:"url_small"`
	Similarity  float64 `json:"similarity"`
	LicenseName string  `json:"license_name,omitempty"`
	LicenseURL  string  `json:"license_url,omitempty"`
	Citation    string  `json:"citation,omitempty"`
}

// HealthAssessment is the /health_assessment response.
type HealthAssessment struct {
	AccessToken string        `json:"access_token"`
	Status      string        `json:"status"`
	Result      *HealthResult `json:"result"`
}

type HealthResult struct {
	IsPlant   *Binary  `json:"is_plant"`
	IsHealthy *Binary  `json:"is_healthy"`
	Disease   *Disease `json:"disease"`
}

type Disease struct {
	Suggestions []DiseaseSuggestion `json:"suggestions"`
	Question    *Question           `json:"question,omitempty"`
}

type DiseaseSuggestion struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Probability float64         `json:"probability"`
	Details     *DiseaseDetails `json:"details,omitempty"`
}

type DiseaseDetails struct {
	LocalName   string `json:"local_name"`
	Description Text   `json:"description"`
}

// Question is the follow-up diagnostic question; Yes and No point into the suggestion list.
type Question struct {
	Text        string          `json:"text"`
	Translation string          `json:"translation,omitempty"`
	Options     QuestionOptions `json:"options"`
}

type QuestionOptions struct {
	Yes *QuestionOption `json:"yes,omitempty"`
	No  *QuestionOption `json:"no,omitempty"`
}

type QuestionOption struct {
	SuggestionIndex int    `json:"suggestion_index"`
	EntityID        string `json:"entity_id,omitempty"`
	Name            string `json:"name,omitempty"`
}
