package eventbus

// Event topics.
const (
	EventLanguageChanged = "session:language"
	EventLocationShared  = "session:location"
	EventPlantIdentified = "plant:identified"
	EventHealthAssessed  = "plant:health"
)

// Topics lists every topic the bot publishes.
var Topics = []string{
	EventLanguageChanged,
	EventLocationShared,
	EventPlantIdentified,
	EventHealthAssessed,
}

type LanguageChangedData struct {
	Language string `json:"language"`
}

type LocationSharedData struct {
	Longitude float64 `json:"longitude"`
	Latitude  float64 `json:"latitude"`
}

type PlantIdentifiedData struct {
	AccessToken string  `json:"access_token"`
	LatinName   string  `json:"latin_name"`
	PlantName   string  `json:"plant_name"`
	Probability float64 `json:"probability"`
	Identified  bool    `json:"identified"`
}

type HealthAssessedData struct {
	Plant    string   `json:"plant"`
	IsPlant  bool     `json:"is_plant"`
	Healthy  bool     `json:"healthy"`
	Diseases []string `json:"diseases,omitempty"`
}
