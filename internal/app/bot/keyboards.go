package bot

import "strings"

// Keyboard identifies the menu shown under a reply.
type Keyboard string

const (
	KeyboardNone     Keyboard = ""
	KeyboardMain     Keyboard = "main"
	KeyboardLanguage Keyboard = "language"
)

// Button is one menu entry. Data is the callback payload for inline menus.
type Button struct {
	Text string `json:"text"`
	Data string `json:"data,omitempty"`
}

const (
	buttonLocation = "местоположение"
	buttonDetails  = "подробнее"
	buttonSimilar  = "похожие изображения"
	buttonHealth   = "тепловые карты и оценка тяжости симтомов"
	buttonHelp     = "помощь"
	buttonLanguage = "перевод"

	inputPlaceholder = "Ваш цветок"
)

var layouts = map[Keyboard][][]Button{
	KeyboardMain: {
		{{Text: buttonLocation}, {Text: buttonDetails}},
		{{Text: buttonSimilar}, {Text: buttonHealth}},
		{{Text: buttonHelp}},
		{{Text: buttonLanguage}},
	},
	KeyboardLanguage: {
		{{Text: "Русский", Data: "ru"}},
		{{Text: "English(original)", Data: "en"}},
	},
}

var buttonIntents = map[string]Intent{
	buttonLocation: IntentLocation,
	buttonDetails:  IntentDetails,
	buttonSimilar:  IntentSimilar,
	buttonHealth:   IntentHealth,
	buttonHelp:     IntentHelp,
	buttonLanguage: IntentLanguage,
	"/start":       IntentStart,
	"/help":        IntentHelp,
}

// Layout returns the button rows of k, nil for KeyboardNone.
func Layout(k Keyboard) [][]Button {
	return layouts[k]
}

// Placeholder is the input hint shown with the main keyboard.
func Placeholder(k Keyboard) string {
	if k == KeyboardMain {
		return inputPlaceholder
	}
	return ""
}

// IntentForText maps a pressed reply button or command to its intent.
func IntentForText(text string) (Intent, bool) {
	in, ok := buttonIntents[strings.ToLower(strings.TrimSpace(text))]
	return in, ok
}
