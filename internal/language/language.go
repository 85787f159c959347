package language

import (
	"fmt"
	"strings"

	xlanguage "golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Bibliographic ISO 639-2 codes and English names that x/text does not parse
// as language tags.
var aliases = map[string]string{
	"fre":        "fr",
	"ger":        "de",
	"dut":        "nl",
	"chi":        "zh",
	"english":    "en",
	"french":     "fr",
	"spanish":    "es",
	"german":     "de",
	"italian":    "it",
	"portuguese": "pt",
	"japanese":   "ja",
	"korean":     "ko",
	"chinese":    "zh",
	"russian":    "ru",
	"arabic":     "ar",
	"hindi":      "hi",
	"dutch":      "nl",
	"polish":     "pl",
	"swedish":    "sv",
	"danish":     "da",
	"norwegian":  "no",
	"finnish":    "fi",
}

func parseBase(code string) (xlanguage.Base, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return xlanguage.Base{}, fmt.Errorf("empty language code")
	}
	if alias, ok := aliases[code]; ok {
		code = alias
	}
	tag, err := xlanguage.Parse(code)
	if err != nil {
		return xlanguage.Base{}, fmt.Errorf("unrecognized language %q: %w", code, err)
	}
	base, confidence := tag.Base()
	if confidence == xlanguage.No || base.String() == "und" {
		return xlanguage.Base{}, fmt.Errorf("unrecognized language %q", code)
	}
	return base, nil
}

// Normalize converts a language code, BCP 47 tag or English language name to
// the short code speech recognizers expect (ISO 639-1 when one exists).
func Normalize(code string) (string, error) {
	base, err := parseBase(code)
	if err != nil {
		return "", err
	}
	return base.String(), nil
}

// ToISO2 converts any recognized language code or word to ISO 639-1 (2-letter).
// Returns empty string for unrecognized input or languages without a 2-letter code.
func ToISO2(code string) string {
	normalized, err := Normalize(code)
	if err != nil || len(normalized) != 2 {
		return ""
	}
	return normalized
}

// ToISO3 converts any recognized language code to ISO 639-2 (3-letter).
// Returns "und" for unrecognized input.
func ToISO3(code string) string {
	base, err := parseBase(code)
	if err != nil {
		return "und"
	}
	return base.ISO3()
}

// DisplayName returns the English name of a recognized language.
// Returns "Unknown" for empty input, or the uppercased code for unrecognized input.
func DisplayName(code string) string {
	if strings.TrimSpace(code) == "" {
		return "Unknown"
	}
	base, err := parseBase(code)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	tag, err := xlanguage.Compose(base)
	if err != nil {
		return strings.ToUpper(strings.TrimSpace(code))
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(base.String())
}
