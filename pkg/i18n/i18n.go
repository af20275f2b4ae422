package i18n

import "strings"

// Language selects which localized string variant is served to the user.
type Language string

const (
	Chinese Language = "zh"
	English Language = "en"
)

// Normalize maps arbitrary input to a supported language, defaulting to Chinese.
func Normalize(value string) Language {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "en", "en-us", "en-gb":
		return English
	default:
		return Chinese
	}
}

// T picks the variant matching the language.
func T(lang Language, zh, en string) string {
	if lang == English {
		return en
	}
	return zh
}
