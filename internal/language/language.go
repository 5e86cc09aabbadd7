package language

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Undetermined is the ISO 639-2 code for an unknown language.
const Undetermined = "und"

// bibliographic maps ISO 639-2/T codes to the /B forms Matroska tooling
// historically writes.
var bibliographic = map[string]string{
	"bod": "tib",
	"ces": "cze",
	"cym": "wel",
	"deu": "ger",
	"ell": "gre",
	"eus": "baq",
	"fas": "per",
	"fra": "fre",
	"hye": "arm",
	"isl": "ice",
	"kat": "geo",
	"mkd": "mac",
	"mri": "mao",
	"msa": "may",
	"mya": "bur",
	"nld": "dut",
	"ron": "rum",
	"slk": "slo",
	"sqi": "alb",
	"zho": "chi",
}

var (
	terminologic = make(map[string]string, len(bibliographic))
	byName       = map[string]language.Tag{}
)

// named lists the languages accepted by English name.
var named = []language.Tag{
	language.English, language.Spanish, language.French, language.German,
	language.Italian, language.Portuguese, language.Japanese, language.Korean,
	language.Chinese, language.Russian, language.Arabic, language.Hindi,
	language.Dutch, language.Polish, language.Swedish, language.Danish,
	language.Norwegian, language.Finnish,
}

func init() {
	for t, b := range bibliographic {
		terminologic[b] = t
	}
	names := display.English.Languages()
	for _, tag := range named {
		byName[strings.ToLower(names.Name(tag))] = tag
	}
}

// Parse resolves value into a language tag. It reports false for empty or
// unrecognized input.
func Parse(value string) (language.Tag, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return language.Und, false
	}
	if t, ok := terminologic[value]; ok {
		value = t
	}
	if tag, err := language.Parse(value); err == nil && tag != language.Und {
		return tag, true
	}
	if tag, ok := byName[value]; ok {
		return tag, true
	}
	return language.Und, false
}

// ToISO3 returns the ISO 639-2 code for value, preferring the bibliographic
// form when one exists. Unknown input yields Undetermined.
func ToISO3(value string) string {
	tag, ok := Parse(value)
	if !ok {
		return Undetermined
	}
	base, _ := tag.Base()
	code := base.ISO3()
	if b, ok := bibliographic[code]; ok {
		return b
	}
	if code == "" {
		return Undetermined
	}
	return code
}

// ToBCP47 returns the canonical BCP 47 tag for value, or "und".
func ToBCP47(value string) string {
	tag, ok := Parse(value)
	if !ok {
		return Undetermined
	}
	return tag.String()
}

// DisplayName returns the English name for value, or "Unknown".
func DisplayName(value string) string {
	tag, ok := Parse(value)
	if !ok {
		return "Unknown"
	}
	if name := display.English.Languages().Name(tag); name != "" {
		return name
	}
	return strings.ToUpper(strings.TrimSpace(value))
}
