package metadata

import (
	"fmt"

	"chaptermux/internal/chapters"
	"chaptermux/internal/container"
	"chaptermux/internal/language"
)

// Formatter carries the rendering settings shared by every syntax. The zero
// value writes English Matroska chapter displays.
type Formatter struct {
	// Language is any code or name the language package understands.
	Language string
}

// Format renders list for the given container family.
func Format(list chapters.List, kind container.Kind) (Blob, error) {
	return Formatter{}.Format(list, kind)
}

// Format renders list for the given container family. It only fails for a
// kind outside the two supported families.
func (f Formatter) Format(list chapters.List, kind container.Kind) (Blob, error) {
	switch kind {
	case container.QuickTime:
		return Blob{Syntax: SyntaxOGM, Data: renderOGM(list)}, nil
	case container.Matroska:
		data, err := renderMatroskaXML(list, f.matroskaLanguage())
		if err != nil {
			return Blob{}, err
		}
		return Blob{Syntax: SyntaxMatroskaXML, Data: data}, nil
	default:
		return Blob{}, fmt.Errorf("format chapters: %w: %s", container.ErrUnsupported, kind)
	}
}

func (f Formatter) matroskaLanguage() displayLanguage {
	value := f.Language
	if value == "" {
		value = "en"
	}
	return displayLanguage{
		iso639: language.ToISO3(value),
		ietf:   language.ToBCP47(value),
	}
}
