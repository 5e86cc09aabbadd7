package metadata

import (
	"bytes"
	"encoding/binary"
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"chaptermux/internal/chapters"
)

const matroskaHeader = `<?xml version="1.0" encoding="UTF-8"?>` + "\n" +
	`<!DOCTYPE Chapters SYSTEM "matroskachapters.dtd">` + "\n"

// uidNamespace seeds the name-based UUIDs that become chapter UIDs.
var uidNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("chaptermux/matroska-chapters"))

type displayLanguage struct {
	iso639 string
	ietf   string
}

type matroskaChapters struct {
	XMLName  xml.Name          `xml:"Chapters"`
	Editions []matroskaEdition `xml:"EditionEntry"`
}

type matroskaEdition struct {
	UID     uint64         `xml:"EditionUID"`
	Default int            `xml:"EditionFlagDefault"`
	Atoms   []matroskaAtom `xml:"ChapterAtom"`
}

type matroskaAtom struct {
	UID       uint64          `xml:"ChapterUID"`
	TimeStart nanoTime        `xml:"ChapterTimeStart"`
	Display   matroskaDisplay `xml:"ChapterDisplay"`
}

type matroskaDisplay struct {
	String       string `xml:"ChapterString"`
	Language     string `xml:"ChapterLanguage"`
	LanguageIETF string `xml:"ChapLanguageIETF,omitempty"`
}

// nanoTime is a chapter start written as HH:MM:SS.nnnnnnnnn, the text form
// of Matroska's nanosecond timestamps.
type nanoTime time.Duration

func (t nanoTime) MarshalText() ([]byte, error) {
	return []byte(clockTime(time.Duration(t), 9)), nil
}

func (t *nanoTime) UnmarshalText(text []byte) error {
	clock, frac, _ := strings.Cut(string(text), ".")
	fields := strings.Split(clock, ":")
	if len(fields) != 3 || len(frac) > 9 {
		return fmt.Errorf("parse chapter time %q: expected HH:MM:SS.nnnnnnnnn", text)
	}
	var total time.Duration
	for i, unit := range []time.Duration{time.Hour, time.Minute, time.Second} {
		n, err := strconv.ParseInt(fields[i], 10, 64)
		if err != nil {
			return fmt.Errorf("parse chapter time %q: %w", text, err)
		}
		total += time.Duration(n) * unit
	}
	if frac != "" {
		frac += strings.Repeat("0", 9-len(frac))
		n, err := strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return fmt.Errorf("parse chapter time %q: %w", text, err)
		}
		total += time.Duration(n)
	}
	*t = nanoTime(total)
	return nil
}

func renderMatroskaXML(list chapters.List, lang displayLanguage) ([]byte, error) {
	edition := matroskaEdition{
		Default: 1,
		Atoms:   make([]matroskaAtom, 0, len(list)),
	}
	var seed bytes.Buffer
	for i, ch := range list {
		key := fmt.Sprintf("%d\x00%d\x00%s", i, int64(ch.Start), ch.Title)
		seed.WriteString(key)
		edition.Atoms = append(edition.Atoms, matroskaAtom{
			UID:       uidFor(key),
			TimeStart: nanoTime(ch.Start),
			Display: matroskaDisplay{
				String:       ch.Title,
				Language:     lang.iso639,
				LanguageIETF: lang.ietf,
			},
		})
	}
	edition.UID = uidFor("edition\x00" + seed.String())

	body, err := xml.MarshalIndent(matroskaChapters{Editions: []matroskaEdition{edition}}, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode matroska chapters: %w", err)
	}

	out := make([]byte, 0, len(matroskaHeader)+len(body)+1)
	out = append(out, matroskaHeader...)
	out = append(out, body...)
	out = append(out, '\n')
	return out, nil
}

// uidFor derives a stable non-zero 64-bit UID from key.
func uidFor(key string) uint64 {
	id := uuid.NewSHA1(uidNamespace, []byte(key))
	uid := binary.BigEndian.Uint64(id[:8])
	if uid == 0 {
		uid = 1
	}
	return uid
}
