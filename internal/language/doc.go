// Package language normalizes the chapter language setting into the codes
// Matroska chapter files carry: an ISO 639-2 code for ChapterLanguage and a
// BCP 47 tag for ChapLanguageIETF.
//
// Input may be a two- or three-letter code, a BCP 47 tag, or an English
// language name. Parsing is delegated to golang.org/x/text/language; the
// package only adds the bibliographic code forms and name lookup on top.
package language
