package metadata

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"chaptermux/internal/chapters"
)

var lineBreaks = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ")

// renderOGM writes OGM simple chapters:
//
//	CHAPTER01=00:01:23.000
//	CHAPTER01NAME=Setup
//
// Numbers are 1-based and at least two digits wide.
func renderOGM(list chapters.List) []byte {
	width := len(strconv.Itoa(len(list)))
	if width < 2 {
		width = 2
	}

	var buf bytes.Buffer
	for i, ch := range list {
		id := fmt.Sprintf("CHAPTER%0*d", width, i+1)
		fmt.Fprintf(&buf, "%s=%s\n", id, clockTime(ch.Start, 3))
		fmt.Fprintf(&buf, "%sNAME=%s\n", id, lineBreaks.Replace(ch.Title))
	}
	return buf.Bytes()
}
