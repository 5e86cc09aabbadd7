package metadata

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"chaptermux/internal/chapters"
)

var ffmetadataEscaper = strings.NewReplacer(
	`\`, `\\`,
	"=", `\=`,
	";", `\;`,
	"#", `\#`,
	"\n", `\n`,
	"\r", `\r`,
)

// FormatFFMetadata renders list as an FFmpeg metadata file with millisecond
// chapter ranges. Each chapter ends where the next starts; the last one ends
// at duration. A last chapter starting exactly at duration is written with
// START equal to END; ffmpeg keeps such zero-length chapters.
func FormatFFMetadata(list chapters.List, duration time.Duration) Blob {
	var buf bytes.Buffer
	buf.WriteString(";FFMETADATA1\n")
	for i, ch := range list {
		end := duration
		if i+1 < len(list) {
			end = list[i+1].Start
		}
		buf.WriteString("\n[CHAPTER]\n")
		buf.WriteString("TIMEBASE=1/1000\n")
		fmt.Fprintf(&buf, "START=%d\n", ch.Start.Milliseconds())
		fmt.Fprintf(&buf, "END=%d\n", end.Milliseconds())
		fmt.Fprintf(&buf, "title=%s\n", ffmetadataEscaper.Replace(ch.Title))
	}
	return Blob{Syntax: SyntaxFFMetadata, Data: buf.Bytes()}
}
