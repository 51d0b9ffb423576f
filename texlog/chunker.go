// ABOUTME: Splits raw TeX log text into fatal-error chunks at lines beginning with "!".
// ABOUTME: Each chunk yields one error record: first line as message, optional l.N source line.

package texlog

import (
	"regexp"
	"strconv"
	"strings"
)

var errorLineRe = regexp.MustCompile(`l\.(\d+)`)

// ExtractErrors splits the log at every line that begins with the error
// marker "!" and emits one record per chunk, in document order. A chunk
// runs from its marker line to just before the next marker line (or end of
// text); text before the first marker is discarded. Errors are never
// deduplicated: the same message at two points in the log is two records.
func ExtractErrors(text string) []Record {
	var chunks []string
	var current []string
	inChunk := false

	for _, line := range strings.Split(text, "\n") {
		if strings.HasPrefix(line, "!") {
			if inChunk {
				chunks = append(chunks, strings.Join(current, "\n"))
			}
			current = []string{line}
			inChunk = true
			continue
		}
		if inChunk {
			current = append(current, line)
		}
	}
	if inChunk {
		chunks = append(chunks, strings.Join(current, "\n"))
	}

	var out []Record
	for _, chunk := range chunks {
		first := chunk
		if idx := strings.IndexByte(chunk, '\n'); idx >= 0 {
			first = chunk[:idx]
		}
		rec := Record{Message: strings.TrimSpace(first)}
		if m := errorLineRe.FindStringSubmatch(chunk); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				rec.Ref = SingleLine(n)
			}
		}
		out = append(out, rec)
	}
	return out
}
