// ABOUTME: Output truncation helpers that keep tool results inside sane character and line budgets.
// ABOUTME: Supports head_tail (keep both ends) and tail (keep the end) modes with omission markers.

package toolsrv

import (
	"fmt"
	"strings"
)

// Character budgets per tool; tools not listed use defaultCharLimit.
var toolCharLimits = map[string]int{
	"read_file":           50000,
	"read_file_chunk":     50000,
	"search_file_content": 20000,
	"search_files":        20000,
}

// Truncation mode per tool ("head_tail" or "tail").
var toolTruncateModes = map[string]string{
	"read_file": "head_tail",
}

const defaultCharLimit = 30000

// TruncateLines truncates output that exceeds maxLines using a head/tail
// split with an omission marker in between. maxLines of 0 disables it.
func TruncateLines(output string, maxLines int) string {
	if maxLines <= 0 {
		return output
	}

	lines := strings.Split(output, "\n")
	if len(lines) <= maxLines {
		return output
	}

	headCount := maxLines / 2
	tailCount := maxLines - headCount
	omitted := len(lines) - headCount - tailCount

	return strings.Join(lines[:headCount], "\n") +
		fmt.Sprintf("\n[... %d lines omitted ...]\n", omitted) +
		strings.Join(lines[len(lines)-tailCount:], "\n")
}

// TruncateOutput truncates output that exceeds maxChars. In "head_tail"
// mode the first and last halves are kept; otherwise the last maxChars are
// kept. A marker notes how much was removed.
func TruncateOutput(output string, maxChars int, mode string) string {
	if len(output) <= maxChars {
		return output
	}

	removed := len(output) - maxChars
	if mode == "head_tail" {
		half := maxChars / 2
		return output[:half] +
			fmt.Sprintf("\n\n[NOTE: output truncated, %d characters removed from the middle. "+
				"Re-run the tool with narrower parameters to see specific parts.]\n\n", removed) +
			output[len(output)-half:]
	}

	return fmt.Sprintf("[NOTE: output truncated, first %d characters removed.]\n\n", removed) +
		output[len(output)-maxChars:]
}

// truncateFor applies the per-tool character budget to an output string.
func truncateFor(toolName, output string) string {
	maxChars := defaultCharLimit
	if limit, ok := toolCharLimits[toolName]; ok {
		maxChars = limit
	}
	mode := "tail"
	if m, ok := toolTruncateModes[toolName]; ok {
		mode = m
	}
	return TruncateOutput(output, maxChars, mode)
}
