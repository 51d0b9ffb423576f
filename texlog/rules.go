// ABOUTME: Ordered warning-extraction rules that scan raw TeX log text for known notice families.
// ABOUTME: Each rule scans the full text independently; ExtractWarnings concatenates and deduplicates.

package texlog

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Rule extracts warning candidates from raw log text. Rules never fail:
// text a rule does not recognize simply yields no candidates.
type Rule interface {
	Scan(text string) []Record
}

// boxOverflowRule matches underfull/overfull box notices that carry a
// paragraph line range, e.g.
//
//	Overfull \hbox (12.34pt too wide) in paragraph at lines 15--16
//
// The message stops before the " in paragraph" clause; the two integers
// become an inclusive range.
type boxOverflowRule struct{}

var boxOverflowRe = regexp.MustCompile(`((?:Underfull|Overfull) \\[^\n]*?) in paragraph at lines (\d+)--(\d+)`)

func (boxOverflowRule) Scan(text string) []Record {
	var out []Record
	for _, m := range boxOverflowRe.FindAllStringSubmatch(text, -1) {
		start, err1 := strconv.Atoi(m[2])
		end, err2 := strconv.Atoi(m[3])
		if err1 != nil || err2 != nil {
			continue
		}
		out = append(out, Record{
			Message: strings.TrimSpace(m[1]),
			Ref:     Lines(start, end),
		})
	}
	return out
}

// latexLineWarningRule matches top-level LaTeX warnings that end with an
// "on line N" or "on input line N" clause. The message text stops at the
// first period, matching the engine's one-sentence notice style, and never
// crosses a line boundary: each physical notice yields its own record.
type latexLineWarningRule struct{}

var latexLineWarningRe = regexp.MustCompile(`LaTeX Warning: ([^.\n]*) on (input )?line (\d+)`)

func (latexLineWarningRule) Scan(text string) []Record {
	var out []Record
	for _, m := range latexLineWarningRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[3])
		if err != nil {
			continue
		}
		out = append(out, Record{
			Message: "LaTeX Warning: " + strings.TrimSpace(m[1]),
			Ref:     SingleLine(n),
		})
	}
	return out
}

// packageLineWarningRule matches warnings scoped to a named package with a
// trailing line clause, e.g.
//
//	Package hyperref Warning: Token not allowed on input line 42
type packageLineWarningRule struct{}

var packageLineWarningRe = regexp.MustCompile(`Package (\S+) Warning: ([^.\n]*) on (input )?line (\d+)`)

func (packageLineWarningRule) Scan(text string) []Record {
	var out []Record
	for _, m := range packageLineWarningRe.FindAllStringSubmatch(text, -1) {
		n, err := strconv.Atoi(m[4])
		if err != nil {
			continue
		}
		out = append(out, Record{
			Message: fmt.Sprintf("Package %s Warning: %s", m[1], strings.TrimSpace(m[2])),
			Ref:     SingleLine(n),
		})
	}
	return out
}

// fallbackWarningRule catches any LaTeX or package warning regardless of a
// line clause, so notices the stricter rules miss still surface. Its
// message is the whole matched text: a notice with a line clause appears
// once via a line rule and once via this rule, and the two records differ
// in both message and reference, so both survive deduplication. Matches
// stop at the end of the line so consecutive notices stay separate.
type fallbackWarningRule struct{}

var fallbackWarningRe = regexp.MustCompile(`(?:LaTeX|Package \S+) Warning: [^.\n]*`)

func (fallbackWarningRule) Scan(text string) []Record {
	var out []Record
	for _, m := range fallbackWarningRe.FindAllString(text, -1) {
		out = append(out, Record{Message: strings.TrimSpace(m)})
	}
	return out
}

// Rules returns the warning rule families in priority order. Order matters
// only for emission order into the pre-dedup candidate list; final storage
// order is first-seen order.
func Rules() []Rule {
	return []Rule{
		boxOverflowRule{},
		latexLineWarningRule{},
		packageLineWarningRule{},
		fallbackWarningRule{},
	}
}

// ExtractWarnings runs every rule over the full log text, concatenates the
// candidates in rule order then match order, and deduplicates on exact
// (message, reference) equality with first occurrence winning.
func ExtractWarnings(text string) []Record {
	var candidates []Record
	for _, rule := range Rules() {
		candidates = append(candidates, rule.Scan(text)...)
	}
	return Dedup(candidates)
}
