package extract

import (
	"regexp"
	"strings"
)

// Known wrap damage in the registry's generated PDFs. The generator breaks
// a label either before its parenthetical qualifier or at a fixed word
// boundary; both cases are enumerable, so repair is a closed list rather
// than a heuristic.

// qualifierLabels are labels the generator wraps right before their
// "(India)"/"(Global)" qualifier. The qualifier opens the next line with
// the value trailing after it.
var qualifierLabels = []string{
	"Date of First Enrollment",
	"Date of Study Completion",
	"Recruitment Status of Trial",
	"Final Enrollment numbers achieved",
}

// knownSplit is one entry of the mid-phrase split list: a line ending in
// Head followed by a line starting with Tail is one logical line.
type knownSplit struct {
	Head string
	Tail string
}

var knownSplits = []knownSplit{
	{"Method of Generating", "Random Sequence"},
	{"Source of Monetary or", "Material Support"},
	{"Details of Ethics", "Committee"},
	{"Regulatory Clearance Status", "from DCGI"},
	{"Health Condition / Problems", "Studied"},
	{"Intervention / Comparator", "Agent"},
}

var (
	whitespaceRun = regexp.MustCompile(`[ \t\x{00A0}]+`)
	htmlTag       = regexp.MustCompile(`<[^>]{1,80}>`)
	htmlEntities  = strings.NewReplacer(
		"&amp;", "&",
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#39;", "'",
		"&nbsp;", " ",
	)
	parenQualifier = regexp.MustCompile(`^\((India|Global|Total)\)\s*`)
)

// NormalizeLines cleans raw extracted lines and repairs the two known
// classes of line-wrap damage. Lines reduced to nothing by cleaning are
// dropped; everything else survives in order. Running the result through
// NormalizeLines again is a no-op.
func NormalizeLines(raw []string) []string {
	cleaned := make([]string, 0, len(raw))
	for _, line := range raw {
		line = cleanLine(line)
		if line == "" {
			continue
		}
		cleaned = append(cleaned, line)
	}

	out := make([]string, 0, len(cleaned))
	for i := 0; i < len(cleaned); i++ {
		line := cleaned[i]

		if i+1 < len(cleaned) {
			if joined, ok := spliceQualifier(line, cleaned[i+1]); ok {
				out = append(out, joined)
				i++
				continue
			}
			if joined, ok := joinKnownSplit(line, cleaned[i+1]); ok {
				out = append(out, joined)
				i++
				continue
			}
		}
		out = append(out, line)
	}
	return out
}

// cleanLine strips markup remnants, decodes entities and collapses
// internal whitespace.
func cleanLine(line string) string {
	line = htmlTag.ReplaceAllString(line, " ")
	line = htmlEntities.Replace(line)
	line = whitespaceRun.ReplaceAllString(line, " ")
	return strings.TrimSpace(line)
}

// spliceQualifier repairs wrap class (a): a label line followed by a line
// whose leading parenthetical qualifier belongs inside the label, with the
// value trailing after it. "Date of First Enrollment" + "(India) 13/02/2020"
// becomes "Date of First Enrollment (India) 13/02/2020".
func spliceQualifier(line, next string) (string, bool) {
	m := parenQualifier.FindString(next)
	if m == "" {
		return "", false
	}
	for _, label := range qualifierLabels {
		if strings.EqualFold(line, label) || strings.HasSuffix(strings.ToLower(line), strings.ToLower(label)) {
			qualifier := strings.TrimSpace(m)
			rest := strings.TrimSpace(next[len(m):])
			if rest == "" {
				return line + " " + qualifier, true
			}
			return line + " " + qualifier + " " + rest, true
		}
	}
	return "", false
}

// joinKnownSplit repairs wrap class (b): a label split mid-phrase with no
// punctuation cue, detected by the closed head/tail list.
func joinKnownSplit(line, next string) (string, bool) {
	for _, split := range knownSplits {
		if strings.HasSuffix(strings.ToLower(line), strings.ToLower(split.Head)) &&
			strings.HasPrefix(strings.ToLower(next), strings.ToLower(split.Tail)) {
			return line + " " + next, true
		}
	}
	return "", false
}

var pageFooter = regexp.MustCompile(`(?i)^page \d+ of \d+$`)

// isBoilerplate reports whether a line is pure generator noise.
func isBoilerplate(line string) bool {
	if pageFooter.MatchString(strings.TrimSpace(line)) {
		return true
	}
	lower := strings.ToLower(line)
	for _, marker := range boilerplateMarkers {
		if strings.Contains(lower, marker) {
			return true
		}
	}
	return false
}
