package extract

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// maxMarkerFragment bounds the verbatim marker evidence kept per match.
	maxMarkerFragment = 120
	// maxMarkerEvidence bounds how many fragments end up in the derived
	// evidence field.
	maxMarkerEvidence = 4
)

// scanFields are the narrative fields concatenated into the tagging scan
// buffer.
var scanFields = []string{
	FieldPublicTitle, FieldScientificTitle, FieldHealthCondition,
	FieldInclusionCriteria, FieldExclusionCriteria, FieldBriefSummary,
	FieldIntervention, FieldComparatorAgent, FieldUncategorized,
}

var (
	punctOnly       = regexp.MustCompile(`^[\s[:punct:]]+$`)
	numericValue    = regexp.MustCompile(`\d+(\.\d+)?`)
	fragmentSplit   = regexp.MustCompile(`[.;\n]+`)
	treatmentLineRe = regexp.MustCompile(`(?i)\b(first|second|third|fourth|1st|2nd|3rd|4th)[\s-]?line\b`)
	diseaseStageRe  = regexp.MustCompile(`(?i)\b(stage\s+(IV|III|II|I|[1-4])[abc]?|metastatic|locally advanced|early[\s-]stage|recurrent|relapsed)\b`)
	perfStatusRe    = regexp.MustCompile(`(?i)\b(ecog(\s+performance\s+status)?\s*(of)?\s*[0-4](\s*(-|to|–)\s*[0-4])?|karnofsky(\s+score)?\s*(of)?\s*\d{2,3})\b`)
	priorTreatRe    = regexp.MustCompile(`(?i)\b(previously treated|treatment[\s-]?na[iï]ve|prior (chemotherapy|therapy|treatment|radiotherapy)|progressed on|refractory to|relapsed after)\b`)
)

// Finalize runs the cleaning pass and the tagging pass over a completed
// record. It is pure with respect to its inputs and idempotent: running it
// twice yields the same record.
func Finalize(record *Record) {
	finalize(record, defaultTables())
}

func finalize(record *Record, vocab *vocabTables) {
	cleanRecord(record, vocab)
	tagRecord(record, vocab)
}

// cleanRecord strips placeholder tokens and normalizes field-specific
// value shapes.
func cleanRecord(record *Record, vocab *vocabTables) {
	for _, name := range FieldSchema {
		value := record.Get(name)
		if value == "" {
			continue
		}
		cleaned := stripPlaceholders(value, vocab.placeholders)
		cleaned = strings.Join(strings.Fields(cleaned), " ")
		if punctOnly.MatchString(cleaned) {
			cleaned = ""
		}
		record.Overwrite(name, cleaned)
	}

	// Age fields keep only the numeric part: "18.00 Year(s)" becomes "18".
	for _, name := range []string{FieldAgeFrom, FieldAgeTo} {
		if v := record.Get(name); v != "" {
			record.Overwrite(name, coerceAge(v))
		}
	}
	for _, name := range []string{FieldInclusionCriteria, FieldExclusionCriteria} {
		record.Overwrite(name, cleanCriteriaText(record.Get(name)))
	}
}

// stripPlaceholders removes placeholder tokens wherever they appear as a
// whole word.
func stripPlaceholders(value string, placeholders []string) string {
	for _, token := range placeholders {
		value = removeWholeWord(value, token)
	}
	return value
}

func removeWholeWord(text, word string) string {
	lower := strings.ToLower(text)
	target := strings.ToLower(word)
	var out strings.Builder
	for i := 0; i < len(text); {
		idx := strings.Index(lower[i:], target)
		if idx < 0 {
			out.WriteString(text[i:])
			break
		}
		start := i + idx
		end := start + len(target)
		if wordBoundary(lower, start, end) {
			out.WriteString(text[i:start])
			i = end
			continue
		}
		out.WriteString(text[i : start+1])
		i = start + 1
	}
	return out.String()
}

func wordBoundary(text string, start, end int) bool {
	if start > 0 && isWordByte(text[start-1]) {
		return false
	}
	if end < len(text) && isWordByte(text[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' || b >= '0' && b <= '9'
}

func coerceAge(value string) string {
	m := numericValue.FindString(value)
	if m == "" {
		return ""
	}
	if dot := strings.Index(m, "."); dot >= 0 {
		m = m[:dot]
	}
	return m
}

// tagRecord derives the clinical marker fields from a scan over the
// narrative fields.
func tagRecord(record *Record, vocab *vocabTables) {
	var sb strings.Builder
	for _, name := range scanFields {
		if v := record.Get(name); v != "" {
			sb.WriteString(v)
			sb.WriteString(". ")
		}
	}
	buffer := sb.String()
	if buffer == "" {
		return
	}
	lower := strings.ToLower(buffer)
	fragments := fragmentSplit.Split(buffer, -1)

	record.Overwrite(FieldGeneticMarkers, inferMarkersFromDrugs(lower, vocab.markerDrugs))
	record.Overwrite(FieldMarkerEvidence, collectMarkerEvidence(fragments))

	record.Overwrite(FieldTreatmentLine, firstMatch(treatmentLineRe, buffer))
	record.Overwrite(FieldDiseaseStage, firstMatch(diseaseStageRe, buffer))
	record.Overwrite(FieldPerformanceStatus, firstMatch(perfStatusRe, buffer))
	record.Overwrite(FieldPriorTreatment, firstMatch(priorTreatRe, buffer))
}

// inferMarkersFromDrugs maps mentioned targeted drugs back to their
// markers. Any mention counts as evidence of positivity.
func inferMarkersFromDrugs(lowerBuffer string, drugTable map[string][]string) string {
	found := make(map[string]string)
	for marker, drugs := range drugTable {
		for _, drug := range drugs {
			if strings.Contains(lowerBuffer, drug) {
				found[marker] = drug
				break
			}
		}
	}
	if len(found) == 0 {
		return ""
	}
	markers := make([]string, 0, len(found))
	for marker := range found {
		markers = append(markers, marker)
	}
	sort.Strings(markers)
	parts := make([]string, len(markers))
	for i, marker := range markers {
		parts[i] = marker + " positive (" + found[marker] + ")"
	}
	return strings.Join(parts, ListDelimiter)
}

// collectMarkerEvidence records fragments that pair an alteration keyword
// with a gene name, verbatim and bounded, de-duplicated case-insensitively.
func collectMarkerEvidence(fragments []string) string {
	seen := make(map[string]bool)
	var kept []string
	for _, fragment := range fragments {
		fragment = strings.TrimSpace(fragment)
		if fragment == "" {
			continue
		}
		lower := strings.ToLower(fragment)
		if !containsAnyFold(lower, markerKeywords) {
			continue
		}
		if !containsGene(fragment) {
			continue
		}
		if len(fragment) > maxMarkerFragment {
			fragment = fragment[:maxMarkerFragment]
		}
		key := strings.ToLower(fragment)
		if seen[key] {
			continue
		}
		seen[key] = true
		kept = append(kept, fragment)
		if len(kept) == maxMarkerEvidence {
			break
		}
	}
	return strings.Join(kept, ListDelimiter)
}

func containsAnyFold(lower string, words []string) bool {
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

// containsGene requires the gene name as its own token so "met" inside
// "treatment" never matches.
func containsGene(fragment string) bool {
	upper := strings.ToUpper(fragment)
	for _, gene := range markerGenes {
		idx := 0
		for {
			pos := strings.Index(upper[idx:], gene)
			if pos < 0 {
				break
			}
			start := idx + pos
			end := start + len(gene)
			if wordBoundary(strings.ToLower(upper), start, end) {
				return true
			}
			idx = start + 1
		}
	}
	return false
}

func firstMatch(re *regexp.Regexp, buffer string) string {
	return strings.TrimSpace(re.FindString(buffer))
}
