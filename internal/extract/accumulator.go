package extract

import "strings"

// multilineBuffer collects fragments of one wrapped field value until a
// terminating line is seen. At most one buffer is open at a time.
type multilineBuffer struct {
	field     string
	fragments []string
}

func (b *multilineBuffer) add(fragment string) {
	fragment = strings.TrimSpace(fragment)
	if fragment != "" {
		b.fragments = append(b.fragments, fragment)
	}
}

func (b *multilineBuffer) text() string {
	return strings.Join(b.fragments, " ")
}

// accumulator is the line-scan state machine: the current section plus the
// optional open buffer and the uncategorized bucket. One accumulator serves
// one document and is discarded afterwards.
type accumulator struct {
	record  *Record
	vocab   *vocabTables
	section Section
	buffer  *multilineBuffer
	bucket  []string
}

func newAccumulator(record *Record, vocab *vocabTables) *accumulator {
	if vocab == nil {
		vocab = defaultTables()
	}
	return &accumulator{
		record:  record,
		vocab:   vocab,
		section: SectionHeader,
	}
}

// run consumes the normalized line sequence in order. Every line ends up
// either in a field or in the uncategorized bucket; nothing is dropped
// silently except pure boilerplate.
func (a *accumulator) run(lines []string) {
	for _, line := range lines {
		a.consume(line)
	}
	a.finish()
}

func (a *accumulator) consume(line string) {
	// 1. Section transition wins over everything. Some section headers
	// carry inline leading content that belongs to the section's own
	// field; it is seeded there right away.
	if section, rest, ok := classifySectionRest(line); ok {
		a.flush()
		a.section = section
		if field, seeded := sectionSeedField[section]; seeded && rest != "" {
			a.record.Set(field, truncateAtStopPhrase(rest, a.vocab.stops))
		}
		return
	}

	// 2. An open buffer absorbs lines until a flush trigger appears; the
	// trigger line is then re-processed as a fresh line.
	if a.buffer != nil {
		if a.isFlushTrigger(line) {
			a.flush()
			// fall through to steps 3+ for this line
		} else {
			if !isBoilerplate(line) {
				a.buffer.add(line)
			}
			return
		}
	}

	// 3. Single-line label.
	if a.consumeSingleLineLabel(line) {
		return
	}

	// 4. Multi-line title announcement.
	if a.openTitleBuffer(line) {
		return
	}

	// 5. Section-specific handling.
	if a.consumeSectionLine(line) {
		return
	}

	// 6. Nothing matched: bucket it, unless it is pure noise.
	if !isBoilerplate(line) {
		a.bucket = append(a.bucket, line)
	}
}

// finish flushes any open buffer, cleans the criteria text and attaches
// the bucket to the audit field.
func (a *accumulator) finish() {
	a.flush()
	a.record.Overwrite(FieldInclusionCriteria, cleanCriteriaText(a.record.Get(FieldInclusionCriteria)))
	a.record.Overwrite(FieldExclusionCriteria, cleanCriteriaText(a.record.Get(FieldExclusionCriteria)))
	if len(a.bucket) > 0 {
		a.record.Set(FieldUncategorized, strings.Join(a.bucket, " "))
	}
}

func (a *accumulator) flush() {
	if a.buffer == nil {
		return
	}
	if text := truncateAtStopPhrase(a.buffer.text(), a.vocab.stops); text != "" {
		a.record.Set(a.buffer.field, text)
	}
	a.buffer = nil
}

// isFlushTrigger reports whether a line terminates the open buffer: any
// known single-line label prefix, any section marker, or boilerplate.
func (a *accumulator) isFlushTrigger(line string) bool {
	if _, ok := ClassifySection(line); ok {
		return true
	}
	if isBoilerplate(line) {
		return true
	}
	for _, lf := range a.vocab.labels {
		if hasLabelPrefix(line, lf.Label) {
			return true
		}
	}
	for _, lf := range multilineTitles {
		if hasLabelPrefix(line, lf.Label) {
			return true
		}
	}
	return false
}

func (a *accumulator) consumeSingleLineLabel(line string) bool {
	for _, lf := range a.vocab.labels {
		if !hasLabelPrefix(line, lf.Label) {
			continue
		}
		value := strings.TrimSpace(line[len(lf.Label):])
		value = strings.TrimLeft(value, ":- ")
		if value != "" {
			a.record.Set(lf.Field, value)
		}
		return true
	}
	return false
}

func (a *accumulator) openTitleBuffer(line string) bool {
	for _, lf := range multilineTitles {
		if !hasLabelPrefix(line, lf.Label) {
			continue
		}
		a.flush()
		a.buffer = &multilineBuffer{field: lf.Field}
		trailing := strings.TrimSpace(line[len(lf.Label):])
		trailing = strings.TrimLeft(trailing, ":- ")
		if trailing != "" {
			a.buffer.add(truncateAtStopPhrase(trailing, a.vocab.stops))
		}
		return true
	}
	return false
}

func (a *accumulator) consumeSectionLine(line string) bool {
	switch a.section {
	case SectionPrincipalInvestigator, SectionScientificContact, SectionPublicContact:
		return a.consumeContactLine(line)
	case SectionPrimarySponsor:
		return a.consumePrimarySponsorLine(line)
	case SectionSecondarySponsor:
		return a.consumeValueLine(line, "Name", FieldSecondarySponsors)
	case SectionFunding:
		return a.consumeFundingLine(line)
	case SectionCountries:
		a.record.Set(FieldCountries, strings.TrimSpace(line))
		return true
	case SectionInclusion:
		return a.consumeCriteriaLine(line, FieldInclusionCriteria)
	case SectionExclusion:
		return a.consumeCriteriaLine(line, FieldExclusionCriteria)
	case SectionPrimaryOutcome:
		return a.consumeOutcomeLine(line, FieldPrimaryOutcome)
	case SectionSecondaryOutcome:
		return a.consumeOutcomeLine(line, FieldSecondaryOutcome)
	case SectionHealthCondition:
		a.record.Set(FieldHealthCondition, strings.TrimSpace(line))
		return true
	case SectionIntervention:
		a.record.Set(FieldIntervention, strings.TrimSpace(line))
		return true
	case SectionRegulatory:
		return a.consumeValueLine(line, "Status", FieldRegulatoryStatus)
	case SectionSummary:
		a.record.Set(FieldBriefSummary, strings.TrimSpace(line))
		return true
	case SectionPublication:
		a.record.Set(FieldPublicationDetails, strings.TrimSpace(line))
		return true
	}
	return false
}

// consumeContactLine handles the three near-identical contact blocks with
// one parameterized rule: the active section picks the field prefix. A
// bare label with no trailing value is ignored, never written as empty.
func (a *accumulator) consumeContactLine(line string) bool {
	prefix, ok := contactFieldPrefix[a.section]
	if !ok {
		return false
	}
	for _, label := range contactLabels {
		if !hasLabelPrefix(line, label) {
			continue
		}
		value := strings.TrimSpace(line[len(label):])
		value = strings.TrimLeft(value, ":- ")
		if value != "" {
			a.record.Set(prefix+label, value)
		}
		return true
	}
	return false
}

func (a *accumulator) consumePrimarySponsorLine(line string) bool {
	switch {
	case hasLabelPrefix(line, "Name"):
		a.record.Set(FieldPrimarySponsorName, labelValue(line, "Name"))
	case hasLabelPrefix(line, "Address"):
		a.record.Set(FieldPrimarySponsorAddress, labelValue(line, "Address"))
	case hasLabelPrefix(line, "Type of Sponsor"):
		a.record.Set(FieldPrimarySponsorType, labelValue(line, "Type of Sponsor"))
	default:
		return false
	}
	return true
}

func (a *accumulator) consumeFundingLine(line string) bool {
	if hasLabelPrefix(line, "Name") {
		line = labelValue(line, "Name")
	}
	line = strings.TrimSpace(line)
	if line == "" {
		return true
	}
	a.record.Set(FieldMonetarySupport, line)
	return true
}

func (a *accumulator) consumeCriteriaLine(line string, field string) bool {
	switch {
	case hasLabelPrefix(line, "Age From"):
		a.record.Set(FieldAgeFrom, labelValue(line, "Age From"))
	case hasLabelPrefix(line, "Age To"):
		a.record.Set(FieldAgeTo, labelValue(line, "Age To"))
	case hasLabelPrefix(line, "Gender"):
		a.record.Set(FieldGender, labelValue(line, "Gender"))
	default:
		a.record.Set(field, strings.TrimSpace(line))
	}
	return true
}

func (a *accumulator) consumeOutcomeLine(line string, field string) bool {
	if strings.EqualFold(strings.TrimSpace(line), "Outcome Timepoints") {
		return true
	}
	a.record.Set(field, strings.TrimSpace(line))
	return true
}

func (a *accumulator) consumeValueLine(line, label, field string) bool {
	if !hasLabelPrefix(line, label) {
		return false
	}
	if value := labelValue(line, label); value != "" {
		a.record.Set(field, value)
	}
	return true
}

// hasLabelPrefix matches a label at the start of a line, requiring the
// label to end at a word boundary so "Name" does not match "Namespace".
func hasLabelPrefix(line, label string) bool {
	if len(line) < len(label) {
		return false
	}
	if !strings.EqualFold(line[:len(label)], label) {
		return false
	}
	if len(line) == len(label) {
		return true
	}
	next := line[len(label)]
	return next == ' ' || next == ':' || next == '-'
}

func labelValue(line, label string) string {
	value := strings.TrimSpace(line[len(label):])
	return strings.TrimLeft(value, ":- ")
}

// truncateAtStopPhrase cuts a buffered value at the first occurrence of a
// known stop phrase so the next section's label cannot bleed into it.
func truncateAtStopPhrase(text string, stops []string) string {
	lower := strings.ToLower(text)
	cut := len(text)
	for _, phrase := range stops {
		if idx := strings.Index(lower, strings.ToLower(phrase)); idx >= 0 && idx < cut {
			cut = idx
		}
	}
	return strings.TrimSpace(text[:cut])
}

// cleanCriteriaText strips bullet markers and collapses the whitespace of
// an assembled criteria block.
func cleanCriteriaText(text string) string {
	if text == "" {
		return ""
	}
	replacer := strings.NewReplacer("•", " ", "·", " ", "●", " ", "*", " ")
	text = replacer.Replace(text)
	fields := strings.Fields(text)
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		f = strings.TrimPrefix(f, "-")
		if f != "" {
			out = append(out, f)
		}
	}
	return strings.Join(out, " ")
}
