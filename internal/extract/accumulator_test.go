package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runAccumulator(lines []string) *Record {
	record := NewRecord()
	acc := newAccumulator(record, nil)
	acc.run(lines)
	return record
}

func TestAccumulatorSingleLineLabel(t *testing.T) {
	record := runAccumulator([]string{"CTRI Number CTRI/2020/01/000123"})
	assert.Equal(t, "CTRI/2020/01/000123", record.Get(FieldCTRINumber))
}

func TestAccumulatorFirstWriteWinsAcrossLines(t *testing.T) {
	record := runAccumulator([]string{
		"Type of Trial Interventional",
		"Type of Trial Observational",
	})
	assert.Equal(t, "Interventional", record.Get(FieldTypeOfTrial))
}

func TestAccumulatorMultilineTitleBuffering(t *testing.T) {
	record := runAccumulator([]string{
		"Scientific Title of Study A Phase III Randomized Study",
		"of Drug X versus Placebo",
		"in Advanced Solid Tumors",
		"Type of Trial Interventional",
	})
	assert.Equal(t,
		"A Phase III Randomized Study of Drug X versus Placebo in Advanced Solid Tumors",
		record.Get(FieldScientificTitle))
	assert.Equal(t, "Interventional", record.Get(FieldTypeOfTrial))
}

func TestAccumulatorBufferTruncatesAtStopPhrase(t *testing.T) {
	record := runAccumulator([]string{
		"Public Title of Study A study of chemotherapy Secondary IDs if Any NCT01234567",
	})
	assert.Equal(t, "A study of chemotherapy", record.Get(FieldPublicTitle))
}

func TestAccumulatorBufferFlushedAtEndOfInput(t *testing.T) {
	record := runAccumulator([]string{
		"Public Title of Study A trial that ends",
		"with the document",
	})
	assert.Equal(t, "A trial that ends with the document", record.Get(FieldPublicTitle))
}

func TestAccumulatorContactSectionIsolation(t *testing.T) {
	record := runAccumulator([]string{
		"Details Contact Person (Public Query)",
		"Phone 9999",
		"Details of Principal Investigator",
		"Phone 8888",
	})
	assert.Equal(t, "9999", record.Get(FieldPCPhone))
	assert.Equal(t, "8888", record.Get(FieldPIPhone))
	assert.Empty(t, record.Get(FieldSCPhone))
}

func TestAccumulatorBareContactLabelIgnored(t *testing.T) {
	record := runAccumulator([]string{
		"Details of Principal Investigator",
		"Name",
		"Name Dr. Smith",
	})
	assert.Equal(t, "Dr. Smith", record.Get(FieldPIName))
}

func TestAccumulatorSecondarySponsorsAccumulate(t *testing.T) {
	record := runAccumulator([]string{
		"Details of Secondary Sponsor",
		"Name Sponsor A",
		"Name Sponsor B",
		"Name Sponsor C",
	})
	assert.Equal(t, "Sponsor A; Sponsor B; Sponsor C", record.Get(FieldSecondarySponsors))
}

func TestAccumulatorPrimarySponsorFields(t *testing.T) {
	record := runAccumulator([]string{
		"Details of Primary Sponsor",
		"Name Pharma Corp",
		"Address 1 Research Way, Mumbai",
		"Type of Sponsor Pharmaceutical industry-Global",
	})
	assert.Equal(t, "Pharma Corp", record.Get(FieldPrimarySponsorName))
	assert.Equal(t, "1 Research Way, Mumbai", record.Get(FieldPrimarySponsorAddress))
	assert.Equal(t, "Pharmaceutical industry-Global", record.Get(FieldPrimarySponsorType))
}

func TestAccumulatorCriteriaSection(t *testing.T) {
	record := runAccumulator([]string{
		"Inclusion Criteria",
		"Age From 18.00 Year(s)",
		"Age To 65.00 Year(s)",
		"Gender Both",
		"Histologically confirmed carcinoma",
		"Measurable disease per RECIST 1.1",
		"Exclusion Criteria",
		"Prior exposure to study drug",
	})
	assert.Equal(t, "18.00 Year(s)", record.Get(FieldAgeFrom))
	assert.Equal(t, "65.00 Year(s)", record.Get(FieldAgeTo))
	assert.Equal(t, "Both", record.Get(FieldGender))
	assert.Equal(t, "Histologically confirmed carcinoma Measurable disease per RECIST 1.1",
		record.Get(FieldInclusionCriteria))
	assert.Equal(t, "Prior exposure to study drug", record.Get(FieldExclusionCriteria))
}

func TestAccumulatorOutcomeSectionSkipsTimepointsMarker(t *testing.T) {
	record := runAccumulator([]string{
		"Primary Outcome",
		"Overall survival",
		"Outcome Timepoints",
		"24 months",
	})
	assert.Equal(t, "Overall survival; 24 months", record.Get(FieldPrimaryOutcome))
}

func TestAccumulatorHealthConditionDeduplicates(t *testing.T) {
	record := runAccumulator([]string{
		"Health Condition / Problems Studied",
		"Non-small cell lung cancer",
		"Non-small cell lung cancer",
		"Metastatic disease",
	})
	assert.Equal(t, "Non-small cell lung cancer; Metastatic disease",
		record.Get(FieldHealthCondition))
}

func TestAccumulatorRegulatoryStatus(t *testing.T) {
	record := runAccumulator([]string{
		"Regulatory Clearance Status from DCGI",
		"Status Approved",
	})
	assert.Equal(t, "Approved", record.Get(FieldRegulatoryStatus))
}

func TestAccumulatorUnmatchedLinesLandInBucket(t *testing.T) {
	record := runAccumulator([]string{
		"CTRI Number CTRI/2020/01/000123",
		"some stray fragment",
		"another orphan line",
	})
	assert.Equal(t, "some stray fragment another orphan line", record.Get(FieldUncategorized))
}

func TestAccumulatorEmptyInputYieldsEmptyRecord(t *testing.T) {
	record := runAccumulator(nil)
	for _, name := range FieldSchema {
		assert.Empty(t, record.Get(name), name)
	}
}

// Token conservation: every input line must surface in exactly one field
// value or the uncategorized bucket.
func TestAccumulatorCompleteness(t *testing.T) {
	tokens := make([]string, 0, 8)
	lines := make([]string, 0, 8)
	templates := []string{
		"CTRI Number %s",
		"Public Title of Study %s",
		"%s",
		"Details of Primary Sponsor",
		"Name %s",
		"Inclusion Criteria",
		"%s",
		"%s",
	}
	for i, tmpl := range templates {
		if !strings.Contains(tmpl, "%s") {
			lines = append(lines, tmpl)
			continue
		}
		token := fmt.Sprintf("tok%02d", i)
		tokens = append(tokens, token)
		lines = append(lines, fmt.Sprintf(tmpl, token))
	}

	record := runAccumulator(lines)

	all := strings.Join(record.Row(), "\n")
	for _, token := range tokens {
		require.Equal(t, 1, strings.Count(all, token),
			"token %s must appear exactly once in the record", token)
	}
}
