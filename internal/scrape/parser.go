package scrape

import (
	"html"
	"regexp"
	"strings"

	"github.com/trialscan/ctri-extract/internal/extract"
)

// ctriNumberRe recovers a registration number from anywhere in the page
// when the labelled cell is missing.
var ctriNumberRe = regexp.MustCompile(`CTRI/\d{4}/\d{2}/\d+`)

// labelCellRe matches the registry's label/value cell pairs: the label
// sits in a bold cell, the value in the cell right after it.
var labelCellRe = regexp.MustCompile(`(?is)<td[^>]*>\s*<b[^>]*>(.*?)</b>\s*</td>\s*<td[^>]*>(.*?)</td>`)

var tagRe = regexp.MustCompile(`(?s)<[^>]*>`)

// labelMapping routes a registry page label to a record field. Longer
// labels come first so "Secondary Sponsor" never matches the bare
// "Sponsor" entry.
type labelMapping struct {
	Label string
	Field string
}

var scrapeLabels = []labelMapping{
	{"Method of Generating Random Sequence", extract.FieldRandomSequence},
	{"Method of Concealment", extract.FieldConcealment},
	{"Date of First Enrollment (Global)", extract.FieldFirstEnrollGlobal},
	{"Date of First Enrollment", extract.FieldFirstEnrollIndia},
	{"Date of Study Completion (Global)", extract.FieldCompletionGlobal},
	{"Date of Study Completion", extract.FieldCompletionIndia},
	{"Date of Registration", extract.FieldRegistrationDate},
	{"Source of Monetary", extract.FieldMonetarySupport},
	{"Secondary Sponsor", extract.FieldSecondarySponsors},
	{"Primary Sponsor", extract.FieldPrimarySponsorName},
	{"Secondary ID", extract.FieldSecondaryIDs},
	{"Scientific Title", extract.FieldScientificTitle},
	{"Public Title", extract.FieldPublicTitle},
	{"CTRI Number", extract.FieldCTRINumber},
	{"Last Modified", extract.FieldLastModified},
	{"Post Graduate Thesis", extract.FieldPostGradThesis},
	{"Type of Trial", extract.FieldTypeOfTrial},
	{"Type of Study", extract.FieldTypeOfStudy},
	{"Study Design", extract.FieldStudyDesign},
	{"Acronym", extract.FieldAcronym},
	{"Recruitment Status", extract.FieldRecruitmentIndia},
	{"Brief Summary", extract.FieldBriefSummary},
	{"Health Condition", extract.FieldHealthCondition},
	{"Intervention", extract.FieldIntervention},
	{"Comparator Agent", extract.FieldComparatorAgent},
	{"Inclusion Criteria", extract.FieldInclusionCriteria},
	{"Exclusion Criteria", extract.FieldExclusionCriteria},
	{"Age From", extract.FieldAgeFrom},
	{"Age To", extract.FieldAgeTo},
	{"Gender", extract.FieldGender},
	{"Primary Outcome", extract.FieldPrimaryOutcome},
	{"Secondary Outcome", extract.FieldSecondaryOutcome},
	{"Phase", extract.FieldPhase},
	{"Target Sample Size", extract.FieldTargetSampleSize},
	{"Total Sample Size", extract.FieldTargetSampleSize},
	{"Sample Size from India", extract.FieldSampleSizeIndia},
	{"Blinding", extract.FieldBlinding},
	{"Ethics Committee", extract.FieldEthicsCommittees},
	{"Regulatory Clearance", extract.FieldRegulatoryStatus},
	{"Countries of Recruitment", extract.FieldCountries},
	{"Site", extract.FieldSites},
	{"Publication", extract.FieldPublicationDetails},
}

// ParseRecord builds a trial record from a registry detail page. Label
// cells route values through the same write policies the PDF path uses,
// so repeated sponsor or site rows accumulate the same way.
func ParseRecord(pageHTML, pageURL string) *extract.Record {
	record := extract.NewRecord()
	record.Set(extract.FieldStudyURL, pageURL)

	for _, m := range labelCellRe.FindAllStringSubmatch(pageHTML, -1) {
		label := cleanCell(m[1])
		value := cleanCell(m[2])
		if label == "" || value == "" {
			continue
		}
		if field, ok := fieldForLabel(label); ok {
			record.Set(field, value)
		}
	}

	// Recover the registration number from the page body if the labelled
	// cell was absent or empty.
	if record.Get(extract.FieldCTRINumber) == "" {
		if num := ctriNumberRe.FindString(pageHTML); num != "" {
			record.Set(extract.FieldCTRINumber, num)
		}
	}

	extract.Finalize(record)
	return record
}

// fieldForLabel finds the first mapping whose label is a prefix of the
// cell text, case-insensitive.
func fieldForLabel(label string) (string, bool) {
	lower := strings.ToLower(label)
	for _, m := range scrapeLabels {
		if strings.HasPrefix(lower, strings.ToLower(m.Label)) {
			return m.Field, true
		}
	}
	return "", false
}

// cleanCell strips markup and entities from a table cell and collapses
// its whitespace.
func cleanCell(cell string) string {
	cell = tagRe.ReplaceAllString(cell, " ")
	cell = html.UnescapeString(cell)
	cell = strings.TrimSpace(cell)
	cell = strings.TrimSuffix(cell, ":")
	return strings.Join(strings.Fields(cell), " ")
}
