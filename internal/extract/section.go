package extract

import "strings"

// Section identifies a named region of the registration document. Each
// section has its own label vocabulary; exactly one section is current at
// any point of the line scan.
type Section int

const (
	SectionNone Section = iota
	SectionHeader
	SectionPrincipalInvestigator
	SectionScientificContact
	SectionPublicContact
	SectionFunding
	SectionPrimarySponsor
	SectionSecondarySponsor
	SectionCountries
	SectionSites
	SectionEthics
	SectionRegulatory
	SectionHealthCondition
	SectionIntervention
	SectionInclusion
	SectionExclusion
	SectionPrimaryOutcome
	SectionSecondaryOutcome
	SectionSampleSize
	SectionSummary
	SectionPublication
)

// String returns the section name used in logs.
func (s Section) String() string {
	names := map[Section]string{
		SectionNone:                  "none",
		SectionHeader:                "header",
		SectionPrincipalInvestigator: "principal_investigator",
		SectionScientificContact:     "scientific_contact",
		SectionPublicContact:         "public_contact",
		SectionFunding:               "funding",
		SectionPrimarySponsor:        "primary_sponsor",
		SectionSecondarySponsor:      "secondary_sponsor",
		SectionCountries:             "countries",
		SectionSites:                 "sites",
		SectionEthics:                "ethics",
		SectionRegulatory:            "regulatory",
		SectionHealthCondition:       "health_condition",
		SectionIntervention:          "intervention",
		SectionInclusion:             "inclusion",
		SectionExclusion:             "exclusion",
		SectionPrimaryOutcome:        "primary_outcome",
		SectionSecondaryOutcome:      "secondary_outcome",
		SectionSampleSize:            "sample_size",
		SectionSummary:               "summary",
		SectionPublication:           "publication",
	}
	if n, ok := names[s]; ok {
		return n
	}
	return "unknown"
}

// sectionSignature is one ordered entry of the section marker table. All
// phrases must be present (case-insensitive) for the signature to match;
// Exclude vetoes a match. Compound signatures keep the three contact
// sections apart: every contact header carries "contact person", and only
// the qualifier word decides which one it is.
type sectionSignature struct {
	Phrases []string
	Exclude []string
	Section Section
}

// sectionSignatures is evaluated in order; the first match wins. The
// scientific/public entries come before the bare investigator entry so a
// qualified contact header never falls through to the PI section.
var sectionSignatures = []sectionSignature{
	{Phrases: []string{"contact person", "scientific"}, Section: SectionScientificContact},
	{Phrases: []string{"contact person", "public"}, Section: SectionPublicContact},
	{Phrases: []string{"details of principal investigator"}, Section: SectionPrincipalInvestigator},
	{Phrases: []string{"principal investigator or overall trial coordinator"}, Section: SectionPrincipalInvestigator},
	{Phrases: []string{"source of monetary or material support"}, Section: SectionFunding},
	{Phrases: []string{"details of secondary sponsor"}, Section: SectionSecondarySponsor},
	{Phrases: []string{"primary sponsor"}, Exclude: []string{"secondary"}, Section: SectionPrimarySponsor},
	{Phrases: []string{"countries of recruitment"}, Section: SectionCountries},
	{Phrases: []string{"sites of study"}, Section: SectionSites},
	{Phrases: []string{"site/s of study"}, Section: SectionSites},
	{Phrases: []string{"details of ethics committee"}, Section: SectionEthics},
	{Phrases: []string{"regulatory clearance status from dcgi"}, Section: SectionRegulatory},
	{Phrases: []string{"health condition", "studied"}, Section: SectionHealthCondition},
	{Phrases: []string{"health condition / problems studied"}, Section: SectionHealthCondition},
	{Phrases: []string{"intervention / comparator agent"}, Section: SectionIntervention},
	{Phrases: []string{"intervention and comparator agent"}, Section: SectionIntervention},
	{Phrases: []string{"inclusion criteria"}, Section: SectionInclusion},
	{Phrases: []string{"exclusion criteria"}, Section: SectionExclusion},
	{Phrases: []string{"primary outcome"}, Section: SectionPrimaryOutcome},
	{Phrases: []string{"secondary outcome"}, Section: SectionSecondaryOutcome},
	{Phrases: []string{"target sample size"}, Section: SectionSampleSize},
	{Phrases: []string{"brief summary"}, Section: SectionSummary},
	{Phrases: []string{"publication details"}, Section: SectionPublication},
}

// sectionSeedField names the field that receives inline content trailing a
// section marker on the same extracted line. Only sections whose body is a
// free-text append have one.
var sectionSeedField = map[Section]string{
	SectionHealthCondition:  FieldHealthCondition,
	SectionIntervention:     FieldIntervention,
	SectionInclusion:        FieldInclusionCriteria,
	SectionExclusion:        FieldExclusionCriteria,
	SectionPrimaryOutcome:   FieldPrimaryOutcome,
	SectionSecondaryOutcome: FieldSecondaryOutcome,
	SectionSummary:          FieldBriefSummary,
	SectionPublication:      FieldPublicationDetails,
}

// ClassifySection maps a line to the section it opens, or returns ok=false
// when the line is not a section marker. Pure and stateless: the decision
// depends only on the line's own text.
func ClassifySection(line string) (Section, bool) {
	section, _, ok := classifySectionRest(line)
	return section, ok
}

// classifySectionRest additionally returns any inline content trailing the
// matched signature on the same line.
func classifySectionRest(line string) (Section, string, bool) {
	lower := strings.ToLower(line)
	for _, sig := range sectionSignatures {
		matched := true
		end := 0
		for _, phrase := range sig.Phrases {
			idx := strings.Index(lower, phrase)
			if idx < 0 {
				matched = false
				break
			}
			if idx+len(phrase) > end {
				end = idx + len(phrase)
			}
		}
		if !matched {
			continue
		}
		excluded := false
		for _, phrase := range sig.Exclude {
			if strings.Contains(lower, phrase) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		rest := strings.TrimSpace(strings.TrimLeft(line[end:], ":-) "))
		return sig.Section, rest, true
	}
	return SectionNone, "", false
}
