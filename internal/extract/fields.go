package extract

// Field names of the trial record schema. The schema is fixed and versioned
// with the code; the registry's field vocabulary changes rarely enough that
// a YAML overlay (see vocabulary.go) covers the gap between releases.
const (
	FieldCTRINumber        = "CTRI_Number"
	FieldRegistrationDate  = "Registration_Date"
	FieldLastModified      = "Last_Modified"
	FieldPostGradThesis    = "Post_Graduate_Thesis"
	FieldTypeOfTrial       = "Type_of_Trial"
	FieldTypeOfStudy       = "Type_of_Study"
	FieldStudyDesign       = "Study_Design"
	FieldPublicTitle       = "Public_Title"
	FieldScientificTitle   = "Scientific_Title"
	FieldAcronym           = "Acronym"
	FieldSecondaryIDs      = "Secondary_IDs"
	FieldStudyURL          = "Study_URL"

	FieldPIName        = "PI_Name"
	FieldPIDesignation = "PI_Designation"
	FieldPIAffiliation = "PI_Affiliation"
	FieldPIAddress     = "PI_Address"
	FieldPIPhone       = "PI_Phone"
	FieldPIFax         = "PI_Fax"
	FieldPIEmail       = "PI_Email"

	FieldSCName        = "SC_Name"
	FieldSCDesignation = "SC_Designation"
	FieldSCAffiliation = "SC_Affiliation"
	FieldSCAddress     = "SC_Address"
	FieldSCPhone       = "SC_Phone"
	FieldSCFax         = "SC_Fax"
	FieldSCEmail       = "SC_Email"

	FieldPCName        = "PC_Name"
	FieldPCDesignation = "PC_Designation"
	FieldPCAffiliation = "PC_Affiliation"
	FieldPCAddress     = "PC_Address"
	FieldPCPhone       = "PC_Phone"
	FieldPCFax         = "PC_Fax"
	FieldPCEmail       = "PC_Email"

	FieldMonetarySupport       = "Source_of_Monetary_Support"
	FieldPrimarySponsorName    = "Primary_Sponsor_Name"
	FieldPrimarySponsorAddress = "Primary_Sponsor_Address"
	FieldPrimarySponsorType    = "Primary_Sponsor_Type"
	FieldSecondarySponsors     = "Secondary_Sponsors"
	FieldCountries             = "Countries_of_Recruitment"

	FieldSites            = "Sites_of_Study"
	FieldTotalSites       = "Total_Sites"
	FieldEthicsCommittees = "Ethics_Committees"
	FieldRegulatoryStatus = "Regulatory_Status"

	FieldHealthCondition = "Health_Condition"
	FieldHealthType      = "Health_Type"
	FieldIntervention    = "Intervention"
	FieldComparatorAgent = "Comparator_Agent"

	FieldAgeFrom           = "Inclusion_Age_From"
	FieldAgeTo             = "Inclusion_Age_To"
	FieldGender            = "Inclusion_Gender"
	FieldInclusionCriteria = "Inclusion_Criteria"
	FieldExclusionCriteria = "Exclusion_Criteria"

	FieldRandomSequence = "Method_of_Generating_Random_Sequence"
	FieldConcealment    = "Method_of_Concealment"
	FieldBlinding       = "Blinding_Masking"

	FieldPrimaryOutcome   = "Primary_Outcome"
	FieldSecondaryOutcome = "Secondary_Outcome"

	FieldPhase                = "Phase"
	FieldTargetSampleSize     = "Target_Sample_Size"
	FieldSampleSizeIndia      = "Sample_Size_India"
	FieldFinalEnrollmentTotal = "Final_Enrollment_Total"
	FieldFinalEnrollmentIndia = "Final_Enrollment_India"
	FieldFirstEnrollIndia     = "Date_of_First_Enrollment_India"
	FieldFirstEnrollGlobal    = "Date_of_First_Enrollment_Global"
	FieldCompletionIndia      = "Date_of_Study_Completion_India"
	FieldCompletionGlobal     = "Date_of_Study_Completion_Global"
	FieldEstimatedDuration    = "Estimated_Duration"
	FieldRecruitmentIndia     = "Recruitment_Status_India"
	FieldRecruitmentGlobal    = "Recruitment_Status_Global"

	FieldPublicationDetails = "Publication_Details"
	FieldBriefSummary       = "Brief_Summary"

	FieldGeneticMarkers    = "Genetic_Markers"
	FieldMarkerEvidence    = "Marker_Evidence"
	FieldTreatmentLine     = "Treatment_Line"
	FieldDiseaseStage      = "Disease_Stage"
	FieldPerformanceStatus = "Performance_Status"
	FieldPriorTreatment    = "Prior_Treatment"
	FieldUncategorized     = "Uncategorized_Data"
)

// FieldSchema lists every record field in export order.
var FieldSchema = []string{
	FieldCTRINumber, FieldRegistrationDate, FieldLastModified,
	FieldPostGradThesis, FieldTypeOfTrial, FieldTypeOfStudy, FieldStudyDesign,
	FieldPublicTitle, FieldScientificTitle, FieldAcronym, FieldSecondaryIDs,
	FieldStudyURL,

	FieldPIName, FieldPIDesignation, FieldPIAffiliation, FieldPIAddress,
	FieldPIPhone, FieldPIFax, FieldPIEmail,
	FieldSCName, FieldSCDesignation, FieldSCAffiliation, FieldSCAddress,
	FieldSCPhone, FieldSCFax, FieldSCEmail,
	FieldPCName, FieldPCDesignation, FieldPCAffiliation, FieldPCAddress,
	FieldPCPhone, FieldPCFax, FieldPCEmail,

	FieldMonetarySupport, FieldPrimarySponsorName, FieldPrimarySponsorAddress,
	FieldPrimarySponsorType, FieldSecondarySponsors, FieldCountries,

	FieldSites, FieldTotalSites, FieldEthicsCommittees, FieldRegulatoryStatus,

	FieldHealthCondition, FieldHealthType, FieldIntervention,
	FieldComparatorAgent,

	FieldAgeFrom, FieldAgeTo, FieldGender, FieldInclusionCriteria,
	FieldExclusionCriteria,

	FieldRandomSequence, FieldConcealment, FieldBlinding,

	FieldPrimaryOutcome, FieldSecondaryOutcome,

	FieldPhase, FieldTargetSampleSize, FieldSampleSizeIndia,
	FieldFinalEnrollmentTotal, FieldFinalEnrollmentIndia,
	FieldFirstEnrollIndia, FieldFirstEnrollGlobal,
	FieldCompletionIndia, FieldCompletionGlobal,
	FieldEstimatedDuration, FieldRecruitmentIndia, FieldRecruitmentGlobal,

	FieldPublicationDetails, FieldBriefSummary,

	FieldGeneticMarkers, FieldMarkerEvidence, FieldTreatmentLine,
	FieldDiseaseStage, FieldPerformanceStatus, FieldPriorTreatment,
	FieldUncategorized,
}

// additiveFields maps the fields that accumulate instead of keeping the
// first write. Everything absent from this map is writeOnce.
var additiveFields = map[string]writePolicy{
	FieldSecondaryIDs:      appendList,
	FieldMonetarySupport:   appendList,
	FieldSecondarySponsors: appendList,
	FieldCountries:         appendList,
	FieldSites:             appendList,
	FieldEthicsCommittees:  appendList,
	FieldHealthCondition:   appendList,
	FieldIntervention:      appendList,
	FieldComparatorAgent:   appendList,
	FieldPrimaryOutcome:    appendList,
	FieldSecondaryOutcome:  appendList,
	FieldGeneticMarkers:    appendList,
	FieldMarkerEvidence:    appendList,
	FieldInclusionCriteria: appendText,
	FieldExclusionCriteria: appendText,
	FieldBriefSummary:      appendText,
	FieldUncategorized:     appendText,
}

// labelField is one entry of the single-line label table: a line starting
// with Label writes its remainder to Field.
type labelField struct {
	Label string
	Field string
}

// singleLineLabels is the fixed label→field table for lines that carry
// their whole value on one line. Order matters: longer labels first where
// one label is a prefix of another.
var singleLineLabels = []labelField{
	{"CTRI Number", FieldCTRINumber},
	{"Registered on:", FieldRegistrationDate},
	{"Date of Registration", FieldRegistrationDate},
	{"Last Modified On:", FieldLastModified},
	{"Last Modified On", FieldLastModified},
	{"Post Graduate Thesis", FieldPostGradThesis},
	{"Type of Trial", FieldTypeOfTrial},
	{"Type of Study", FieldTypeOfStudy},
	{"Study Design", FieldStudyDesign},
	{"Acronym", FieldAcronym},
	{"Phase of Trial", FieldPhase},
	{"Phase", FieldPhase},
	{"Method of Generating Random Sequence", FieldRandomSequence},
	{"Method of Concealment", FieldConcealment},
	{"Blinding/Masking", FieldBlinding},
	{"Blinding and masking", FieldBlinding},
	{"Total Sample Size", FieldTargetSampleSize},
	{"Sample Size from India", FieldSampleSizeIndia},
	{"Final Enrollment numbers achieved (Total)", FieldFinalEnrollmentTotal},
	{"Final Enrollment numbers achieved (India)", FieldFinalEnrollmentIndia},
	{"Date of First Enrollment (India)", FieldFirstEnrollIndia},
	{"Date of First Enrollment (Global)", FieldFirstEnrollGlobal},
	{"Date of Study Completion (India)", FieldCompletionIndia},
	{"Date of Study Completion (Global)", FieldCompletionGlobal},
	{"Estimated Duration of Trial", FieldEstimatedDuration},
	{"Recruitment Status of Trial (Global)", FieldRecruitmentGlobal},
	{"Recruitment Status of Trial (India)", FieldRecruitmentIndia},
}

// multilineTitles announces the two fields whose values wrap over several
// lines and are collected through the multiline buffer.
var multilineTitles = []labelField{
	{"Public Title of Study", FieldPublicTitle},
	{"Scientific Title of Study", FieldScientificTitle},
	{"Public Title", FieldPublicTitle},
	{"Scientific Title", FieldScientificTitle},
}

// stopPhrases truncate a buffered title value at the point where the next
// section's label bled into the same extracted line.
var stopPhrases = []string{
	"Secondary IDs if Any",
	"Details of Principal Investigator",
	"Details Contact Person",
	"Post Graduate Thesis",
	"Type of Trial",
	"Study Design",
	"Source of Monetary",
}

// contactLabels are the per-contact-section label prefixes. The active
// section chooses the field prefix (PI_, SC_, PC_).
var contactLabels = []string{
	"Name", "Designation", "Affiliation", "Address", "Phone", "Fax", "Email",
}

// contactFieldPrefix maps a contact section to its field-name prefix.
var contactFieldPrefix = map[Section]string{
	SectionPrincipalInvestigator: "PI_",
	SectionScientificContact:     "SC_",
	SectionPublicContact:         "PC_",
}

// boilerplateMarkers identify generator noise that must never reach a field
// value or the uncategorized bucket.
var boilerplateMarkers = []string{
	"ctri website url",
	"http://ctri.nic.in",
	"https://ctri.nic.in",
	"clinical trials registry- india",
	"clinical trials registry - india",
	"national institute of medical statistics",
	"pdf of trial",
	"downloaded from",
	"icmr- nims",
	"no. of pages",
}

// placeholderTokens are stripped wherever they appear as a whole word
// during the cleaning pass.
var placeholderTokens = []string{
	"Not Applicable", "NOT APPLICABLE", "not applicable",
	"N/A", "n/a", "NA",
	"NIL", "Nil", "nil",
	"None", "NONE", "none",
	"TBA", "To be announced",
}
