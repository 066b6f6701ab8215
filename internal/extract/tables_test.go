package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func mergeOne(record *Record, grid TableGrid) {
	tctx := &tableContext{}
	mergeGrids(record, []TableGrid{grid}, tctx)
}

func TestMergeSitesTable(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Name of Principal Investigator", "Site Name", "Site Address", "Contact Email"},
		{"Dr. A Kumar", "Tata Memorial Hospital", "Parel, Mumbai", "a.kumar@tmh.org"},
		{"Dr. B Rao", "AIIMS", "New Delhi", "b.rao@aiims.edu"},
	}})
	assert.Equal(t,
		"Dr. A Kumar, Tata Memorial Hospital, Parel, Mumbai, a.kumar@tmh.org; "+
			"Dr. B Rao, AIIMS, New Delhi, b.rao@aiims.edu",
		record.Get(FieldSites))
	assert.Equal(t, "2", record.Get(FieldTotalSites))
}

func TestMergeSitesTableKeepsExistingTotal(t *testing.T) {
	record := NewRecord()
	record.Set(FieldTotalSites, "5")
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Name of Principal Investigator", "Site Name"},
		{"Dr. A Kumar", "Tata Memorial Hospital"},
	}})
	assert.Equal(t, "5", record.Get(FieldTotalSites))
}

func TestMergeInterventionTableSplitsByType(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Type", "Name", "Details"},
		{"Intervention", "Drug X", "400mg once daily"},
		{"Comparator Agent", "Placebo", "matching tablet"},
	}})
	assert.Equal(t, "Drug X: 400mg once daily", record.Get(FieldIntervention))
	assert.Equal(t, "Placebo: matching tablet", record.Get(FieldComparatorAgent))
}

func TestMergeEthicsTable(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Name of Committee", "Approval Status"},
		{"IEC Tata Memorial", "Approved"},
		{"IEC AIIMS", "Submitted/Under Review"},
	}})
	assert.Equal(t, "IEC Tata Memorial: Approved; IEC AIIMS: Submitted/Under Review",
		record.Get(FieldEthicsCommittees))
}

func TestMergeOutcomeTablesPositional(t *testing.T) {
	record := NewRecord()
	tctx := &tableContext{}
	mergeGrids(record, []TableGrid{
		{Rows: [][]string{
			{"Outcome", "Timepoints"},
			{"Overall survival", "24 months"},
		}},
		{Rows: [][]string{
			{"Outcome", "Timepoints"},
			{"Progression-free survival", "12 months"},
		}},
	}, tctx)
	assert.Equal(t, "Overall survival [24 months]", record.Get(FieldPrimaryOutcome))
	assert.Equal(t, "Progression-free survival [12 months]", record.Get(FieldSecondaryOutcome))
}

func TestMergeOutcomeTableEmptyDoesNotConsumePrimarySlot(t *testing.T) {
	record := NewRecord()
	tctx := &tableContext{}
	mergeGrids(record, []TableGrid{
		{Rows: [][]string{{"Outcome", "Timepoints"}}},
		{Rows: [][]string{
			{"Outcome", "Timepoints"},
			{"Overall survival", "24 months"},
		}},
	}, tctx)
	assert.Equal(t, "Overall survival [24 months]", record.Get(FieldPrimaryOutcome))
	assert.Empty(t, record.Get(FieldSecondaryOutcome))
}

func TestMergeHealthTypeTable(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Health Type", "Condition"},
		{"Patients", "Non-small cell lung cancer"},
	}})
	assert.Equal(t, "Patients", record.Get(FieldHealthType))
	assert.Equal(t, "Non-small cell lung cancer", record.Get(FieldHealthCondition))
}

func TestMergeSecondaryIDTable(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Secondary ID", "Registry"},
		{"NCT01234567", "ClinicalTrials.gov"},
		{"EUDRACT-2020-01", "EudraCT"},
	}})
	assert.Equal(t, "NCT01234567 / ClinicalTrials.gov; EUDRACT-2020-01 / EudraCT",
		record.Get(FieldSecondaryIDs))
}

func TestMergeSponsorTables(t *testing.T) {
	record := NewRecord()
	tctx := &tableContext{}
	mergeGrids(record, []TableGrid{
		{Rows: [][]string{
			{"Primary Sponsor Details", ""},
			{"Name", "Pharma Corp"},
			{"Address", "1 Research Way, Mumbai"},
			{"Type of Sponsor", "Pharmaceutical industry-Global"},
		}},
		{Rows: [][]string{
			{"Details of Secondary Sponsor", ""},
			{"Name", "Sponsor B"},
		}},
	}, tctx)
	assert.Equal(t, "Pharma Corp", record.Get(FieldPrimarySponsorName))
	assert.Equal(t, "1 Research Way, Mumbai", record.Get(FieldPrimarySponsorAddress))
	assert.Equal(t, "Pharmaceutical industry-Global", record.Get(FieldPrimarySponsorType))
	assert.Equal(t, "Sponsor B", record.Get(FieldSecondarySponsors))
}

func TestMergeContactTableRoutedBySectionMarker(t *testing.T) {
	record := NewRecord()
	tctx := &tableContext{}
	mergeGrids(record, []TableGrid{
		{Rows: [][]string{{"Details Contact Person (Scientific Query)"}}},
		{Rows: [][]string{
			{"Name", "Dr. Smith"},
			{"Phone", "022-12345"},
			{"Email", "smith@example.org"},
		}},
	}, tctx)
	assert.Equal(t, "Dr. Smith", record.Get(FieldSCName))
	assert.Equal(t, "022-12345", record.Get(FieldSCPhone))
	assert.Equal(t, "smith@example.org", record.Get(FieldSCEmail))
	assert.Empty(t, record.Get(FieldPIName))
}

func TestMergeContactTableWithoutMarkerIsDropped(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Name", "Dr. Smith"},
		{"Phone", "022-12345"},
	}})
	for _, prefix := range []string{"PI_", "SC_", "PC_"} {
		assert.Empty(t, record.Get(prefix+"Name"))
		assert.Empty(t, record.Get(prefix+"Phone"))
	}
}

func TestMergeSingleColumnTable(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Status Approved"},
	}})
	assert.Equal(t, "Approved", record.Get(FieldRegulatoryStatus))
}

func TestMergeUnknownShapeIsDropped(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{Rows: [][]string{
		{"Alpha", "Beta", "Gamma"},
		{"1", "2", "3"},
	}})
	for _, name := range FieldSchema {
		assert.Empty(t, record.Get(name), name)
	}
}

func TestMergeEmptyGrid(t *testing.T) {
	record := NewRecord()
	mergeOne(record, TableGrid{})
	assert.Nil(t, TableGrid{}.Header())
	assert.Nil(t, TableGrid{}.Body())
	for _, name := range FieldSchema {
		assert.Empty(t, record.Get(name), name)
	}
}
