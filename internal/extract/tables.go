package extract

import (
	"strconv"
	"strings"
)

// TableGrid is one rectangular structured block extracted from the
// document, independent of the line stream. The first row is the header.
type TableGrid struct {
	Rows [][]string
}

// Header returns the header row, or nil for an empty grid.
func (g TableGrid) Header() []string {
	if len(g.Rows) == 0 {
		return nil
	}
	return g.Rows[0]
}

// Body returns all rows after the header.
func (g TableGrid) Body() [][]string {
	if len(g.Rows) < 2 {
		return nil
	}
	return g.Rows[1:]
}

// signature returns the lower-cased space-joined header used for shape
// dispatch.
func (g TableGrid) signature() string {
	return strings.ToLower(strings.Join(g.Header(), " "))
}

// tableContext threads the per-document table-routing state through one
// document's grid processing: which contact section was seen most recently
// (for two-column contact tables) and whether an outcome table was already
// taken as primary.
type tableContext struct {
	contactSection  Section
	outcomeConsumed bool
}

// mergeGrids classifies each grid by header signature and merges the
// matches into the record. Table extraction is best-effort: unmatched
// shapes are dropped, and fields already set by the line pass keep their
// values except where the field is additive.
func mergeGrids(record *Record, grids []TableGrid, tctx *tableContext) {
	for _, grid := range grids {
		noteContactMarkers(grid, tctx)
		mergeGrid(record, grid, tctx)
	}
}

// noteContactMarkers records the latest contact section header seen in a
// grid so a following two-column contact table lands on the right block.
func noteContactMarkers(grid TableGrid, tctx *tableContext) {
	for _, row := range grid.Rows {
		for _, cell := range row {
			section, ok := ClassifySection(cell)
			if !ok {
				continue
			}
			switch section {
			case SectionPrincipalInvestigator, SectionScientificContact, SectionPublicContact:
				tctx.contactSection = section
			}
		}
	}
}

func mergeGrid(record *Record, grid TableGrid, tctx *tableContext) {
	sig := grid.signature()
	switch {
	case strings.Contains(sig, "principal investigator") && strings.Contains(sig, "site name"):
		mergeSitesTable(record, grid)
	case strings.Contains(sig, "type") && strings.Contains(sig, "name") && strings.Contains(sig, "details"):
		mergeInterventionTable(record, grid)
	case strings.Contains(sig, "approval"):
		mergeEthicsTable(record, grid)
	case strings.Contains(sig, "outcome") && strings.Contains(sig, "timepoints"):
		mergeOutcomeTable(record, grid, tctx)
	case strings.Contains(sig, "health type") || strings.Contains(sig, "condition"):
		mergeHealthTypeTable(record, grid)
	case strings.Contains(sig, "secondary id") || (strings.Contains(sig, "id") && strings.Contains(sig, "registry")):
		mergeSecondaryIDTable(record, grid)
	case strings.Contains(sig, "sponsor") && strings.Contains(sig, "secondary"):
		mergeTwoColumn(record, grid, map[string]string{
			"name":    FieldSecondarySponsors,
			"address": "",
		})
	case strings.Contains(sig, "sponsor"):
		mergeTwoColumn(record, grid, map[string]string{
			"name":            FieldPrimarySponsorName,
			"address":         FieldPrimarySponsorAddress,
			"type of sponsor": FieldPrimarySponsorType,
		})
	case len(grid.Header()) == 1:
		mergeSingleColumn(record, grid)
	case len(grid.Header()) == 2 && tctx.contactSection != SectionNone:
		mergeContactTable(record, grid, tctx.contactSection)
	}
}

// mergeSitesTable emits one composite string per site row combining the
// PI, site name, address and contact columns.
func mergeSitesTable(record *Record, grid TableGrid) {
	cols := headerIndex(grid)
	count := 0
	for _, row := range grid.Body() {
		parts := make([]string, 0, 4)
		for _, key := range []string{"principal investigator", "site name", "address", "phone", "email"} {
			if v := cellAt(row, cols, key); v != "" {
				parts = append(parts, v)
			}
		}
		if len(parts) == 0 {
			continue
		}
		record.Set(FieldSites, strings.Join(parts, ", "))
		count++
	}
	if count > 0 && record.Get(FieldTotalSites) == "" {
		record.Set(FieldTotalSites, strconv.Itoa(count))
	}
}

// mergeInterventionTable splits rows into intervention vs. comparator by
// the type cell.
func mergeInterventionTable(record *Record, grid TableGrid) {
	cols := headerIndex(grid)
	for _, row := range grid.Body() {
		typ := strings.ToLower(cellAt(row, cols, "type"))
		name := cellAt(row, cols, "name")
		details := cellAt(row, cols, "details")
		value := name
		if details != "" {
			if value != "" {
				value += ": " + details
			} else {
				value = details
			}
		}
		if value == "" {
			continue
		}
		if strings.Contains(typ, "comparator") {
			record.Set(FieldComparatorAgent, value)
		} else {
			record.Set(FieldIntervention, value)
		}
	}
}

// mergeEthicsTable emits "name: status" pairs.
func mergeEthicsTable(record *Record, grid TableGrid) {
	cols := headerIndex(grid)
	for _, row := range grid.Body() {
		name := cellAt(row, cols, "name")
		if name == "" && len(row) > 0 {
			name = strings.TrimSpace(row[0])
		}
		status := cellAt(row, cols, "approval")
		if status == "" {
			status = cellAt(row, cols, "status")
		}
		if name == "" {
			continue
		}
		if status != "" {
			record.Set(FieldEthicsCommittees, name+": "+status)
		} else {
			record.Set(FieldEthicsCommittees, name)
		}
	}
}

// mergeOutcomeTable treats the first populated outcome table as primary
// and any later one of the same shape as secondary. This is the source
// system's positional heuristic; it is not validated against the
// line-based section labels.
func mergeOutcomeTable(record *Record, grid TableGrid, tctx *tableContext) {
	cols := headerIndex(grid)
	field := FieldPrimaryOutcome
	if tctx.outcomeConsumed {
		field = FieldSecondaryOutcome
	}
	populated := false
	for _, row := range grid.Body() {
		outcome := cellAt(row, cols, "outcome")
		timepoints := cellAt(row, cols, "timepoints")
		if outcome == "" && timepoints == "" {
			continue
		}
		value := outcome
		if timepoints != "" {
			if value != "" {
				value += " [" + timepoints + "]"
			} else {
				value = timepoints
			}
		}
		record.Set(field, value)
		populated = true
	}
	if populated {
		tctx.outcomeConsumed = true
	}
}

func mergeHealthTypeTable(record *Record, grid TableGrid) {
	cols := headerIndex(grid)
	for _, row := range grid.Body() {
		if v := cellAt(row, cols, "health type"); v != "" {
			record.Set(FieldHealthType, v)
		}
		if v := cellAt(row, cols, "condition"); v != "" {
			record.Set(FieldHealthCondition, v)
		}
	}
}

func mergeSecondaryIDTable(record *Record, grid TableGrid) {
	for _, row := range grid.Body() {
		parts := make([]string, 0, len(row))
		for _, cell := range row {
			cell = strings.TrimSpace(cell)
			if cell != "" {
				parts = append(parts, cell)
			}
		}
		if len(parts) > 0 {
			record.Set(FieldSecondaryIDs, strings.Join(parts, " / "))
		}
	}
}

// singleColumnLabels route lone-column cells the same way the line pass
// routes label lines.
var singleColumnLabels = []labelField{
	{"Source of Monetary or Material Support", FieldMonetarySupport},
	{"Countries of Recruitment", FieldCountries},
	{"Regulatory Clearance Status from DCGI", FieldRegulatoryStatus},
	{"Status", FieldRegulatoryStatus},
}

func mergeSingleColumn(record *Record, grid TableGrid) {
	for _, row := range grid.Rows {
		if len(row) == 0 {
			continue
		}
		cell := strings.TrimSpace(row[0])
		if cell == "" {
			continue
		}
		for _, lf := range singleColumnLabels {
			if hasLabelPrefix(cell, lf.Label) {
				if value := labelValue(cell, lf.Label); value != "" {
					record.Set(lf.Field, value)
				}
				break
			}
		}
	}
}

// mergeContactTable routes a generic two-column label/value table to the
// contact block chosen by the most recently seen contact section header.
func mergeContactTable(record *Record, grid TableGrid, section Section) {
	prefix, ok := contactFieldPrefix[section]
	if !ok {
		return
	}
	for _, row := range grid.Rows {
		if len(row) < 2 {
			continue
		}
		label := strings.TrimSpace(row[0])
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		for _, known := range contactLabels {
			if strings.EqualFold(label, known) {
				record.Set(prefix+known, value)
				break
			}
		}
	}
}

// mergeTwoColumn applies a label→field mapping to a two-column table,
// skipping labels mapped to the empty string.
func mergeTwoColumn(record *Record, grid TableGrid, mapping map[string]string) {
	for _, row := range grid.Rows {
		if len(row) < 2 {
			continue
		}
		label := strings.ToLower(strings.TrimSpace(row[0]))
		value := strings.TrimSpace(row[1])
		if value == "" {
			continue
		}
		if field, ok := mapping[label]; ok && field != "" {
			record.Set(field, value)
		}
	}
}

// headerIndex maps lower-cased header keywords to their column position.
func headerIndex(grid TableGrid) map[string]int {
	cols := make(map[string]int)
	for i, cell := range grid.Header() {
		cols[strings.ToLower(strings.TrimSpace(cell))] = i
	}
	return cols
}

// cellAt returns the trimmed cell in the column whose header contains key.
func cellAt(row []string, cols map[string]int, key string) string {
	for header, idx := range cols {
		if !strings.Contains(header, key) {
			continue
		}
		if idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
	}
	return ""
}
