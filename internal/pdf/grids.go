package pdf

import (
	"strings"

	"github.com/trialscan/ctri-extract/internal/extract"
)

// cellGap is the minimum horizontal gap, in PDF points, separating two
// text runs into distinct table cells. CTRI registration PDFs lay out
// their tables with generous column spacing, so the threshold can be
// fairly large without merging columns.
const cellGap = 14.0

// minGridRows is the smallest run of multi-cell rows treated as a table.
const minGridRows = 2

// textCell is one positioned cell of a page row.
type textCell struct {
	X    float64
	Text string
}

// textRow is one horizontal row of cells, in left-to-right order.
type textRow struct {
	Cells []textCell
}

func (r textRow) joined() string {
	parts := make([]string, 0, len(r.Cells))
	for _, c := range r.Cells {
		if t := strings.TrimSpace(c.Text); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, " ")
}

func (r textRow) cellTexts() []string {
	out := make([]string, len(r.Cells))
	for i, c := range r.Cells {
		out[i] = strings.TrimSpace(c.Text)
	}
	return out
}

// splitRows separates a page's rows into the plain line stream and the
// detected table grids. A grid is a run of at least minGridRows adjacent
// rows that all have two or more cells; its rows are consumed by the grid
// and kept out of the line stream so the same text never reaches the
// record twice.
func splitRows(rows []textRow) (lines []string, grids []extract.TableGrid) {
	var run [][]string
	flushRun := func() {
		switch {
		case len(run) >= minGridRows:
			grids = append(grids, extract.TableGrid{Rows: run})
		default:
			// Too short to be a table: treat the rows as plain lines.
			for _, cells := range run {
				if line := strings.TrimSpace(strings.Join(cells, " ")); line != "" {
					lines = append(lines, line)
				}
			}
		}
		run = nil
	}

	for _, row := range rows {
		if len(row.Cells) >= 2 {
			run = append(run, row.cellTexts())
			continue
		}
		flushRun()
		if line := row.joined(); line != "" {
			lines = append(lines, line)
		}
	}
	flushRun()
	return lines, grids
}
