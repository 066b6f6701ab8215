package extract

// Engine turns one document's extracted line stream and table grids into a
// Record. It holds no per-document state; every Extract call owns its own
// section, buffer and bucket, so one Engine may serve concurrent workers.
type Engine struct {
	vocab *vocabTables
}

// NewEngine creates an extraction engine with the built-in vocabulary.
func NewEngine() *Engine {
	return &Engine{vocab: defaultTables()}
}

// NewEngineWithVocabulary creates an engine with a vocabulary overlay
// applied on top of the built-in tables.
func NewEngineWithVocabulary(v *Vocabulary) *Engine {
	return &Engine{vocab: v.resolve()}
}

// Extract runs the full pipeline: normalize lines, accumulate fields,
// merge table grids, finalize. It never fails; empty input yields an
// all-empty Record.
func (e *Engine) Extract(lines []string, grids []TableGrid) *Record {
	record := NewRecord()

	normalized := NormalizeLines(lines)
	acc := newAccumulator(record, e.vocab)
	acc.run(normalized)

	tctx := &tableContext{contactSection: SectionNone}
	mergeGrids(record, grids, tctx)

	finalize(record, e.vocab)
	return record
}

// ExtractLines is Extract without table grids.
func (e *Engine) ExtractLines(lines []string) *Record {
	return e.Extract(lines, nil)
}
