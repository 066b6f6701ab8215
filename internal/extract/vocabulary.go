package extract

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"
)

// Vocabulary is an optional overlay on the built-in extraction tables,
// loaded from a YAML file. It lets a deployment pick up new registry
// labels or drug names without a code release. Overlay entries extend the
// built-in tables; they never remove them.
type Vocabulary struct {
	// Labels maps additional single-line labels to schema field names.
	Labels map[string]string `yaml:"labels"`
	// StopPhrases adds buffer truncation phrases.
	StopPhrases []string `yaml:"stop_phrases"`
	// Placeholders adds tokens stripped during the cleaning pass.
	Placeholders []string `yaml:"placeholders"`
	// MarkerDrugs adds marker→drug inference entries.
	MarkerDrugs map[string][]string `yaml:"marker_drugs"`
}

// LoadVocabulary reads a vocabulary overlay from a YAML file.
func LoadVocabulary(path string) (*Vocabulary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read vocabulary file: %w", err)
	}
	var v Vocabulary
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, fmt.Errorf("failed to parse vocabulary file: %w", err)
	}
	for label, field := range v.Labels {
		if !knownField(field) {
			return nil, fmt.Errorf("vocabulary label %q targets unknown field %q", label, field)
		}
	}
	return &v, nil
}

func knownField(name string) bool {
	for _, f := range FieldSchema {
		if f == name {
			return true
		}
	}
	return false
}

// vocabTables are the resolved extraction tables: the built-in data plus
// any overlay.
type vocabTables struct {
	labels       []labelField
	stops        []string
	placeholders []string
	markerDrugs  map[string][]string
}

func defaultTables() *vocabTables {
	return &vocabTables{
		labels:       singleLineLabels,
		stops:        stopPhrases,
		placeholders: placeholderTokens,
		markerDrugs:  markerDrugs,
	}
}

// resolve merges the overlay on top of the built-in tables.
func (v *Vocabulary) resolve() *vocabTables {
	t := defaultTables()
	if v == nil {
		return t
	}
	if len(v.Labels) > 0 {
		labels := make([]labelField, 0, len(singleLineLabels)+len(v.Labels))
		labels = append(labels, singleLineLabels...)
		for label, field := range v.Labels {
			labels = append(labels, labelField{Label: label, Field: field})
		}
		t.labels = labels
	}
	if len(v.StopPhrases) > 0 {
		t.stops = append(append([]string{}, stopPhrases...), v.StopPhrases...)
	}
	if len(v.Placeholders) > 0 {
		t.placeholders = append(append([]string{}, placeholderTokens...), v.Placeholders...)
	}
	if len(v.MarkerDrugs) > 0 {
		merged := make(map[string][]string, len(markerDrugs)+len(v.MarkerDrugs))
		for marker, drugs := range markerDrugs {
			merged[marker] = drugs
		}
		for marker, drugs := range v.MarkerDrugs {
			merged[marker] = append(append([]string{}, merged[marker]...), drugs...)
		}
		t.markerDrugs = merged
	}
	return t
}
