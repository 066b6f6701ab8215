package extract

import "strings"

// ListDelimiter joins the values of additive list fields.
const ListDelimiter = "; "

// writePolicy controls how repeated extractions of the same field combine.
type writePolicy int

const (
	// writeOnce keeps the first non-empty value and ignores later writes.
	writeOnce writePolicy = iota
	// appendList joins values with ListDelimiter, skipping values already
	// contained in the field.
	appendList
	// appendText joins values with a single space.
	appendText
)

// Record is the flat output of one extracted trial registration. Every
// schema field is always present; an empty string means "not found".
type Record struct {
	fields map[string]string
}

// NewRecord returns a Record with every schema field set to the empty string.
func NewRecord() *Record {
	r := &Record{fields: make(map[string]string, len(FieldSchema))}
	for _, name := range FieldSchema {
		r.fields[name] = ""
	}
	return r
}

// Get returns the value of a field. Unknown field names read as empty.
func (r *Record) Get(name string) string {
	return r.fields[name]
}

// Set writes a value under the field's write policy. Empty values are
// ignored, so a bare label never clobbers data. Writes to names outside the
// schema are dropped.
func (r *Record) Set(name, value string) {
	value = strings.TrimSpace(value)
	if value == "" {
		return
	}
	if _, ok := r.fields[name]; !ok {
		return
	}

	switch fieldPolicy(name) {
	case writeOnce:
		if r.fields[name] == "" {
			r.fields[name] = value
		}
	case appendList:
		r.appendDelimited(name, value)
	case appendText:
		if r.fields[name] == "" {
			r.fields[name] = value
		} else {
			r.fields[name] += " " + value
		}
	}
}

// Overwrite replaces a field value unconditionally. Used by the finalize
// pass, which rewrites cleaned values in place.
func (r *Record) Overwrite(name, value string) {
	if _, ok := r.fields[name]; ok {
		r.fields[name] = value
	}
}

func (r *Record) appendDelimited(name, value string) {
	current := r.fields[name]
	if current == "" {
		r.fields[name] = value
		return
	}
	// De-duplicate by substring containment: "AIIMS Delhi" already covers
	// a later bare "AIIMS Delhi".
	if strings.Contains(strings.ToLower(current), strings.ToLower(value)) {
		return
	}
	r.fields[name] = current + ListDelimiter + value
}

// PopulatedCount returns how many schema fields hold a non-empty value,
// excluding the audit field. The batch layer uses it to decide whether an
// extraction is good enough or should fall back to scraping.
func (r *Record) PopulatedCount() int {
	n := 0
	for name, v := range r.fields {
		if name == FieldUncategorized {
			continue
		}
		if v != "" {
			n++
		}
	}
	return n
}

// Values returns the record as a plain map in no particular order.
func (r *Record) Values() map[string]string {
	out := make(map[string]string, len(r.fields))
	for k, v := range r.fields {
		out[k] = v
	}
	return out
}

// Row returns the field values in FieldSchema order, for tabular export.
func (r *Record) Row() []string {
	row := make([]string, len(FieldSchema))
	for i, name := range FieldSchema {
		row[i] = r.fields[name]
	}
	return row
}

// fieldPolicy returns the write policy for a field name.
func fieldPolicy(name string) writePolicy {
	if p, ok := additiveFields[name]; ok {
		return p
	}
	return writeOnce
}
