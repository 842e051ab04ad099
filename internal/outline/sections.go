package outline

import "encoding/json"

// SectionScore is the confidence reported for every section. It is a
// fixed value, not a computed one.
const SectionScore = 0.90

// maxSections is how many leading outline entries a document contributes.
const maxSections = 5

// Section is one heading in the multi-document aggregate.
type Section struct {
	Heading string  `json:"heading"`
	Page    int     `json:"page"`
	Score   float64 `json:"score"`
}

// DocumentSections is one document in the aggregate. Sections is nil for
// a document that failed to extract and serializes as null.
type DocumentSections struct {
	Filename string    `json:"filename"`
	Sections []Section `json:"sections"`
}

// Collection wraps the per-document sections with the request context,
// which is passed through verbatim.
type Collection struct {
	Persona   json.RawMessage    `json:"persona"`
	Job       json.RawMessage    `json:"job"`
	Documents []DocumentSections `json:"documents"`
}

// Sections returns the first outline entries of a document, in outline
// order. A nil outline marks a failed document.
func Sections(filename string, o *Outline) DocumentSections {
	ds := DocumentSections{Filename: filename}
	if o == nil {
		return ds
	}
	ds.Sections = make([]Section, 0, maxSections)
	for i, e := range o.Entries {
		if i == maxSections {
			break
		}
		ds.Sections = append(ds.Sections, Section{Heading: e.Text, Page: e.Page, Score: SectionScore})
	}
	return ds
}

// NewCollection builds an aggregate. Empty persona or job values become
// JSON empty strings.
func NewCollection(persona, job json.RawMessage, docs []DocumentSections) Collection {
	if len(persona) == 0 {
		persona = json.RawMessage(`""`)
	}
	if len(job) == 0 {
		job = json.RawMessage(`""`)
	}
	if docs == nil {
		docs = []DocumentSections{}
	}
	return Collection{Persona: persona, Job: job, Documents: docs}
}
