// Package catalog holds the job-to-skills mapping used to turn a free-text
// career goal into a list of required skills.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformed is returned when catalog data cannot be decoded or lacks the
// jobSkillsMapping list.
var ErrMalformed = errors.New("malformed job-skills catalog")

// JobMapping is one catalog entry.
type JobMapping struct {
	JobTitle       string   `json:"jobTitle"`
	RequiredSkills []string `json:"requiredSkills"`
}

// Catalog is an ordered, read-only list of job mappings. Order matters: the
// first matching entry wins during substring lookup.
type Catalog struct {
	jobs []JobMapping
	raw  []byte
}

type document struct {
	JobSkillsMapping *[]JobMapping `json:"jobSkillsMapping"`
}

// Parse decodes a catalog document of the form
// {"jobSkillsMapping": [{"jobTitle": ..., "requiredSkills": [...]}]}.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if doc.JobSkillsMapping == nil {
		return nil, fmt.Errorf("%w: missing jobSkillsMapping", ErrMalformed)
	}

	raw := make([]byte, len(data))
	copy(raw, data)
	return &Catalog{jobs: *doc.JobSkillsMapping, raw: raw}, nil
}

// New builds a catalog from in-memory entries.
func New(jobs []JobMapping) *Catalog {
	c := &Catalog{jobs: append([]JobMapping(nil), jobs...)}
	c.raw, _ = json.Marshal(document{JobSkillsMapping: &c.jobs})
	return c
}

// Jobs returns a copy of the entries in catalog order.
func (c *Catalog) Jobs() []JobMapping {
	return append([]JobMapping(nil), c.jobs...)
}

func (c *Catalog) Len() int { return len(c.jobs) }

// Raw returns the document bytes the catalog was parsed from.
func (c *Catalog) Raw() []byte { return c.raw }
