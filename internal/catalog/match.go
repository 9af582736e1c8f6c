package catalog

import "strings"

// Normalize lower-cases s, collapses whitespace runs to a single space and
// trims the result.
func Normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

func compact(s string) string {
	return strings.ReplaceAll(s, " ", "")
}

// FindJob resolves a free-text career goal to a catalog entry.
//
// An exact match (normalized titles equal, or equal once spaces are removed)
// is preferred over a substring match in either direction. Among substring
// matches the first entry in catalog order wins. A blank goal never matches,
// and neither does an entry whose title normalizes to "".
func (c *Catalog) FindJob(goal string) (JobMapping, bool) {
	g := Normalize(goal)
	if g == "" || c == nil {
		return JobMapping{}, false
	}
	gc := compact(g)

	for _, j := range c.jobs {
		t := Normalize(j.JobTitle)
		if t == "" {
			continue
		}
		if t == g || compact(t) == gc {
			return j, true
		}
	}

	for _, j := range c.jobs {
		t := Normalize(j.JobTitle)
		if t == "" {
			continue
		}
		if strings.Contains(t, g) || strings.Contains(g, t) {
			return j, true
		}
	}

	return JobMapping{}, false
}
