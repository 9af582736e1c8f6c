// Package recommend ranks courses by how many of a user's missing skills
// they teach.
package recommend

import (
	"sort"
	"strings"

	"github.com/kalambet/cgs/internal/storage"
)

// SkillSet is a set of case-folded skill names.
type SkillSet map[string]struct{}

// Fold is the canonical form used for every skill comparison.
func Fold(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewSkillSet folds names into a set. Blank names are dropped.
func NewSkillSet(names ...string) SkillSet {
	s := make(SkillSet, len(names))
	for _, n := range names {
		s.add(n)
	}
	return s
}

func (s SkillSet) add(name string) {
	if f := Fold(name); f != "" {
		s[f] = struct{}{}
	}
}

// Has reports whether name (folded) is in the set.
func (s SkillSet) Has(name string) bool {
	_, ok := s[Fold(name)]
	return ok
}

// Sorted returns the members in lexical order.
func (s SkillSet) Sorted() []string {
	out := make([]string, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ExtractSkills returns the union of the folded skills taught by courses.
func ExtractSkills(courses ...storage.Course) SkillSet {
	s := make(SkillSet)
	for _, c := range courses {
		for _, sk := range c.Skills {
			s.add(sk)
		}
	}
	return s
}

// Missing returns the skills in target that user does not have.
func Missing(user, target SkillSet) SkillSet {
	out := make(SkillSet, len(target))
	for sk := range target {
		if _, ok := user[sk]; !ok {
			out[sk] = struct{}{}
		}
	}
	return out
}

// FilterBySkill returns courses having a skill that contains query or is
// contained in it, ignoring case.
func FilterBySkill(courses []storage.Course, query string) []storage.Course {
	q := Fold(query)
	out := []storage.Course{}
	if q == "" {
		return out
	}
	for _, c := range courses {
		for _, sk := range c.Skills {
			f := Fold(sk)
			if f == "" {
				continue
			}
			if strings.Contains(f, q) || strings.Contains(q, f) {
				out = append(out, c)
				break
			}
		}
	}
	return out
}
