package recommend

import (
	"sort"

	"github.com/kalambet/cgs/internal/storage"
)

// ScoredCourse pairs a course with the number of missing skills it teaches.
type ScoredCourse struct {
	Course storage.Course
	Score  int
}

// Rank scores each course by counting its skill entries whose folded name is
// in missing, drops courses scoring zero and sorts the rest by score
// descending. Equal scores keep their input order.
func Rank(courses []storage.Course, missing SkillSet) []ScoredCourse {
	scored := make([]ScoredCourse, 0, len(courses))
	if len(missing) == 0 {
		return scored
	}

	for _, c := range courses {
		score := 0
		for _, sk := range c.Skills {
			if _, ok := missing[Fold(sk)]; ok {
				score++
			}
		}
		if score > 0 {
			scored = append(scored, ScoredCourse{Course: c, Score: score})
		}
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return scored[i].Score > scored[j].Score
	})
	return scored
}

// Courses strips scores, preserving order. The result is never nil.
func Courses(scored []ScoredCourse) []storage.Course {
	out := make([]storage.Course, len(scored))
	for i, sc := range scored {
		out[i] = sc.Course
	}
	return out
}
