package recommend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/kalambet/cgs/internal/catalog"
	"github.com/kalambet/cgs/internal/storage"
)

// ErrCatalogUnavailable is returned when the job-skills catalog cannot be
// loaded or parsed. No partial recommendation accompanies it.
var ErrCatalogUnavailable = errors.New("job-skills catalog unavailable")

// Path identifies how the missing-skill set was derived.
type Path string

const (
	PathNone     Path = ""
	PathJobGoal  Path = "job_goal"
	PathSkillGap Path = "skill_gap"
)

// Reason explains the outcome of a recommendation, including empty ones.
type Reason string

const (
	ReasonRanked            Reason = "ranked"
	ReasonNoCourses         Reason = "no_courses"
	ReasonNoMissingSkills   Reason = "no_missing_skills"
	ReasonAlreadyQualified  Reason = "already_qualified"
	ReasonNoMatchingCourses Reason = "no_matching_courses"
	ReasonUnknownUser       Reason = "unknown_user"
)

// CatalogSource provides the job-skills catalog. Implemented by catalog.Loader.
type CatalogSource interface {
	Load(ctx context.Context) (*catalog.Catalog, error)
}

// Result is the outcome of one recommendation.
type Result struct {
	Ranked     []ScoredCourse
	Path       Path
	Reason     Reason
	MatchedJob string
	Missing    []string
}

// Courses returns the ranked courses without scores. Never nil.
func (r Result) Courses() []storage.Course {
	return Courses(r.Ranked)
}

// Engine picks between the career-goal path and the skill-gap path and
// ranks courses against the resulting missing skills.
type Engine struct {
	catalog CatalogSource
}

func NewEngine(src CatalogSource) *Engine {
	return &Engine{catalog: src}
}

// Recommend ranks courses for profile. The catalog is consulted only when the
// profile has a career goal; a goal that matches no catalog entry falls back
// to the skill-gap path.
func (e *Engine) Recommend(ctx context.Context, profile storage.UserProfile, courses []storage.Course) (Result, error) {
	start := time.Now()
	res, err := e.recommend(ctx, profile, courses)
	if err != nil {
		if errors.Is(err, ErrCatalogUnavailable) {
			catalogFailuresTotal.Inc()
		}
		return Result{Ranked: []ScoredCourse{}}, err
	}

	recommendationsTotal.WithLabelValues(string(res.Path), string(res.Reason)).Inc()
	recommendationDuration.WithLabelValues(string(res.Path)).Observe(time.Since(start).Seconds())
	recommendedCourses.Observe(float64(len(res.Ranked)))

	slog.Debug("recommendation computed",
		"email", profile.Email,
		"path", res.Path,
		"reason", res.Reason,
		"job", res.MatchedJob,
		"missing", res.Missing,
		"courses", len(res.Ranked),
	)
	return res, nil
}

func (e *Engine) recommend(ctx context.Context, profile storage.UserProfile, courses []storage.Course) (Result, error) {
	if len(courses) == 0 {
		return empty(PathNone, ReasonNoCourses), nil
	}

	userSkills := NewSkillSet(profile.Skills...)

	if strings.TrimSpace(profile.CareerGoal) == "" {
		return skillGap(courses, userSkills), nil
	}

	cat, err := e.catalog.Load(ctx)
	if err != nil {
		// A caller that went away is not a catalog outage.
		if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
			return Result{}, err
		}
		return Result{}, fmt.Errorf("%w: %w", ErrCatalogUnavailable, err)
	}

	job, ok := cat.FindJob(profile.CareerGoal)
	if !ok {
		return skillGap(courses, userSkills), nil
	}

	missing := Missing(userSkills, NewSkillSet(job.RequiredSkills...))
	if len(missing) == 0 {
		res := empty(PathJobGoal, ReasonAlreadyQualified)
		res.MatchedJob = job.JobTitle
		return res, nil
	}

	res := rankResult(PathJobGoal, courses, missing)
	res.MatchedJob = job.JobTitle
	return res, nil
}

func skillGap(courses []storage.Course, userSkills SkillSet) Result {
	missing := Missing(userSkills, ExtractSkills(courses...))
	if len(missing) == 0 {
		return empty(PathSkillGap, ReasonNoMissingSkills)
	}
	return rankResult(PathSkillGap, courses, missing)
}

func rankResult(path Path, courses []storage.Course, missing SkillSet) Result {
	res := Result{
		Ranked:  Rank(courses, missing),
		Path:    path,
		Reason:  ReasonRanked,
		Missing: missing.Sorted(),
	}
	if len(res.Ranked) == 0 {
		res.Reason = ReasonNoMatchingCourses
	}
	return res
}

func empty(path Path, reason Reason) Result {
	return Result{Ranked: []ScoredCourse{}, Path: path, Reason: reason, Missing: []string{}}
}
