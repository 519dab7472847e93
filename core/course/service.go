package course

import (
	"context"
	"errors"
	"sort"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/performance"
)

var ErrNotFound = errors.New("course not found")

// recommendationLimit caps how many scored courses a recommendation returns.
const recommendationLimit = 10

type (
	Repository interface {
		CreateCourses(ctx context.Context, courses []Course) error
		FilterCourses(ctx context.Context, filter Filter) ([]Course, error)
		GetCoursesByCourseIDs(ctx context.Context, courseIDs []string) ([]Course, error)
		// GetCoursesExcluding returns every course whose course_id is not in
		// the given set.
		GetCoursesExcluding(ctx context.Context, courseIDs []string) ([]Course, error)
	}

	// Recommendation pairs a catalog entry with its preference score.
	Recommendation struct {
		Course
		Score int `json:"score"`
	}

	ServiceInterface interface {
		Filter(ctx context.Context, filter Filter) ([]Course, error)
		Recommend(ctx context.Context, studentID primitive.ObjectID) ([]Recommendation, error)
	}

	Service struct {
		repo       Repository
		activities performance.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(repo Repository, activities performance.Repository) *Service {
	return &Service{repo: repo, activities: activities}
}

func (svc *Service) Filter(ctx context.Context, filter Filter) ([]Course, error) {
	return svc.repo.FilterCourses(ctx, filter)
}

// Recommend scores the catalog against the disciplines, domains and levels of
// the student's joined courses: one point per matching attribute, zero-score
// courses dropped, top results first.
func (svc *Service) Recommend(ctx context.Context, studentID primitive.ObjectID) ([]Recommendation, error) {
	activities, err := svc.activities.ListActivitiesByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	joinedIDs := make([]string, 0, len(activities))
	for _, act := range activities {
		joinedIDs = append(joinedIDs, act.CourseID)
	}

	joined, err := svc.repo.GetCoursesByCourseIDs(ctx, joinedIDs)
	if err != nil {
		return nil, err
	}

	disciplines := make(map[string]bool)
	domains := make(map[string]bool)
	levels := make(map[string]bool)
	for _, crs := range joined {
		if crs.Discipline != "" {
			disciplines[crs.Discipline] = true
		}
		if crs.Domain != "" {
			domains[crs.Domain] = true
		}
		if crs.Level != "" {
			levels[crs.Level] = true
		}
	}

	candidates, err := svc.repo.GetCoursesExcluding(ctx, joinedIDs)
	if err != nil {
		return nil, err
	}

	recs := make([]Recommendation, 0, len(candidates))
	for _, crs := range candidates {
		var score int
		if disciplines[crs.Discipline] {
			score++
		}
		if domains[crs.Domain] {
			score++
		}
		if levels[crs.Level] {
			score++
		}
		if score > 0 {
			recs = append(recs, Recommendation{Course: crs, Score: score})
		}
	}
	sort.SliceStable(recs, func(i, j int) bool { return recs[i].Score > recs[j].Score })

	if len(recs) > recommendationLimit {
		recs = recs[:recommendationLimit]
	}
	return recs, nil
}
