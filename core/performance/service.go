package performance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/student"
)

var (
	// errors
	ErrNotFound         = errors.New("performance record not found")
	ErrNoActivities     = errors.New("no course activity logs found")
	ErrActivityExists   = errors.New("course activity already exists for this student")
	ErrActivityNotFound = errors.New("no matching course activity found")
)

type (
	Repository interface {
		CreatePerformance(ctx context.Context, perf Performance) (Performance, error)
		GetPerformanceByStudentID(ctx context.Context, studentID primitive.ObjectID) (Performance, error)
		// UpsertPerformance replaces the analytics fields keyed by studentId,
		// creating the record if absent. Risk fields are left untouched.
		UpsertPerformance(ctx context.Context, perf Performance) (Performance, error)
		UpdateTimeSpent(ctx context.Context, studentID primitive.ObjectID, ts []TimeSpent, at time.Time) error
		UpdateDailyProgress(ctx context.Context, studentID primitive.ObjectID, dp []DailyProgress, at time.Time) error

		CreateActivity(ctx context.Context, act Activity) (Activity, error)
		GetActivity(ctx context.Context, studentID primitive.ObjectID, courseID string) (Activity, error)
		ListActivitiesByStudentID(ctx context.Context, studentID primitive.ObjectID) ([]Activity, error)
		// LogActivity adds minutes to the entry for `day`, appending a new
		// entry when the course has none for that day yet.
		LogActivity(ctx context.Context, studentID primitive.ObjectID, courseID string, day time.Time, minutes int) error
	}

	ServiceInterface interface {
		InitStudent(ctx context.Context, studentID primitive.ObjectID) error
		Get(ctx context.Context, studentID primitive.ObjectID) (Performance, error)
		Rebuild(ctx context.Context, studentID primitive.ObjectID) (Performance, []Activity, error)
		UpdateTimeSpentFromActivity(ctx context.Context, studentID primitive.ObjectID) ([]TimeSpent, error)
		UpdateDailyProgressFromActivity(ctx context.Context, studentID primitive.ObjectID) ([]DailyProgress, error)
		ListActivities(ctx context.Context, studentID primitive.ObjectID) ([]Activity, error)
		AddActivity(ctx context.Context, studentID primitive.ObjectID, in NewActivityInput) (Activity, error)
		LogActivity(ctx context.Context, studentID primitive.ObjectID, courseID string, minutes int) error
	}

	Service struct {
		repo     Repository
		students student.Repository
	}
)

var _ ServiceInterface = (*Service)(nil)
var _ student.Bootstrapper = (*Service)(nil)

func NewService(repo Repository, students student.Repository) *Service {
	return &Service{repo: repo, students: students}
}

// InitStudent seeds the zero-valued analytics record and the placeholder
// course activity log every account starts with.
func (svc *Service) InitStudent(ctx context.Context, studentID primitive.ObjectID) error {
	now := time.Now().UTC()
	perf := Performance{
		StudentID:     studentID,
		SubjectScores: []SubjectScore{{SubjectID: uuid.New().String(), Subject: "", Score: 0}},
		TimeSpent:     []TimeSpent{{Subject: "", Minutes: 0}},
		DailyProgress: []DailyProgress{{Date: "1", Progress: 0}},
		Attendance:    student.Attendance{},
		RiskScore:     0,
		RiskLabel:     RiskLabelNotCalculated,
		LastUpdated:   now,
	}
	if _, err := svc.repo.CreatePerformance(ctx, perf); err != nil {
		return err
	}

	act := Activity{
		StudentID:    studentID,
		CourseID:     "default_course_id",
		CourseTitle:  "Default Course",
		Origin:       "NPTEL",
		JoinLink:     "https://nptel.ac.in/course/default",
		Logs:         []ActivityEntry{{Date: now, DurationMinutes: 0}},
		LastAccessed: now,
	}
	_, err := svc.repo.CreateActivity(ctx, act)
	return err
}

func (svc *Service) Get(ctx context.Context, studentID primitive.ObjectID) (Performance, error) {
	return svc.repo.GetPerformanceByStudentID(ctx, studentID)
}

// Rebuild recomputes the analytics record from the course activity logs and
// upserts it. Subject scores are simulated from the latest log entry until a
// real grading source exists.
func (svc *Service) Rebuild(ctx context.Context, studentID primitive.ObjectID) (Performance, []Activity, error) {
	activities, err := svc.repo.ListActivitiesByStudentID(ctx, studentID)
	if err != nil {
		return Performance{}, nil, err
	}

	var scores []SubjectScore
	var timeSpent []TimeSpent
	dailyMinutes := make(map[string]int)

	for _, act := range activities {
		var latest ActivityEntry
		if len(act.Logs) > 0 {
			latest = act.Logs[len(act.Logs)-1]
		}
		scores = append(scores, SubjectScore{
			SubjectID: act.CourseID,
			Subject:   act.CourseTitle,
			Score:     float64(70 + latest.DurationMinutes%30),
		})
		timeSpent = append(timeSpent, TimeSpent{Subject: act.CourseTitle, Minutes: act.TotalMinutes()})
		for _, entry := range act.Logs {
			dailyMinutes[entry.Date.Format("2006-01-02")] += entry.DurationMinutes
		}
	}

	progress := make([]DailyProgress, 0, len(dailyMinutes))
	for date, minutes := range dailyMinutes {
		progress = append(progress, DailyProgress{Date: date, Progress: minutes / 10})
	}
	sort.Slice(progress, func(i, j int) bool { return progress[i].Date < progress[j].Date })

	attendance, err := svc.attendanceFor(ctx, studentID, len(dailyMinutes))
	if err != nil {
		return Performance{}, nil, err
	}

	perf := Performance{
		StudentID:     studentID,
		SubjectScores: scores,
		TimeSpent:     timeSpent,
		DailyProgress: progress,
		Attendance:    attendance,
		LastUpdated:   time.Now().UTC(),
	}
	perf, err = svc.repo.UpsertPerformance(ctx, perf)
	if err != nil {
		return Performance{}, nil, err
	}
	return perf, activities, nil
}

// attendanceFor prefers the profile's attendance summary and falls back to
// treating active days as present days over the current month.
func (svc *Service) attendanceFor(ctx context.Context, studentID primitive.ObjectID, activeDays int) (student.Attendance, error) {
	prof, err := svc.students.GetProfileByStudentID(ctx, studentID)
	if err != nil {
		if err == student.ErrProfileNotFound {
			now := time.Now().UTC()
			return student.Attendance{TotalDays: daysInMonth(now), PresentDays: activeDays}, nil
		}
		return student.Attendance{}, err
	}
	if prof.Attendance.TotalDays == 0 && prof.Attendance.PresentDays == 0 {
		now := time.Now().UTC()
		return student.Attendance{TotalDays: daysInMonth(now), PresentDays: activeDays}, nil
	}
	return prof.Attendance, nil
}

func (svc *Service) UpdateTimeSpentFromActivity(ctx context.Context, studentID primitive.ObjectID) ([]TimeSpent, error) {
	activities, err := svc.repo.ListActivitiesByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, ErrNoActivities
	}

	byCourse := make(map[string]int)
	titles := make([]string, 0, len(activities))
	for _, act := range activities {
		if _, ok := byCourse[act.CourseTitle]; !ok {
			titles = append(titles, act.CourseTitle)
		}
		byCourse[act.CourseTitle] += act.TotalMinutes()
	}
	sort.Strings(titles)

	timeSpent := make([]TimeSpent, 0, len(titles))
	for _, title := range titles {
		timeSpent = append(timeSpent, TimeSpent{Subject: title, Minutes: byCourse[title]})
	}
	return timeSpent, svc.repo.UpdateTimeSpent(ctx, studentID, timeSpent, time.Now().UTC())
}

func (svc *Service) UpdateDailyProgressFromActivity(ctx context.Context, studentID primitive.ObjectID) ([]DailyProgress, error) {
	activities, err := svc.repo.ListActivitiesByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if len(activities) == 0 {
		return nil, ErrNoActivities
	}

	dailyMinutes := make(map[string]int)
	for _, act := range activities {
		for _, entry := range act.Logs {
			dailyMinutes[entry.Date.Format("2006-01-02")] += entry.DurationMinutes
		}
	}

	progress := make([]DailyProgress, 0, len(dailyMinutes))
	for date, minutes := range dailyMinutes {
		progress = append(progress, DailyProgress{Date: date, Progress: minutes})
	}
	sort.Slice(progress, func(i, j int) bool { return progress[i].Date < progress[j].Date })

	return progress, svc.repo.UpdateDailyProgress(ctx, studentID, progress, time.Now().UTC())
}

func (svc *Service) ListActivities(ctx context.Context, studentID primitive.ObjectID) ([]Activity, error) {
	return svc.repo.ListActivitiesByStudentID(ctx, studentID)
}

func (svc *Service) AddActivity(ctx context.Context, studentID primitive.ObjectID, in NewActivityInput) (Activity, error) {
	if _, err := svc.repo.GetActivity(ctx, studentID, in.CourseID); err == nil {
		return Activity{}, ErrActivityExists
	} else if err != ErrActivityNotFound {
		return Activity{}, err
	}

	act := Activity{
		StudentID:    studentID,
		CourseID:     in.CourseID,
		CourseTitle:  in.CourseTitle,
		Origin:       in.Origin,
		JoinLink:     in.JoinLink,
		Logs:         []ActivityEntry{},
		LastAccessed: time.Now().UTC(),
	}
	return svc.repo.CreateActivity(ctx, act)
}

func (svc *Service) LogActivity(ctx context.Context, studentID primitive.ObjectID, courseID string, minutes int) error {
	if minutes <= 0 {
		return fmt.Errorf("duration must be positive: %d", minutes)
	}
	today := time.Now().UTC().Truncate(24 * time.Hour)
	return svc.repo.LogActivity(ctx, studentID, courseID, today, minutes)
}

func daysInMonth(t time.Time) int {
	return time.Date(t.Year(), t.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
