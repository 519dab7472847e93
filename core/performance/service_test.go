package performance_test

import (
	"context"
	"testing"
	"time"

	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/student"
	dummydb "github.com/anvesha/backend/storage/database/dummy"
)

type fixture struct {
	svc      *performance.Service
	repo     performance.Repository
	students student.Repository
}

func setup(t *testing.T) fixture {
	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}
	students := dummydb.NewStudentRepository(db)
	repo := dummydb.NewPerformanceRepository(db)
	return fixture{
		svc:      performance.NewService(repo, students),
		repo:     repo,
		students: students,
	}
}

func createStudent(t *testing.T, fix fixture) student.Student {
	std, err := fix.students.CreateStudent(context.Background(),
		student.NewDefaultStudent("Perf Student", "perf@test.test", time.Now().UTC()))
	if err != nil {
		t.Fatalf("CreateStudent() failed: %v", err)
	}
	return std
}

func TestService_InitStudent(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	std := createStudent(t, fix)

	if err := fix.svc.InitStudent(ctx, std.ID); err != nil {
		t.Fatalf("InitStudent() failed: %v", err)
	}

	perf, err := fix.svc.Get(ctx, std.ID)
	if err != nil {
		t.Fatalf("Get() failed: %v", err)
	}
	if perf.RiskLabel != performance.RiskLabelNotCalculated {
		t.Errorf("RiskLabel = %q, want %q", perf.RiskLabel, performance.RiskLabelNotCalculated)
	}
	if len(perf.SubjectScores) != 1 || perf.SubjectScores[0].SubjectID == "" {
		t.Errorf("SubjectScores = %+v, want one seeded entry with a generated id", perf.SubjectScores)
	}

	activities, err := fix.svc.ListActivities(ctx, std.ID)
	if err != nil {
		t.Fatalf("ListActivities() failed: %v", err)
	}
	if len(activities) != 1 || activities[0].CourseID != "default_course_id" {
		t.Errorf("activities = %+v, want the seeded default course", activities)
	}
}

func TestService_Rebuild(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	std := createStudent(t, fix)

	day1 := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	day2 := time.Date(2021, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := fix.repo.CreateActivity(ctx, performance.Activity{
		StudentID:   std.ID,
		CourseID:    "noc21-cs01",
		CourseTitle: "Data Structures",
		Logs: []performance.ActivityEntry{
			{Date: day1, DurationMinutes: 40},
			{Date: day2, DurationMinutes: 35},
		},
	})
	if err != nil {
		t.Fatalf("CreateActivity() failed: %v", err)
	}

	perf, activities, err := fix.svc.Rebuild(ctx, std.ID)
	if err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("activities = %d, want 1", len(activities))
	}

	// score simulated from the latest entry: 70 + 35%30 = 75
	if len(perf.SubjectScores) != 1 || perf.SubjectScores[0].Score != 75 {
		t.Errorf("SubjectScores = %+v, want one score of 75", perf.SubjectScores)
	}
	if len(perf.TimeSpent) != 1 || perf.TimeSpent[0].Minutes != 75 {
		t.Errorf("TimeSpent = %+v, want 75 total minutes", perf.TimeSpent)
	}
	wantProgress := []performance.DailyProgress{
		{Date: "2021-03-01", Progress: 4},
		{Date: "2021-03-02", Progress: 3},
	}
	if len(perf.DailyProgress) != len(wantProgress) {
		t.Fatalf("DailyProgress = %+v, want %+v", perf.DailyProgress, wantProgress)
	}
	for i, want := range wantProgress {
		if perf.DailyProgress[i] != want {
			t.Errorf("DailyProgress[%d] = %+v, want %+v", i, perf.DailyProgress[i], want)
		}
	}

	// no profile: active days count as present days over the current month
	if perf.Attendance.PresentDays != 2 {
		t.Errorf("Attendance.PresentDays = %d, want 2", perf.Attendance.PresentDays)
	}
	if perf.Attendance.TotalDays < 28 || perf.Attendance.TotalDays > 31 {
		t.Errorf("Attendance.TotalDays = %d, want days in current month", perf.Attendance.TotalDays)
	}
}

func TestService_Rebuild_prefersProfileAttendance(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	std := createStudent(t, fix)

	_, err := fix.students.CreateProfile(ctx, student.Profile{
		StudentID:  std.ID,
		Attendance: student.Attendance{TotalDays: 20, PresentDays: 17},
	})
	if err != nil {
		t.Fatalf("CreateProfile() failed: %v", err)
	}

	perf, _, err := fix.svc.Rebuild(ctx, std.ID)
	if err != nil {
		t.Fatalf("Rebuild() failed: %v", err)
	}
	want := student.Attendance{TotalDays: 20, PresentDays: 17}
	if perf.Attendance != want {
		t.Errorf("Attendance = %+v, want %+v", perf.Attendance, want)
	}
}

func TestService_AddActivity(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	std := createStudent(t, fix)

	in := performance.NewActivityInput{
		CourseID:    "noc21-cs01",
		CourseTitle: "Data Structures",
		Origin:      "NPTEL",
		JoinLink:    "https://nptel.ac.in/course/noc21-cs01",
	}
	act, err := fix.svc.AddActivity(ctx, std.ID, in)
	if err != nil {
		t.Fatalf("AddActivity() failed: %v", err)
	}
	if act.CourseID != in.CourseID || len(act.Logs) != 0 {
		t.Errorf("activity = %+v, want empty log for %q", act, in.CourseID)
	}

	// same course again is a conflict
	if _, err = fix.svc.AddActivity(ctx, std.ID, in); err != performance.ErrActivityExists {
		t.Errorf("AddActivity() error = %v, want ErrActivityExists", err)
	}
}

func TestService_LogActivity(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	std := createStudent(t, fix)

	if _, err := fix.svc.AddActivity(ctx, std.ID, performance.NewActivityInput{
		CourseID:    "noc21-cs01",
		CourseTitle: "Data Structures",
		Origin:      "NPTEL",
		JoinLink:    "https://nptel.ac.in/course/noc21-cs01",
	}); err != nil {
		t.Fatalf("AddActivity() failed: %v", err)
	}

	if err := fix.svc.LogActivity(ctx, std.ID, "noc21-cs01", 30); err != nil {
		t.Fatalf("LogActivity() failed: %v", err)
	}
	// same day again increments instead of appending
	if err := fix.svc.LogActivity(ctx, std.ID, "noc21-cs01", 15); err != nil {
		t.Fatalf("LogActivity() failed: %v", err)
	}

	activities, err := fix.svc.ListActivities(ctx, std.ID)
	if err != nil {
		t.Fatalf("ListActivities() failed: %v", err)
	}
	if len(activities) != 1 {
		t.Fatalf("activities = %d, want 1", len(activities))
	}
	logs := activities[0].Logs
	if len(logs) != 1 || logs[0].DurationMinutes != 45 {
		t.Errorf("logs = %+v, want one entry of 45 minutes", logs)
	}

	if err = fix.svc.LogActivity(ctx, std.ID, "unknown-course", 10); err != performance.ErrActivityNotFound {
		t.Errorf("LogActivity() error = %v, want ErrActivityNotFound", err)
	}

	if err = fix.svc.LogActivity(ctx, std.ID, "noc21-cs01", 0); err == nil {
		t.Error("LogActivity() expected error for non-positive duration")
	}
}

func TestService_UpdateTimeSpentFromActivity(t *testing.T) {
	fix := setup(t)
	ctx := context.Background()
	std := createStudent(t, fix)

	if _, err := fix.svc.UpdateTimeSpentFromActivity(ctx, std.ID); err != performance.ErrNoActivities {
		t.Errorf("UpdateTimeSpentFromActivity() error = %v, want ErrNoActivities", err)
	}

	day := time.Date(2021, 3, 1, 0, 0, 0, 0, time.UTC)
	for _, act := range []performance.Activity{
		{StudentID: std.ID, CourseID: "b", CourseTitle: "Biology", Logs: []performance.ActivityEntry{{Date: day, DurationMinutes: 20}}},
		{StudentID: std.ID, CourseID: "a", CourseTitle: "Algebra", Logs: []performance.ActivityEntry{{Date: day, DurationMinutes: 50}}},
	} {
		if _, err := fix.repo.CreateActivity(ctx, act); err != nil {
			t.Fatalf("CreateActivity() failed: %v", err)
		}
	}

	// a performance record must exist for the persisting update
	if err := fix.svc.InitStudent(ctx, std.ID); err != nil {
		t.Fatalf("InitStudent() failed: %v", err)
	}

	ts, err := fix.svc.UpdateTimeSpentFromActivity(ctx, std.ID)
	if err != nil {
		t.Fatalf("UpdateTimeSpentFromActivity() failed: %v", err)
	}
	// sorted by title; the seeded default course contributes 0 minutes
	if len(ts) < 2 || ts[0].Subject > ts[1].Subject {
		t.Fatalf("time spent = %+v, want title-sorted entries", ts)
	}
	byTitle := make(map[string]int, len(ts))
	for _, entry := range ts {
		byTitle[entry.Subject] = entry.Minutes
	}
	if byTitle["Algebra"] != 50 || byTitle["Biology"] != 20 {
		t.Errorf("time spent = %+v, want Algebra=50 Biology=20", ts)
	}
}
