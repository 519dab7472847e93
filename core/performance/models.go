package performance

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core/student"
)

// RiskLabelNotCalculated is the riskLabel placeholder before the first
// prediction run writes a real label.
const RiskLabelNotCalculated = "Not calculated"

type (
	SubjectScore struct {
		SubjectID string  `bson:"subjectId" json:"subjectId"`
		Subject   string  `bson:"subject" json:"subject"`
		Score     float64 `bson:"score" json:"score"`
	}

	TimeSpent struct {
		Subject string `bson:"subject" json:"subject"`
		Minutes int    `bson:"minutes" json:"minutes"`
	}

	DailyProgress struct {
		Date     string `bson:"date" json:"date"` // YYYY-MM-DD
		Progress int    `bson:"progress" json:"progress"`
	}

	// Performance is the aggregated analytics record, one per student.
	// riskScore and riskLabel are written by the risk pipeline; everything
	// else is recomputed from the activity logs.
	Performance struct {
		ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
		StudentID     primitive.ObjectID `bson:"studentId" json:"studentId"`
		SubjectScores []SubjectScore     `bson:"subjectScores" json:"subjectScores"`
		TimeSpent     []TimeSpent        `bson:"timeSpent" json:"timeSpent"`
		DailyProgress []DailyProgress    `bson:"dailyProgress" json:"dailyProgress"`
		Attendance    student.Attendance `bson:"attendance" json:"attendance"`
		RiskScore     int                `bson:"riskScore" json:"riskScore"`
		RiskLabel     string             `bson:"riskLabel" json:"riskLabel"`
		LastUpdated   time.Time          `bson:"lastUpdated" json:"lastUpdated"` // UTC
	}

	ActivityEntry struct {
		Date            time.Time `bson:"date" json:"date"` // UTC, truncated to day
		DurationMinutes int       `bson:"durationMinutes" json:"durationMinutes"`
	}

	// Activity is the per-course engagement log.
	Activity struct {
		ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
		StudentID    primitive.ObjectID `bson:"studentId" json:"studentId"`
		CourseID     string             `bson:"courseId" json:"courseId"`
		CourseTitle  string             `bson:"courseTitle" json:"courseTitle"`
		Origin       string             `bson:"origin" json:"origin"`
		JoinLink     string             `bson:"joinLink" json:"joinLink"`
		Logs         []ActivityEntry    `bson:"activityLogs" json:"activityLogs"`
		LastAccessed time.Time          `bson:"lastAccessed" json:"lastAccessed"` // UTC
	}
)

// TotalMinutes sums the duration of every log entry.
func (a Activity) TotalMinutes() int {
	var total int
	for _, entry := range a.Logs {
		total += entry.DurationMinutes
	}
	return total
}
