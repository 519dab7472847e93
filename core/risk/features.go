package risk

import (
	"time"

	"github.com/anvesha/backend/core/performance"
	"github.com/anvesha/backend/core/student"
)

// Extractor turns one student's records into a FeatureVector. The caller
// guarantees the student, profile and performance records exist; the
// extractor only guards against missing fields within them, substituting
// defaults instead of failing.
type Extractor struct {
	encoders *EncoderSet
}

func NewExtractor(encoders *EncoderSet) *Extractor {
	return &Extractor{encoders: encoders}
}

// Extract produces the 23-slot vector in the canonical FeatureNames order.
func (x *Extractor) Extract(
	std student.Student,
	prof student.Profile,
	perf performance.Performance,
	activities []performance.Activity,
	now time.Time,
) FeatureVector {
	return FeatureVector{
		x.encode("gender", std.Gender),
		float64(prof.Age),
		x.encode("caste", std.Caste),
		x.encode("area", std.Area),
		float64(prof.Standard),
		x.encode("state", std.State),
		x.encode("school", std.School),
		x.encode("maritalStatus", std.MaritalStatus),
		x.encode("course", std.Course),
		x.encode("previousQualification", std.PreviousQualification),
		x.encode("motherQualification", std.MotherQualification),
		x.encode("fatherQualification", std.FatherQualification),
		x.encode("motherOccupation", std.MotherOccupation),
		x.encode("fatherOccupation", std.FatherOccupation),
		x.encode("specialNeeds", std.SpecialNeeds),
		x.encode("debtor", std.Debtor),
		x.encode("tuitionUpToDate", std.TuitionUpToDate),
		x.encode("scholarshipHolder", std.ScholarshipHolder),
		boolToFloat(std.ProfileCompleted),
		float64(daysSinceRegistration(std.RegisteredOn, now)),
		float64(totalActivityMinutes(activities)),
		attendanceRate(perf.Attendance),
		averageScore(perf.SubjectScores),
	}
}

func (x *Extractor) encode(feature, raw string) float64 {
	if raw == "" {
		raw = student.DefaultCategory
	}
	return float64(x.encoders.Encode(feature, raw))
}

func daysSinceRegistration(registeredOn, now time.Time) int {
	if registeredOn.IsZero() {
		return 0
	}
	return int(now.Sub(registeredOn).Hours() / 24)
}

func totalActivityMinutes(activities []performance.Activity) int {
	var total int
	for _, act := range activities {
		total += act.TotalMinutes()
	}
	return total
}

// attendanceRate is 0 when no days are recorded; division by zero must never
// surface as an error.
func attendanceRate(att student.Attendance) float64 {
	if att.TotalDays == 0 {
		return 0
	}
	return float64(att.PresentDays) / float64(att.TotalDays)
}

func averageScore(scores []performance.SubjectScore) float64 {
	if len(scores) == 0 {
		return 0
	}
	var total float64
	for _, s := range scores {
		total += s.Score
	}
	return total / float64(len(scores))
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
