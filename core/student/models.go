package student

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

// Default values applied at registration, before the student completes
// their profile. The trained encoders know these as ordinary categories.
const (
	DefaultCategory     = "Unknown"
	DefaultNotSpecified = "Not specified"
	DefaultAge          = 18
)

type (
	// Student is the registration-owned record: identity plus the
	// demographic attributes consumed by the risk pipeline. Demographics
	// are mutated by profile updates; the record is never deleted.
	Student struct {
		ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
		Name         string             `bson:"name" json:"name"`
		Email        string             `bson:"email" json:"email"`
		PasswordHash []byte             `bson:"passwordHash" json:"-"`

		Gender                string `bson:"gender" json:"gender"`
		Caste                 string `bson:"caste" json:"caste"`
		Area                  string `bson:"area" json:"area"`
		State                 string `bson:"state" json:"state"`
		School                string `bson:"school" json:"school"`
		MaritalStatus         string `bson:"maritalStatus" json:"maritalStatus"`
		Course                string `bson:"course" json:"course"`
		PreviousQualification string `bson:"previousQualification" json:"previousQualification"`
		MotherQualification   string `bson:"motherQualification" json:"motherQualification"`
		FatherQualification   string `bson:"fatherQualification" json:"fatherQualification"`
		MotherOccupation      string `bson:"motherOccupation" json:"motherOccupation"`
		FatherOccupation      string `bson:"fatherOccupation" json:"fatherOccupation"`
		SpecialNeeds          string `bson:"specialNeeds" json:"specialNeeds"`
		Debtor                string `bson:"debtor" json:"debtor"`
		TuitionUpToDate       string `bson:"tuitionUpToDate" json:"tuitionUpToDate"`
		ScholarshipHolder     string `bson:"scholarshipHolder" json:"scholarshipHolder"`

		ProfileCompleted bool      `bson:"profileCompleted" json:"profileCompleted"`
		RegisteredOn     time.Time `bson:"registeredOn" json:"registeredOn"` // UTC
	}

	// Attendance is the (total days, present days) summary carried on both
	// the profile and the performance record.
	Attendance struct {
		TotalDays   int `bson:"totalDays" json:"totalDays"`
		PresentDays int `bson:"presentDays" json:"presentDays"`
	}

	// Profile is the secondary demographic record, one-to-one with Student,
	// created with explicit defaults at registration.
	Profile struct {
		ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
		StudentID  primitive.ObjectID `bson:"studentId" json:"studentId"`
		Age        int                `bson:"age" json:"age"`
		Standard   int                `bson:"standard" json:"standard"`
		Attendance Attendance         `bson:"attendance" json:"attendance"`
	}
)

func (s *Student) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	s.PasswordHash = hash
	return nil
}

func (s *Student) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(s.PasswordHash, []byte(pwd))
}

// NewDefaultStudent returns a Student with every categorical attribute set to
// its registration default.
func NewDefaultStudent(name, email string, now time.Time) Student {
	return Student{
		Name:                  name,
		Email:                 email,
		Gender:                DefaultNotSpecified,
		Caste:                 DefaultCategory,
		Area:                  DefaultCategory,
		State:                 DefaultCategory,
		School:                DefaultNotSpecified,
		MaritalStatus:         DefaultCategory,
		Course:                DefaultCategory,
		PreviousQualification: DefaultCategory,
		MotherQualification:   DefaultCategory,
		FatherQualification:   DefaultCategory,
		MotherOccupation:      DefaultCategory,
		FatherOccupation:      DefaultCategory,
		SpecialNeeds:          DefaultCategory,
		Debtor:                DefaultCategory,
		TuitionUpToDate:       DefaultCategory,
		ScholarshipHolder:     DefaultCategory,
		ProfileCompleted:      false,
		RegisteredOn:          now,
	}
}
