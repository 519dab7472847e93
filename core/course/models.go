package course

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Course is a catalog entry imported from the NPTEL course list.
type Course struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CourseID   string             `bson:"course_id" json:"courseId"`
	Title      string             `bson:"title" json:"title"`
	Discipline string             `bson:"discipline" json:"discipline"`
	Instructor string             `bson:"instructor" json:"instructor"`
	Institute  string             `bson:"institute" json:"institute"`
	Duration   string             `bson:"duration" json:"duration"`
	Level      string             `bson:"level" json:"level"`   // UG/PG
	Origin     string             `bson:"origin" json:"origin"` // catalog source, e.g. NPTEL
	Domain     string             `bson:"nptel_domain" json:"domain"`
	JoinLink   string             `bson:"join_link" json:"joinLink"`
}

// Filter narrows a catalog listing; zero-valued fields are ignored.
type Filter struct {
	Discipline string
	Origin     string
	Level      string
}
