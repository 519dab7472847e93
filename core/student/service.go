package student

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/anvesha/backend/core"
)

var (
	// errors
	ErrNotFound        = errors.New("student not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrEmailExists     = errors.New("a student with this email already exists")
)

type (
	Repository interface {
		CreateStudent(ctx context.Context, std Student) (Student, error)
		GetStudentByID(ctx context.Context, id primitive.ObjectID) (Student, error)
		GetStudentByEmail(ctx context.Context, email string) (Student, error)
		UpdateStudent(ctx context.Context, std Student) (Student, error)
		CreateProfile(ctx context.Context, prof Profile) (Profile, error)
		GetProfileByStudentID(ctx context.Context, studentID primitive.ObjectID) (Profile, error)
		UpdateProfile(ctx context.Context, prof Profile) (Profile, error)
	}

	// Bootstrapper seeds the dependent records (performance analytics,
	// course activity log) that every new student starts with.
	Bootstrapper interface {
		InitStudent(ctx context.Context, studentID primitive.ObjectID) error
	}

	ServiceInterface interface {
		Register(ctx context.Context, in RegisterInput) (Student, error)
		Authenticate(ctx context.Context, email, pwd string) (Student, error)
		GetByID(ctx context.Context, id primitive.ObjectID) (Student, error)
		GetProfile(ctx context.Context, studentID primitive.ObjectID) (Student, Profile, error)
		UpdateProfile(ctx context.Context, studentID primitive.ObjectID, in UpdateProfileInput) (Student, Profile, error)
		RequestPasswordReset(ctx context.Context, email string) error
		ResetPassword(ctx context.Context, in ResetPasswordInput) error
	}

	Service struct {
		conf      *core.Config
		repo      Repository
		bootstrap Bootstrapper
		mail      core.EmailService
	}
)

var _ ServiceInterface = (*Service)(nil)

func NewService(conf *core.Config, repo Repository, bootstrap Bootstrapper, mail core.EmailService) *Service {
	return &Service{conf: conf, repo: repo, bootstrap: bootstrap, mail: mail}
}

// Register creates the student with default demographics, a default profile
// and the dependent analytics records.
func (svc *Service) Register(ctx context.Context, in RegisterInput) (Student, error) {
	email := core.CleanString(in.Email, true /* lower */)
	if _, err := svc.repo.GetStudentByEmail(ctx, email); err == nil {
		return Student{}, core.NewValidationError(ErrEmailExists, core.FieldError{Field: "email", Error: ErrEmailExists.Error()})
	} else if err != ErrNotFound {
		return Student{}, err
	}

	std := NewDefaultStudent(core.CleanString(in.Name), email, time.Now().UTC())
	if err := std.SetPassword(in.Password); err != nil {
		return Student{}, err
	}

	std, err := svc.repo.CreateStudent(ctx, std)
	if err != nil {
		return Student{}, err
	}

	prof := Profile{
		StudentID:  std.ID,
		Age:        DefaultAge,
		Standard:   0,
		Attendance: Attendance{},
	}
	if _, err = svc.repo.CreateProfile(ctx, prof); err != nil {
		return Student{}, err
	}

	if svc.bootstrap != nil {
		if err = svc.bootstrap.InitStudent(ctx, std.ID); err != nil {
			return Student{}, err
		}
	}
	return std, nil
}

func (svc *Service) Authenticate(ctx context.Context, email, pwd string) (Student, error) {
	std, err := svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return Student{}, err
	}
	if err = std.CheckPassword(pwd); err != nil {
		return Student{}, ErrNotFound
	}
	return std, nil
}

func (svc *Service) GetByID(ctx context.Context, id primitive.ObjectID) (Student, error) {
	return svc.repo.GetStudentByID(ctx, id)
}

func (svc *Service) GetProfile(ctx context.Context, studentID primitive.ObjectID) (Student, Profile, error) {
	std, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return Student{}, Profile{}, err
	}
	prof, err := svc.repo.GetProfileByStudentID(ctx, studentID)
	if err != nil {
		return Student{}, Profile{}, err
	}
	return std, prof, nil
}

// UpdateProfile writes the demographic attributes onto the student record and
// age/standard onto the profile record, then flags the profile as completed.
func (svc *Service) UpdateProfile(ctx context.Context, studentID primitive.ObjectID, in UpdateProfileInput) (Student, Profile, error) {
	std, err := svc.repo.GetStudentByID(ctx, studentID)
	if err != nil {
		return Student{}, Profile{}, err
	}
	prof, err := svc.repo.GetProfileByStudentID(ctx, studentID)
	if err != nil {
		return Student{}, Profile{}, err
	}

	if in.Name != "" {
		std.Name = core.CleanString(in.Name)
	}
	std.Gender = in.Gender
	std.State = in.State
	std.School = in.School
	setIfPresent(&std.Caste, in.Caste)
	setIfPresent(&std.Area, in.Area)
	setIfPresent(&std.MaritalStatus, in.MaritalStatus)
	setIfPresent(&std.Course, in.Course)
	setIfPresent(&std.PreviousQualification, in.PreviousQualification)
	setIfPresent(&std.MotherQualification, in.MotherQualification)
	setIfPresent(&std.FatherQualification, in.FatherQualification)
	setIfPresent(&std.MotherOccupation, in.MotherOccupation)
	setIfPresent(&std.FatherOccupation, in.FatherOccupation)
	setIfPresent(&std.SpecialNeeds, in.SpecialNeeds)
	setIfPresent(&std.Debtor, in.Debtor)
	setIfPresent(&std.TuitionUpToDate, in.TuitionUpToDate)
	setIfPresent(&std.ScholarshipHolder, in.ScholarshipHolder)
	std.ProfileCompleted = true

	prof.Age = in.Age
	prof.Standard = in.Standard

	if std, err = svc.repo.UpdateStudent(ctx, std); err != nil {
		return Student{}, Profile{}, err
	}
	if prof, err = svc.repo.UpdateProfile(ctx, prof); err != nil {
		return Student{}, Profile{}, err
	}
	return std, prof, nil
}

// RequestPasswordReset emails a reset link to the account with this email,
// if one exists.
func (svc *Service) RequestPasswordReset(ctx context.Context, email string) error {
	std, err := svc.repo.GetStudentByEmail(ctx, core.CleanString(email, true /* lower */))
	if err != nil {
		return err
	}
	return svc.sendPasswordResetMail(std)
}

func (svc *Service) sendPasswordResetMail(std Student) error {
	token, err := MakeToken(svc.conf, std)
	if err != nil {
		return err
	}

	link := fmt.Sprintf("%s/password-reset-confirm?uid=%s&token=%s", svc.conf.FrontendBaseURL, EncodeUID(std), token)
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: std.Name, Address: std.Email}},
		Subject: "Password reset",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYou requested a password reset for your %s account.\n"+
				"Follow the link below to choose a new password:\n\n%s\n\n"+
				"If you did not request this, you can safely ignore this email.",
			std.Name, svc.conf.AppName, link,
		),
	})
	return nil
}

// ResetPassword sets a new password on the account identified by a valid
// reset token. The token expires once the password changes.
func (svc *Service) ResetPassword(ctx context.Context, in ResetPasswordInput) error {
	id, err := decodeUID(in.UID)
	if err != nil {
		return core.NewValidationError(errInvalidToken)
	}
	std, err := svc.repo.GetStudentByID(ctx, id)
	if err != nil {
		if err == ErrNotFound {
			return core.NewValidationError(errInvalidToken)
		}
		return err
	}
	if err = verifyToken(svc.conf, std, in.Token); err != nil {
		return core.NewValidationError(err)
	}
	if err = std.SetPassword(in.Password); err != nil {
		return err
	}
	_, err = svc.repo.UpdateStudent(ctx, std)
	return err
}

func setIfPresent(dst *string, val string) {
	if val != "" {
		*dst = val
	}
}
