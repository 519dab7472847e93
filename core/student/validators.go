package student

import (
	"fmt"
	"strings"
	"unicode"

	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/anvesha/backend/core"
)

var (
	// password policy
	pwdMinLen     = 8
	pwdMinLenTag  = "pwdminlen"
	pwdMinLenText = fmt.Sprintf("password must contain at least %d characters", pwdMinLen)

	pwdNoSpaceTag  = "pwdnospace"
	pwdNoSpaceText = "password must not contain whitespace"

	pwdNotAllNumTag  = "pwdnotallnum"
	pwdNotAllNumText = "password cannot be entirely numeric"

	pwdMaxSim      = .7
	pwdAttrSimTag  = "pwdtoosim"
	pwdAttrSimText = "password cannot be similar to name or email"
)

// InitValidators registers this package's struct validations and translations.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	validate.RegisterStructValidation(registerStructValidation, RegisterInput{})

	core.RegisterCustomTranslation(validate, translator, pwdMinLenTag, pwdMinLenText)
	core.RegisterCustomTranslation(validate, translator, pwdNoSpaceTag, pwdNoSpaceText)
	core.RegisterCustomTranslation(validate, translator, pwdNotAllNumTag, pwdNotAllNumText)
	core.RegisterCustomTranslation(validate, translator, pwdAttrSimTag, pwdAttrSimText)
}

type (
	RegisterInput struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	LoginInput struct {
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	PasswordResetRequest struct {
		Email string `json:"email" validate:"required,email"`
	}

	ResetPasswordInput struct {
		Token           string `json:"token,omitempty" validate:"required"`
		UID             string `json:"uid,omitempty" validate:"required"`
		Password        string `json:"password,omitempty" validate:"required"`
		PasswordConfirm string `json:"password_confirm,omitempty" validate:"required,eqfield=Password"`
	}

	UpdateProfileInput struct {
		Name     string `json:"name"`
		Email    string `json:"email" validate:"omitempty,email"`
		Gender   string `json:"gender" validate:"required"`
		Age      int    `json:"age" validate:"required,gte=0"`
		Standard int    `json:"standard" validate:"gte=0"`
		State    string `json:"state" validate:"required"`
		School   string `json:"school" validate:"required"`

		Caste                 string `json:"caste"`
		Area                  string `json:"area"`
		MaritalStatus         string `json:"maritalStatus"`
		Course                string `json:"course"`
		PreviousQualification string `json:"previousQualification"`
		MotherQualification   string `json:"motherQualification"`
		FatherQualification   string `json:"fatherQualification"`
		MotherOccupation      string `json:"motherOccupation"`
		FatherOccupation      string `json:"fatherOccupation"`
		SpecialNeeds          string `json:"specialNeeds"`
		Debtor                string `json:"debtor"`
		TuitionUpToDate       string `json:"tuitionUpToDate"`
		ScholarshipHolder     string `json:"scholarshipHolder"`
	}
)

func (in *RegisterInput) Validate(validate *validator.Validate) error {
	in.Name = core.CleanString(in.Name)
	in.Email = core.CleanString(in.Email, true /* lower */)
	return validate.Struct(in)
}

func (in *LoginInput) Validate(validate *validator.Validate) error {
	in.Email = core.CleanString(in.Email, true /* lower */)
	return validate.Struct(in)
}

func (in *PasswordResetRequest) Validate(validate *validator.Validate) error {
	in.Email = core.CleanString(in.Email, true /* lower */)
	return validate.Struct(in)
}

func (in *ResetPasswordInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}

func (in *UpdateProfileInput) Validate(validate *validator.Validate) error {
	return validate.Struct(in)
}

func registerStructValidation(sl validator.StructLevel) {
	in := sl.Current().Interface().(RegisterInput)
	if in.Password == "" {
		return // `required` reports it
	}

	if len(in.Password) < pwdMinLen {
		sl.ReportError(in.Password, "Password", "password", pwdMinLenTag, "")
	}
	if strings.ContainsAny(in.Password, " \t\n") {
		sl.ReportError(in.Password, "Password", "password", pwdNoSpaceTag, "")
	}
	if isAllNumeric(in.Password) {
		sl.ReportError(in.Password, "Password", "password", pwdNotAllNumTag, "")
	}
	getRatio := func(pass, attr string) float64 {
		if attr == "" {
			return 0
		}
		return difflib.NewMatcher(strings.Split(pass, ""), strings.Split(attr, "")).QuickRatio()
	}
	pwd := strings.ToLower(in.Password)
	if getRatio(pwd, strings.ToLower(in.Name)) >= pwdMaxSim ||
		getRatio(pwd, strings.ToLower(in.Email)) >= pwdMaxSim {
		sl.ReportError(in.Password, "Password", "password", pwdAttrSimTag, "")
	}
}

func isAllNumeric(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
