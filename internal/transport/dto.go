package transport

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/studenthub/backend/internal/models"
	"github.com/studenthub/backend/internal/service"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3"`
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type AddressRequest struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	ZipCode string `json:"zip_code"`
}

type CreateStudentRequest struct {
	StudentID string          `json:"student_id" validate:"required"`
	FirstName string          `json:"first_name" validate:"required"`
	LastName  string          `json:"last_name"  validate:"required"`
	Email     string          `json:"email"      validate:"required,email"`
	Age       int             `json:"age"        validate:"required,min=1,max=100"`
	Grade     string          `json:"grade"      validate:"required"`
	Course    string          `json:"course"     validate:"required"`
	Phone     string          `json:"phone"      validate:"required"`
	Address   *AddressRequest `json:"address"`
}

func (r *CreateStudentRequest) ToModel() *models.Student {
	st := &models.Student{
		StudentID: strings.TrimSpace(r.StudentID),
		FirstName: strings.TrimSpace(r.FirstName),
		LastName:  strings.TrimSpace(r.LastName),
		Email:     r.Email,
		Age:       r.Age,
		Grade:     strings.TrimSpace(r.Grade),
		Course:    strings.TrimSpace(r.Course),
		Phone:     strings.TrimSpace(r.Phone),
	}
	if r.Address != nil {
		st.Address = models.Address(*r.Address)
	}
	return st
}

// UpdateStudentRequest is a partial payload: absent fields stay unchanged.
type UpdateStudentRequest struct {
	StudentID *string         `json:"student_id" validate:"omitempty,min=1"`
	FirstName *string         `json:"first_name" validate:"omitempty,min=1"`
	LastName  *string         `json:"last_name"  validate:"omitempty,min=1"`
	Email     *string         `json:"email"      validate:"omitempty,email"`
	Age       *int            `json:"age"        validate:"omitempty,min=1,max=100"`
	Grade     *string         `json:"grade"      validate:"omitempty,min=1"`
	Course    *string         `json:"course"     validate:"omitempty,min=1"`
	Phone     *string         `json:"phone"      validate:"omitempty,min=1"`
	Address   *AddressRequest `json:"address"`
}

func (r *UpdateStudentRequest) ToPatch() service.StudentPatch {
	patch := service.StudentPatch{
		StudentID: r.StudentID,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Age:       r.Age,
		Grade:     r.Grade,
		Course:    r.Course,
		Phone:     r.Phone,
	}
	if r.Address != nil {
		addr := models.Address(*r.Address)
		patch.Address = &addr
	}
	return patch
}

var validate = newValidator()

// newValidator reports fields by their json names so error messages
// match the wire format.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate runs the struct tags and folds failures into one message.
func Validate(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var validateErrs validator.ValidationErrors
	if !errors.As(err, &validateErrs) {
		return fmt.Errorf("invalid body: %w", service.ErrValidation)
	}

	msgs := make([]string, 0, len(validateErrs))
	for _, e := range validateErrs {
		switch e.ActualTag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("field %s is required", fieldName(e)))
		case "email":
			msgs = append(msgs, fmt.Sprintf("field %s must be a valid email address", fieldName(e)))
		case "min", "max":
			msgs = append(msgs, fmt.Sprintf("field %s is out of range", fieldName(e)))
		default:
			msgs = append(msgs, fmt.Sprintf("field %s is invalid", fieldName(e)))
		}
	}
	return fmt.Errorf("%s: %w", strings.Join(msgs, ", "), service.ErrValidation)
}

func fieldName(e validator.FieldError) string {
	return strings.ToLower(e.Field())
}
