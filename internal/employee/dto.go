package employee

import (
	"fmt"
	"regexp"

	"github.com/frahmantamala/employee-admin/internal"
)

var (
	emailPattern  = regexp.MustCompile(`^\S+@\S+\.\S+$`)
	mobilePattern = regexp.MustCompile(`^[0-9]{10}$`)
)

// CreateEmployeeDTO is the draft shape shared by the create handler and the
// client-side form. Course arrives serialized in the multipart form and is
// parsed before the DTO is built.
type CreateEmployeeDTO struct {
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Mobile      string     `json:"mobile"`
	Designation string     `json:"designation"`
	Gender      string     `json:"gender"`
	Course      CourseList `json:"course"`
}

// Validate checks the draft against the create rules. Order matters:
// required fields, then email shape, then mobile shape, then enum
// membership. Returns nil or an AppError carrying field-level details.
func (dto CreateEmployeeDTO) Validate() error {
	var fieldErrs []internal.ValidationError

	required := []struct {
		field string
		empty bool
	}{
		{"name", dto.Name == ""},
		{"email", dto.Email == ""},
		{"mobile", dto.Mobile == ""},
		{"designation", dto.Designation == ""},
		{"gender", dto.Gender == ""},
		{"course", len(dto.Course) == 0},
	}
	for _, r := range required {
		if r.empty {
			fieldErrs = append(fieldErrs, internal.ValidationError{
				Field:   r.field,
				Message: fmt.Sprintf("%s is required", r.field),
				Code:    string(internal.ErrCodeValidationFailed),
			})
		}
	}
	if len(fieldErrs) > 0 {
		return internal.NewValidationFieldErrors(fieldErrs)
	}

	if !emailPattern.MatchString(dto.Email) {
		return internal.NewValidationFieldError("email", "invalid email format", internal.ErrCodeInvalidEmail)
	}
	if !mobilePattern.MatchString(dto.Mobile) {
		return internal.NewValidationFieldError("mobile", "mobile number must be 10 digits", internal.ErrCodeInvalidMobile)
	}

	if !isOneOf(dto.Designation, Designations) {
		return internal.NewValidationFieldError("designation", "designation must be one of HR, Manager, Sales", internal.ErrCodeValidationFailed)
	}
	if !isOneOf(dto.Gender, Genders) {
		return internal.NewValidationFieldError("gender", "gender must be M or F", internal.ErrCodeValidationFailed)
	}
	for _, code := range dto.Course {
		if !isOneOf(code, CourseCodes) {
			return internal.NewValidationFieldError("course", fmt.Sprintf("unknown course code %q", code), internal.ErrCodeInvalidCourse)
		}
	}

	return nil
}

// UpdateEmployeeDTO carries a subset of mutable fields. Nil means the field
// was omitted and must be left untouched. The update path performs no
// shape or uniqueness re-validation; id and created_at are never settable.
type UpdateEmployeeDTO struct {
	Name        *string     `json:"name,omitempty"`
	Email       *string     `json:"email,omitempty"`
	Mobile      *string     `json:"mobile,omitempty"`
	Designation *string     `json:"designation,omitempty"`
	Gender      *string     `json:"gender,omitempty"`
	Course      *CourseList `json:"course,omitempty"`
	IsActive    *bool       `json:"is_active,omitempty"`
}

// ToUpdates converts the sparse DTO into a column/value map for the store.
func (dto UpdateEmployeeDTO) ToUpdates() map[string]interface{} {
	updates := make(map[string]interface{})
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Email != nil {
		updates["email"] = *dto.Email
	}
	if dto.Mobile != nil {
		updates["mobile"] = *dto.Mobile
	}
	if dto.Designation != nil {
		updates["designation"] = *dto.Designation
	}
	if dto.Gender != nil {
		updates["gender"] = *dto.Gender
	}
	if dto.Course != nil {
		updates["course"] = *dto.Course
	}
	if dto.IsActive != nil {
		updates["is_active"] = *dto.IsActive
	}
	return updates
}

// ImageUpload is an optional image payload attached to a create request.
type ImageUpload struct {
	Filename    string
	ContentType string
	Data        []byte
}
