package client

import (
	"context"

	"github.com/frahmantamala/employee-admin/internal/core/events"
	"github.com/frahmantamala/employee-admin/internal/employee"
	"github.com/frahmantamala/employee-admin/internal/storage"
)

// FormController holds a draft employee for the create and edit flows. All
// mutations produce fresh values; the draft never aliases list state. Both
// flows run the same client-side validation as the server's create path.
type FormController struct {
	api API
	bus *events.EventBus

	draft employee.CreateEmployeeDTO
	image *employee.ImageUpload
}

func NewFormController(api API, bus *events.EventBus) *FormController {
	return &FormController{api: api, bus: bus}
}

// Draft returns a copy of the current draft.
func (fc *FormController) Draft() employee.CreateEmployeeDTO {
	draft := fc.draft
	draft.Course = append(employee.CourseList(nil), fc.draft.Course...)
	return draft
}

func (fc *FormController) SetName(v string)        { fc.draft.Name = v }
func (fc *FormController) SetEmail(v string)       { fc.draft.Email = v }
func (fc *FormController) SetMobile(v string)      { fc.draft.Mobile = v }
func (fc *FormController) SetDesignation(v string) { fc.draft.Designation = v }
func (fc *FormController) SetGender(v string)      { fc.draft.Gender = v }

// ToggleCourse adds the code if absent, removes it if present — the
// checkbox semantics of the original form.
func (fc *FormController) ToggleCourse(code string) {
	fc.draft.Course = fc.draft.Course.Toggle(code)
}

// AttachImage accepts only jpeg and png. Any other type raises a
// notification and leaves the draft's image unchanged.
func (fc *FormController) AttachImage(filename, contentType string, data []byte) error {
	if !storage.IsAllowedImageType(contentType) {
		fc.notifyError("Only JPG and PNG images are allowed")
		return &APIError{Code: "INVALID_IMAGE_TYPE", Message: "only jpeg and png images are allowed"}
	}
	fc.image = &employee.ImageUpload{
		Filename:    filename,
		ContentType: contentType,
		Data:        data,
	}
	return nil
}

// Image returns the currently attached upload, nil when none.
func (fc *FormController) Image() *employee.ImageUpload {
	return fc.image
}

// Validate runs the shared create rules against the draft.
func (fc *FormController) Validate() error {
	return fc.draft.Validate()
}

// SubmitCreate validates, submits the multipart create and resets the draft
// on success.
func (fc *FormController) SubmitCreate() (*employee.Employee, error) {
	if err := fc.Validate(); err != nil {
		fc.notifyError(err.Error())
		return nil, err
	}

	emp, err := fc.api.CreateEmployee(fc.Draft(), fc.image)
	if err != nil {
		fc.notifyError(err.Error())
		return nil, err
	}

	fc.Reset()
	fc.notifyInfo("Employee created successfully")
	return emp, nil
}

// LoadForEdit fills the draft from an existing record.
func (fc *FormController) LoadForEdit(emp *employee.Employee) {
	fc.draft = employee.CreateEmployeeDTO{
		Name:        emp.Name,
		Email:       emp.Email,
		Mobile:      emp.Mobile,
		Designation: emp.Designation,
		Gender:      emp.Gender,
		Course:      append(employee.CourseList(nil), emp.Course...),
	}
	fc.image = nil
}

// SubmitEdit runs the same client-side checks as create, then sends the
// whole draft through the update path. The server does not re-validate
// updates; this check is the courtesy gate.
func (fc *FormController) SubmitEdit(id int64) (*employee.Employee, error) {
	if err := fc.Validate(); err != nil {
		fc.notifyError(err.Error())
		return nil, err
	}

	draft := fc.Draft()
	course := draft.Course
	dto := employee.UpdateEmployeeDTO{
		Name:        &draft.Name,
		Email:       &draft.Email,
		Mobile:      &draft.Mobile,
		Designation: &draft.Designation,
		Gender:      &draft.Gender,
		Course:      &course,
	}

	emp, err := fc.api.UpdateEmployee(id, dto)
	if err != nil {
		fc.notifyError(err.Error())
		return nil, err
	}

	fc.notifyInfo("Employee updated successfully")
	return emp, nil
}

// Reset clears the draft and any attached image.
func (fc *FormController) Reset() {
	fc.draft = employee.CreateEmployeeDTO{}
	fc.image = nil
}

func (fc *FormController) notifyInfo(msg string) {
	if fc.bus != nil {
		_ = fc.bus.PublishSync(context.Background(), events.NewNotification(events.LevelInfo, msg))
	}
}

func (fc *FormController) notifyError(msg string) {
	if fc.bus != nil {
		_ = fc.bus.PublishSync(context.Background(), events.NewNotification(events.LevelError, msg))
	}
}
