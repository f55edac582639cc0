package employee

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"

	"github.com/frahmantamala/employee-admin/internal"
	"github.com/frahmantamala/employee-admin/internal/transport"
	"github.com/frahmantamala/employee-admin/pkg/logger"
)

type ServiceAPI interface {
	List() ([]*Employee, error)
	Get(id int64) (*Employee, error)
	Create(dto CreateEmployeeDTO, image *ImageUpload) (*Employee, error)
	Update(id int64, dto UpdateEmployeeDTO) (*Employee, error)
	Delete(id int64) error
}

type Handler struct {
	*transport.BaseHandler
	Service       ServiceAPI
	MaxUploadSize int64
}

func NewHandler(service ServiceAPI, maxUploadSize int64) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	if maxUploadSize <= 0 {
		maxUploadSize = 5 << 20
	}
	return &Handler{
		BaseHandler:   transport.NewBaseHandler(lg),
		Service:       service,
		MaxUploadSize: maxUploadSize,
	}
}

func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Service.List()
	if err != nil {
		h.Logger.Error("ListEmployees: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, employees)
}

func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	emp, err := h.Service.Get(id)
	if err != nil {
		h.Logger.Warn("GetEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

// CreateEmployee accepts a multipart form: name, email, mobile, designation,
// gender, course (JSON-serialized list) and an optional image file.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.MaxUploadSize); err != nil {
		h.Logger.Warn("CreateEmployee: invalid multipart form", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid multipart form")
		return
	}

	dto := CreateEmployeeDTO{
		Name:        r.FormValue("name"),
		Email:       r.FormValue("email"),
		Mobile:      r.FormValue("mobile"),
		Designation: r.FormValue("designation"),
		Gender:      r.FormValue("gender"),
	}

	if raw := r.FormValue("course"); raw != "" {
		courses, err := ParseCourseList(raw)
		if err != nil {
			h.Logger.Warn("CreateEmployee: bad course field", "error", err)
			h.HandleServiceError(w, internal.NewValidationError("invalid format for course field", internal.ErrCodeInvalidCourse))
			return
		}
		dto.Course = courses
	}

	image, err := h.readImage(r)
	if err != nil {
		h.Logger.Warn("CreateEmployee: bad image upload", "error", err)
		h.WriteError(w, http.StatusBadRequest, "failed to read image upload")
		return
	}

	emp, err := h.Service.Create(dto, image)
	if err != nil {
		h.Logger.Warn("CreateEmployee: service error", "error", err, "email", dto.Email)
		h.HandleServiceError(w, err)
		return
	}

	h.Logger.Info("CreateEmployee: employee created", "employee_id", emp.ID, "email", emp.Email)
	h.WriteJSON(w, http.StatusCreated, emp)
}

// UpdateEmployee takes a JSON body with any subset of mutable fields;
// omitted fields are left untouched.
func (h *Handler) UpdateEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	var dto UpdateEmployeeDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Warn("UpdateEmployee: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	emp, err := h.Service.Update(id, dto)
	if err != nil {
		h.Logger.Warn("UpdateEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, emp)
}

func (h *Handler) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	id, ok := h.employeeID(w, r)
	if !ok {
		return
	}

	if err := h.Service.Delete(id); err != nil {
		h.Logger.Warn("DeleteEmployee: service error", "error", err, "employee_id", id)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}

func (h *Handler) employeeID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil {
		h.Logger.Warn("invalid employee ID", "id", idStr)
		h.WriteError(w, http.StatusBadRequest, "invalid employee ID")
		return 0, false
	}
	return id, true
}

func (h *Handler) readImage(r *http.Request) (*ImageUpload, error) {
	file, header, err := r.FormFile("image")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, nil
		}
		return nil, err
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, h.MaxUploadSize))
	if err != nil {
		return nil, err
	}

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}

	return &ImageUpload{
		Filename:    header.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}
