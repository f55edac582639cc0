package employee

import (
	"errors"
	"log/slog"

	"github.com/frahmantamala/employee-admin/internal"
)

// Repository defines the data access methods for employee records.
type Repository interface {
	GetAll() ([]*Employee, error)
	GetByID(id int64) (*Employee, error)
	GetByEmail(email string) (*Employee, error)
	Create(emp *Employee) error
	Update(id int64, updates map[string]interface{}) error
	Delete(id int64) error
}

// ImageStore persists uploaded profile images and returns a reference path.
type ImageStore interface {
	Save(filename, contentType string, data []byte) (string, error)
	Remove(path string) error
}

// Service handles employee business logic.
type Service struct {
	repo   Repository
	images ImageStore
	logger *slog.Logger
}

func NewService(repo Repository, images ImageStore, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		images: images,
		logger: logger,
	}
}

// List returns the full collection in store order. Filtering, sorting and
// pagination are client concerns.
func (s *Service) List() ([]*Employee, error) {
	employees, err := s.repo.GetAll()
	if err != nil {
		s.logger.Error("failed to list employees", "error", err)
		return nil, internal.NewInternalError("failed to list employees", err)
	}
	return employees, nil
}

func (s *Service) Get(id int64) (*Employee, error) {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to get employee", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to get employee", err)
	}
	return emp, nil
}

// Create validates the draft, enforces email uniqueness, stores the optional
// image and persists the record. isActive defaults to true.
func (s *Service) Create(dto CreateEmployeeDTO, image *ImageUpload) (*Employee, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Warn("employee validation failed", "error", err, "email", dto.Email)
		return nil, err
	}

	existing, err := s.repo.GetByEmail(dto.Email)
	if err != nil && !errors.Is(err, internal.ErrEmployeeNotFound) {
		s.logger.Error("failed to check email uniqueness", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to check email uniqueness", err)
	}
	if existing != nil {
		return nil, internal.ErrDuplicateEmail
	}

	var imagePath *string
	if image != nil {
		path, err := s.images.Save(image.Filename, image.ContentType, image.Data)
		if err != nil {
			s.logger.Warn("image upload rejected", "error", err, "filename", image.Filename)
			return nil, err
		}
		imagePath = &path
	}

	emp := &Employee{
		Name:        dto.Name,
		Email:       dto.Email,
		Mobile:      dto.Mobile,
		Designation: dto.Designation,
		Gender:      dto.Gender,
		Course:      dto.Course,
		Image:       imagePath,
		IsActive:    true,
	}

	if err := s.repo.Create(emp); err != nil {
		s.logger.Error("failed to create employee", "error", err, "email", dto.Email)
		return nil, internal.NewInternalError("failed to create employee", err)
	}

	s.logger.Info("employee created",
		"employee_id", emp.ID,
		"email", emp.Email,
		"designation", emp.Designation)

	return emp, nil
}

// Update applies the supplied fields only; omitted fields stay untouched.
// The toggle-active shortcut and the full edit both come through here.
// Shapes and uniqueness are not re-checked on update.
func (s *Service) Update(id int64, dto UpdateEmployeeDTO) (*Employee, error) {
	if _, err := s.repo.GetByID(id); err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return nil, internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load employee for update", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	updates := dto.ToUpdates()
	if len(updates) > 0 {
		if err := s.repo.Update(id, updates); err != nil {
			s.logger.Error("failed to update employee", "error", err, "employee_id", id)
			return nil, internal.NewInternalError("failed to update employee", err)
		}
	}

	emp, err := s.repo.GetByID(id)
	if err != nil {
		s.logger.Error("failed to reload employee after update", "error", err, "employee_id", id)
		return nil, internal.NewInternalError("failed to update employee", err)
	}

	s.logger.Info("employee updated", "employee_id", id, "fields", len(updates))
	return emp, nil
}

// Delete removes the record permanently. The stored image file is unlinked
// best-effort; a failed unlink never fails the delete.
func (s *Service) Delete(id int64) error {
	emp, err := s.repo.GetByID(id)
	if err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to load employee for delete", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	if err := s.repo.Delete(id); err != nil {
		if errors.Is(err, internal.ErrEmployeeNotFound) {
			return internal.ErrEmployeeNotFound
		}
		s.logger.Error("failed to delete employee", "error", err, "employee_id", id)
		return internal.NewInternalError("failed to delete employee", err)
	}

	if emp.Image != nil {
		if err := s.images.Remove(*emp.Image); err != nil {
			s.logger.Warn("failed to remove employee image", "error", err, "employee_id", id, "path", *emp.Image)
		}
	}

	s.logger.Info("employee deleted", "employee_id", id, "email", emp.Email)
	return nil
}
