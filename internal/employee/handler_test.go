package employee_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"

	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormLogger "gorm.io/gorm/logger"

	"github.com/frahmantamala/employee-admin/internal/employee"
	employeePostgres "github.com/frahmantamala/employee-admin/internal/employee/postgres"
	"github.com/frahmantamala/employee-admin/internal/storage"
)

type multipartDraft struct {
	fields    map[string]string
	imageName string
	imageType string
	imageData []byte
}

func encodeMultipart(d multipartDraft) (*bytes.Buffer, string) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range d.fields {
		_ = writer.WriteField(key, value)
	}
	if d.imageName != "" {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name="image"; filename=%q`, d.imageName))
		header.Set("Content-Type", d.imageType)
		part, _ := writer.CreatePart(header)
		_, _ = part.Write(d.imageData)
	}
	_ = writer.Close()
	return body, writer.FormDataContentType()
}

func validFields() map[string]string {
	return map[string]string{
		"name":        "Ann Carter",
		"email":       "ann@example.com",
		"mobile":      "1234567890",
		"designation": "HR",
		"gender":      "F",
		"course":      `["MCA"]`,
	}
}

var _ = Describe("Employee Handler Integration", func() {
	var (
		db      *gorm.DB
		repo    employee.Repository
		service *employee.Service
		handler *employee.Handler
		router  *chi.Mux
	)

	BeforeEach(func() {
		var err error
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

		db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
			Logger: gormLogger.Default.LogMode(gormLogger.Silent),
		})
		Expect(err).NotTo(HaveOccurred())

		err = db.AutoMigrate(&employee.Employee{})
		Expect(err).NotTo(HaveOccurred())

		images, err := storage.NewDiskStore(GinkgoT().TempDir())
		Expect(err).NotTo(HaveOccurred())

		repo = employeePostgres.NewEmployeeRepository(db)
		service = employee.NewService(repo, images, slogger)
		handler = employee.NewHandler(service, 5<<20)

		router = chi.NewRouter()
		router.Get("/employees", handler.ListEmployees)
		router.Post("/employees", handler.CreateEmployee)
		router.Get("/employees/{id}", handler.GetEmployee)
		router.Put("/employees/{id}", handler.UpdateEmployee)
		router.Delete("/employees/{id}", handler.DeleteEmployee)
	})

	createEmployee := func(fields map[string]string) *employee.Employee {
		body, contentType := encodeMultipart(multipartDraft{fields: fields})
		req := httptest.NewRequest(http.MethodPost, "/employees", body)
		req.Header.Set("Content-Type", contentType)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		Expect(w.Code).To(Equal(http.StatusCreated))

		var emp employee.Employee
		Expect(json.NewDecoder(w.Body).Decode(&emp)).To(Succeed())
		return &emp
	}

	Describe("POST /employees", func() {
		It("should create an employee from a multipart form", func() {
			emp := createEmployee(validFields())
			Expect(emp.ID).To(BeNumerically(">", 0))
			Expect(emp.Name).To(Equal("Ann Carter"))
			Expect(emp.Course).To(Equal(employee.CourseList{"MCA"}))
			Expect(emp.IsActive).To(BeTrue())
		})

		It("should store a png image and return its path", func() {
			body, contentType := encodeMultipart(multipartDraft{
				fields:    validFields(),
				imageName: "photo.png",
				imageType: "image/png",
				imageData: []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a},
			})
			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var emp employee.Employee
			Expect(json.NewDecoder(w.Body).Decode(&emp)).To(Succeed())
			Expect(emp.Image).NotTo(BeNil())
			Expect(*emp.Image).To(HaveSuffix(".png"))
		})

		It("should reject a non-image upload with 400", func() {
			body, contentType := encodeMultipart(multipartDraft{
				fields:    validFields(),
				imageName: "notes.txt",
				imageType: "text/plain",
				imageData: []byte("hello"),
			})
			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should reject a malformed course field with 400", func() {
			fields := validFields()
			fields["course"] = "MCA,BCA"
			body, contentType := encodeMultipart(multipartDraft{fields: fields})
			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("invalid format for course field"))
		})

		It("should reject missing required fields with 400", func() {
			fields := validFields()
			delete(fields, "email")
			body, contentType := encodeMultipart(multipartDraft{fields: fields})
			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
			Expect(w.Body.String()).To(ContainSubstring("email is required"))
		})

		It("should return 409 for a duplicate email", func() {
			createEmployee(validFields())

			body, contentType := encodeMultipart(multipartDraft{fields: validFields()})
			req := httptest.NewRequest(http.MethodPost, "/employees", body)
			req.Header.Set("Content-Type", contentType)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("GET /employees", func() {
		It("should return all records ordered by id", func() {
			createEmployee(validFields())
			second := validFields()
			second["name"] = "Ben Okafor"
			second["email"] = "ben@example.com"
			createEmployee(second)

			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var employees []*employee.Employee
			Expect(json.NewDecoder(w.Body).Decode(&employees)).To(Succeed())
			Expect(employees).To(HaveLen(2))
			Expect(employees[0].Name).To(Equal("Ann Carter"))
			Expect(employees[1].Name).To(Equal("Ben Okafor"))
		})
	})

	Describe("GET /employees/{id}", func() {
		It("should return 404 for a missing record", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/999", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})

		It("should return 400 for a non-numeric id", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees/abc", nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})
	})

	Describe("PUT /employees/{id}", func() {
		It("should apply a partial update and leave other fields alone", func() {
			emp := createEmployee(validFields())

			payload := bytes.NewBufferString(`{"is_active": false}`)
			req := httptest.NewRequest(http.MethodPut, fmt.Sprintf("/employees/%d", emp.ID), payload)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var updated employee.Employee
			Expect(json.NewDecoder(w.Body).Decode(&updated)).To(Succeed())
			Expect(updated.IsActive).To(BeFalse())
			Expect(updated.Name).To(Equal("Ann Carter"))
			Expect(updated.Email).To(Equal("ann@example.com"))
		})

		It("should return 404 for a missing record", func() {
			payload := bytes.NewBufferString(`{"name": "Nobody"}`)
			req := httptest.NewRequest(http.MethodPut, "/employees/999", payload)
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})

	Describe("DELETE /employees/{id}", func() {
		It("should delete the record and report missing afterwards", func() {
			emp := createEmployee(validFields())

			req := httptest.NewRequest(http.MethodDelete, fmt.Sprintf("/employees/%d", emp.ID), nil)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusOK))

			req = httptest.NewRequest(http.MethodGet, fmt.Sprintf("/employees/%d", emp.ID), nil)
			w = httptest.NewRecorder()
			router.ServeHTTP(w, req)
			Expect(w.Code).To(Equal(http.StatusNotFound))
		})
	})
})
