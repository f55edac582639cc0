package client_test

import (
	"errors"
	"net/http"

	"github.com/frahmantamala/employee-admin/internal/client"
	"github.com/frahmantamala/employee-admin/internal/core/events"
	"github.com/frahmantamala/employee-admin/internal/employee"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func fillValidDraft(fc *client.FormController) {
	fc.SetName("Ann Carter")
	fc.SetEmail("ann@example.com")
	fc.SetMobile("1234567890")
	fc.SetDesignation("HR")
	fc.SetGender("F")
	fc.ToggleCourse("MCA")
}

var _ = Describe("Form Controller", func() {
	var (
		api *FakeAPI
		bus *events.EventBus
		rec *notificationRecorder
		fc  *client.FormController
	)

	BeforeEach(func() {
		api = NewFakeAPI()
		bus, rec = newRecordedBus()
		fc = client.NewFormController(api, bus)
	})

	Describe("ToggleCourse", func() {
		It("should add an absent code and remove a present one", func() {
			fc.ToggleCourse("MCA")
			Expect(fc.Draft().Course).To(Equal(employee.CourseList{"MCA"}))

			fc.ToggleCourse("BSC")
			Expect(fc.Draft().Course).To(Equal(employee.CourseList{"MCA", "BSC"}))

			fc.ToggleCourse("MCA")
			Expect(fc.Draft().Course).To(Equal(employee.CourseList{"BSC"}))
		})
	})

	Describe("AttachImage", func() {
		It("should accept jpeg and png", func() {
			Expect(fc.AttachImage("a.jpg", "image/jpeg", []byte{0xff, 0xd8})).To(Succeed())
			Expect(fc.Image()).NotTo(BeNil())
			Expect(fc.Image().Filename).To(Equal("a.jpg"))

			Expect(fc.AttachImage("b.png", "image/png", []byte{0x89, 0x50})).To(Succeed())
			Expect(fc.Image().Filename).To(Equal("b.png"))
		})

		It("should reject other types and leave the attachment unchanged", func() {
			Expect(fc.AttachImage("a.jpg", "image/jpeg", []byte{0xff, 0xd8})).To(Succeed())

			err := fc.AttachImage("d.gif", "image/gif", []byte{0x47})
			Expect(err).To(HaveOccurred())
			var apiErr *client.APIError
			Expect(errors.As(err, &apiErr)).To(BeTrue())
			Expect(apiErr.Code).To(Equal("INVALID_IMAGE_TYPE"))

			Expect(fc.Image().Filename).To(Equal("a.jpg"))
			Expect(rec.messages).To(ContainElement("Only JPG and PNG images are allowed"))
		})
	})

	Describe("SubmitCreate", func() {
		It("should create the employee and reset the draft", func() {
			fillValidDraft(fc)
			Expect(fc.AttachImage("photo.png", "image/png", []byte{0x89, 0x50})).To(Succeed())

			emp, err := fc.SubmitCreate()
			Expect(err).NotTo(HaveOccurred())
			Expect(emp.Name).To(Equal("Ann Carter"))
			Expect(emp.Image).NotTo(BeNil())

			Expect(fc.Draft()).To(Equal(employee.CreateEmployeeDTO{}))
			Expect(fc.Image()).To(BeNil())
			Expect(rec.messages).To(ContainElement("Employee created successfully"))
		})

		It("should block submission on a validation failure", func() {
			fillValidDraft(fc)
			fc.SetEmail("not-an-email")

			emp, err := fc.SubmitCreate()
			Expect(emp).To(BeNil())
			Expect(err).To(HaveOccurred())
			Expect(api.employees).To(BeEmpty())
			Expect(rec.levels).To(ContainElement(events.LevelError))
		})

		It("should keep the draft when the API rejects the create", func() {
			fillValidDraft(fc)
			api.failWith = &client.APIError{StatusCode: http.StatusConflict, Code: "DUPLICATE_EMAIL", Message: "Email already exists"}

			_, err := fc.SubmitCreate()
			Expect(err).To(HaveOccurred())
			Expect(fc.Draft().Name).To(Equal("Ann Carter"))
		})
	})

	Describe("SubmitEdit", func() {
		It("should load a record, apply changes and send the full draft", func() {
			emp := api.add("Ann Carter", "ann@example.com", true)

			fc.LoadForEdit(emp)
			fc.SetName("Ann C. Carter")

			updated, err := fc.SubmitEdit(emp.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(updated.Name).To(Equal("Ann C. Carter"))
			Expect(api.employees[emp.ID].Name).To(Equal("Ann C. Carter"))
			Expect(rec.messages).To(ContainElement("Employee updated successfully"))
		})

		It("should run the create rules before submitting", func() {
			emp := api.add("Ann Carter", "ann@example.com", true)

			fc.LoadForEdit(emp)
			fc.SetMobile("12")

			_, err := fc.SubmitEdit(emp.ID)
			Expect(err).To(HaveOccurred())
			Expect(api.updateCalls).To(BeZero())
			Expect(api.employees[emp.ID].Mobile).To(Equal("1234567890"))
		})

		It("should not alias the loaded record's course list", func() {
			emp := api.add("Ann Carter", "ann@example.com", true)

			fc.LoadForEdit(emp)
			fc.ToggleCourse("BSC")
			Expect(emp.Course).To(Equal(employee.CourseList{"MCA"}))
		})
	})

	Describe("Reset", func() {
		It("should clear all fields and the image", func() {
			fillValidDraft(fc)
			Expect(fc.AttachImage("photo.png", "image/png", []byte{0x89})).To(Succeed())

			fc.Reset()
			Expect(fc.Draft().Name).To(BeEmpty())
			Expect(fc.Draft().Course).To(BeEmpty())
			Expect(fc.Image()).To(BeNil())
		})
	})
})
