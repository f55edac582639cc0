package auth_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"time"

	"github.com/frahmantamala/employee-admin/internal"
	"github.com/frahmantamala/employee-admin/internal/auth"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"golang.org/x/crypto/bcrypt"
)

var _ = Describe("Auth Handler", func() {
	var (
		mockRepo *MockAccountRepository
		service  *auth.Service
		handler  *auth.Handler
	)

	BeforeEach(func() {
		mockRepo = NewMockAccountRepository()
		tokenGen := auth.NewJWTTokenGenerator("test-secret-key-0123456789abcdefghij", time.Hour)
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = auth.NewService(mockRepo, tokenGen, bcrypt.MinCost, logger)
		handler = auth.NewHandler(service)
	})

	registerAccount := func(username, password string) auth.TokenResponse {
		resp, err := service.Register(auth.RegisterDTO{Username: username, Password: password})
		Expect(err).NotTo(HaveOccurred())
		return resp
	}

	Describe("Register", func() {
		It("should return 201 with a token", func() {
			body := bytes.NewBufferString(`{"username":"admin","password":"secret1"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusCreated))
			var tokens auth.TokenResponse
			Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
			Expect(tokens.Token).NotTo(BeEmpty())
		})

		It("should return 400 for a short password", func() {
			body := bytes.NewBufferString(`{"username":"admin","password":"abc"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusBadRequest))
		})

		It("should return 409 for a taken username", func() {
			registerAccount("admin", "secret1")

			body := bytes.NewBufferString(`{"username":"admin","password":"secret1"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/register", body)
			w := httptest.NewRecorder()

			handler.Register(w, req)

			Expect(w.Code).To(Equal(http.StatusConflict))
		})
	})

	Describe("Login", func() {
		BeforeEach(func() {
			registerAccount("admin", "secret1")
		})

		It("should return 200 with a token for valid credentials", func() {
			body := bytes.NewBufferString(`{"username":"admin","password":"secret1"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
			var tokens auth.TokenResponse
			Expect(json.NewDecoder(w.Body).Decode(&tokens)).To(Succeed())
			Expect(tokens.Token).NotTo(BeEmpty())
		})

		It("should return 401 for a wrong password", func() {
			body := bytes.NewBufferString(`{"username":"admin","password":"wrong"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should return 401 for an unknown username", func() {
			body := bytes.NewBufferString(`{"username":"nobody","password":"secret1"}`)
			req := httptest.NewRequest(http.MethodPost, "/auth/login", body)
			w := httptest.NewRecorder()

			handler.Login(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("Logout", func() {
		It("should return 204 for a valid token", func() {
			tokens := registerAccount("admin", "secret1")

			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.Token)
			w := httptest.NewRecorder()

			handler.Logout(w, req)

			Expect(w.Code).To(Equal(http.StatusNoContent))
		})

		It("should return 401 without a token", func() {
			req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
			w := httptest.NewRecorder()

			handler.Logout(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})

	Describe("AuthMiddleware", func() {
		var protected http.Handler

		BeforeEach(func() {
			protected = handler.AuthMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(internal.AccountIDFromContext(r.Context())).To(Equal(int64(1)))
				w.WriteHeader(http.StatusOK)
			}))
		})

		It("should pass a valid token through with the account in context", func() {
			tokens := registerAccount("admin", "secret1")

			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req.Header.Set("Authorization", "Bearer "+tokens.Token)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusOK))
		})

		It("should reject a missing token", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should reject a garbage token", func() {
			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req.Header.Set("Authorization", "Bearer not.a.token")
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})

		It("should reject an expired token", func() {
			registerAccount("admin", "secret1")
			expiredGen := auth.NewJWTTokenGenerator("test-secret-key-0123456789abcdefghij", -time.Minute)
			token, err := expiredGen.GenerateToken(1, "admin")
			Expect(err).NotTo(HaveOccurred())

			req := httptest.NewRequest(http.MethodGet, "/employees", nil)
			req.Header.Set("Authorization", "Bearer "+token)
			w := httptest.NewRecorder()

			protected.ServeHTTP(w, req)

			Expect(w.Code).To(Equal(http.StatusUnauthorized))
		})
	})
})
