package client_test

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	"github.com/frahmantamala/employee-admin/internal/client"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Session", func() {
	var (
		tokenPath string
		store     *client.FileTokenStore
	)

	BeforeEach(func() {
		tokenPath = filepath.Join(GinkgoT().TempDir(), "token")
		store = client.NewFileTokenStore(tokenPath)
	})

	Describe("FileTokenStore", func() {
		It("should return empty for a missing file", func() {
			token, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(BeEmpty())
		})

		It("should round-trip a token with owner-only permissions", func() {
			Expect(store.Save("tok-123")).To(Succeed())

			info, err := os.Stat(tokenPath)
			Expect(err).NotTo(HaveOccurred())
			Expect(info.Mode().Perm()).To(Equal(os.FileMode(0o600)))

			token, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(token).To(Equal("tok-123"))
		})

		It("should tolerate clearing a missing file", func() {
			Expect(store.Clear()).To(Succeed())
		})
	})

	Describe("state transitions", func() {
		It("should start anonymous with no persisted token", func() {
			session, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.IsAuthenticated()).To(BeFalse())
		})

		It("should start authenticated from a persisted token", func() {
			Expect(store.Save("tok-123")).To(Succeed())

			session, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.IsAuthenticated()).To(BeTrue())
			Expect(session.Token()).To(Equal("tok-123"))
		})

		It("should persist the token on SetToken", func() {
			session, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())

			Expect(session.SetToken("tok-456")).To(Succeed())
			Expect(session.IsAuthenticated()).To(BeTrue())

			reloaded, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.Token()).To(Equal("tok-456"))
		})

		It("should wipe the persisted token on Clear", func() {
			session, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())
			Expect(session.SetToken("tok-456")).To(Succeed())

			Expect(session.Clear()).To(Succeed())
			Expect(session.IsAuthenticated()).To(BeFalse())

			reloaded, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())
			Expect(reloaded.IsAuthenticated()).To(BeFalse())
		})
	})

	Describe("rejected requests", func() {
		It("should keep the stored token after a 401 response", func() {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"error":{"code":"TOKEN_EXPIRED","message":"Token has expired"}}`))
			}))
			defer server.Close()

			Expect(store.Save("stale-token")).To(Succeed())
			session, err := client.NewSession(store)
			Expect(err).NotTo(HaveOccurred())

			logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
			api := client.New(server.URL, session, logger)

			_, err = api.ListEmployees()
			Expect(client.IsUnauthorized(err)).To(BeTrue())

			Expect(session.IsAuthenticated()).To(BeTrue())
			Expect(session.Token()).To(Equal("stale-token"))

			persisted, err := store.Load()
			Expect(err).NotTo(HaveOccurred())
			Expect(persisted).To(Equal("stale-token"))
		})
	})
})
