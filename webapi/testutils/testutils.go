// Package testutils wires the whole HTTP stack on a private store for
// handler tests.
package testutils

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"time"

	infrarepo "github.com/feinledger/fein/infra/repository"
	"github.com/feinledger/fein/pkg/app"
	"github.com/feinledger/fein/pkg/config"
	storetest "github.com/feinledger/fein/pkg/testutils"
	"github.com/feinledger/fein/webapi"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

// AdminEmail is on the admin allow-list of TestConfig.
const AdminEmail = "admin@fein.com"

// TestConfig returns a configuration suited to handler tests.
func TestConfig() *config.App {
	return &config.App{
		Env:    "test",
		Server: &config.Server{Scheme: "http", Host: "localhost", Port: 3000},
		Log:    &config.Log{Format: "text"},
		DB:     &config.DB{},
		Auth: &config.Auth{
			Jwt:         &config.Jwt{Secret: "handler-test-secret", Algorithm: "HS256", Expiry: 15 * time.Minute},
			AdminEmails: []string{AdminEmail},
		},
		RateLimit: &config.RateLimit{MaxRequests: 10000, Window: time.Second},
	}
}

// NewApp builds the Fiber app on db.
func NewApp(db *gorm.DB, cfg *config.App) (*fiber.App, *app.App) {
	sqlDB, _ := db.DB()
	deps := &app.Deps{
		Uow:    infrarepo.NewUoW(db),
		Logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	if sqlDB != nil {
		deps.Ping = sqlDB.PingContext
	}
	core := app.New(deps, cfg)
	return webapi.SetupApp(core), core
}

// E2ETestSuite provides a test suite running the API on an in-memory store.
type E2ETestSuite struct {
	suite.Suite
	DB   *gorm.DB
	App  *fiber.App
	Core *app.App
	Cfg  *config.App
}

// SetupTest gives every test a fresh store.
func (s *E2ETestSuite) SetupTest() {
	s.Cfg = TestConfig()
	s.DB = storetest.NewTestDB(s.T())
	s.App, s.Core = NewApp(s.DB, s.Cfg)
}

// MakeRequest is a helper function to create and execute HTTP requests for testing
func (s *E2ETestSuite) MakeRequest(method, path, body, token string) *http.Response {
	resp, err := MakeRequestWithApp(s.App, method, path, body, token)
	s.Require().NoError(err)
	return resp
}

// MakeRequestWithApp executes a request against app.
func MakeRequestWithApp(app *fiber.App, method, path, body, token string) (*http.Response, error) {
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	return app.Test(req, 10000)
}

// Register creates a user through the API and returns its token.
func (s *E2ETestSuite) Register(email string) string {
	body := fmt.Sprintf(`{"name":"%s","email":"%s","password":"password123"}`, email, email)
	resp := s.MakeRequest(fiber.MethodPost, "/auth/register", body, "")
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	out := DecodeData[struct {
		AccessToken string `json:"access_token"`
	}](s, resp)
	s.Require().NotEmpty(out.AccessToken)
	return out.AccessToken
}

// RandomUser registers a user with a unique email.
func (s *E2ETestSuite) RandomUser() (email, token string) {
	email = fmt.Sprintf("test_%s@example.com", uuid.NewString()[:8])
	return email, s.Register(email)
}

// CreateAccount creates an account through the API and returns its ID.
func (s *E2ETestSuite) CreateAccount(token, name, balance string) string {
	body := fmt.Sprintf(`{"name":"%s","balance":"%s"}`, name, balance)
	resp := s.MakeRequest(fiber.MethodPost, "/accounts", body, token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	return DecodeData[struct {
		ID string `json:"id"`
	}](s, resp).ID
}

// DecodeData reads the data field of a success envelope.
func DecodeData[T any](s suite.TestingSuite, resp *http.Response) T {
	var env struct {
		Status  int    `json:"status"`
		Message string `json:"message"`
		Data    T      `json:"data"`
	}
	err := json.NewDecoder(resp.Body).Decode(&env)
	if err != nil {
		s.T().Fatalf("decode response: %v", err)
	}
	return env.Data
}
