package webapi_test

import (
	"testing"

	"github.com/feinledger/fein/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/suite"
)

type AppTestSuite struct {
	testutils.E2ETestSuite
}

func (s *AppTestSuite) TestWelcome() {
	resp := s.MakeRequest(fiber.MethodGet, "/", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)

	var msg struct {
		Message string `json:"message"`
	}
	s.Require().NoError(decodeJSON(resp, &msg))
	s.Equal("Welcome to the Fein API", msg.Message)
}

func (s *AppTestSuite) TestHealth() {
	resp := s.MakeRequest(fiber.MethodGet, "/health", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
}

func (s *AppTestSuite) TestHealth_StoreDown() {
	sqlDB, err := s.DB.DB()
	s.Require().NoError(err)
	s.Require().NoError(sqlDB.Close())

	resp := s.MakeRequest(fiber.MethodGet, "/health", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusServiceUnavailable, resp.StatusCode)
}

func (s *AppTestSuite) TestNotFoundRoute() {
	resp := s.MakeRequest(fiber.MethodGet, "/doesnotexist", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *AppTestSuite) TestProtectedRoute_Unauthorized() {
	resp := s.MakeRequest(fiber.MethodGet, "/transactions", "", "")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func (s *AppTestSuite) TestProtectedRoute_GarbageToken() {
	resp := s.MakeRequest(fiber.MethodGet, "/accounts", "", "abc.def.ghi")
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusUnauthorized, resp.StatusCode)
}

func TestAppTestSuite(t *testing.T) {
	suite.Run(t, new(AppTestSuite))
}
