package transaction_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/feinledger/fein/pkg/dto"
	"github.com/feinledger/fein/webapi/testutils"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/suite"
)

type TransactionTestSuite struct {
	testutils.E2ETestSuite
	token   string
	account string
}

func (s *TransactionTestSuite) SetupTest() {
	s.E2ETestSuite.SetupTest()
	_, s.token = s.RandomUser()
	s.account = s.CreateAccount(s.token, "Cash", "0")
}

func (s *TransactionTestSuite) createCoffee() dto.TransactionRead {
	body := fmt.Sprintf(`{"name":"Coffee","amount":"4.50","account_id":"%s",
		"breakdowns":[{"account_id":"%s","spent_amount":"4.50"}]}`, s.account, s.account)
	resp := s.MakeRequest(fiber.MethodPost, "/transactions", body, s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	return testutils.DecodeData[dto.TransactionRead](s, resp)
}

func (s *TransactionTestSuite) TestCreate_NetAmountFromBreakdowns() {
	t := s.createCoffee()
	s.Equal("Coffee", t.Name)
	s.True(t.NetAmount.Equal(decimal.RequireFromString("-4.50")), t.NetAmount.String())

	resp := s.MakeRequest(fiber.MethodGet, "/transactions", "", s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Len(testutils.DecodeData[[]dto.TransactionRead](s, resp), 1)
}

func (s *TransactionTestSuite) TestCreate_Validation() {
	resp := s.MakeRequest(fiber.MethodPost, "/transactions", `{"name":"x","account_id":"nope"}`, s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *TransactionTestSuite) TestCreate_RejectsValuesTheSchemaCannotHold() {
	for _, body := range []string{
		fmt.Sprintf(`{"name":"%s","account_id":"%s"}`, strings.Repeat("a", 101), s.account),
		fmt.Sprintf(`{"name":"Dust","amount":"0.005","account_id":"%s"}`, s.account),
		fmt.Sprintf(`{"name":"Dust","account_id":"%s",
			"breakdowns":[{"account_id":"%s","spent_amount":"0.005"},{"account_id":"%s","spent_amount":"0.005"}]}`,
			s.account, s.account, s.account),
	} {
		resp := s.MakeRequest(fiber.MethodPost, "/transactions", body, s.token)
		s.Equal(fiber.StatusBadRequest, resp.StatusCode, body)
		_ = resp.Body.Close()
	}

	resp := s.MakeRequest(fiber.MethodGet, "/transactions", "", s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Empty(testutils.DecodeData[[]dto.TransactionRead](s, resp))
}

func (s *TransactionTestSuite) TestCreate_UnknownAccount() {
	body := fmt.Sprintf(`{"name":"x","account_id":"%s"}`, uuid.New())
	resp := s.MakeRequest(fiber.MethodPost, "/transactions", body, s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *TransactionTestSuite) TestCreate_ForeignBreakdownAccountRollsBack() {
	_, other := s.RandomUser()
	foreign := s.CreateAccount(other, "Other", "0")
	body := fmt.Sprintf(`{"name":"Split","amount":"10","account_id":"%s",
		"breakdowns":[{"account_id":"%s","spent_amount":"10"}]}`, s.account, foreign)
	resp := s.MakeRequest(fiber.MethodPost, "/transactions", body, s.token)
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodGet, "/transactions", "", s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Empty(testutils.DecodeData[[]dto.TransactionRead](s, resp))
}

func (s *TransactionTestSuite) TestGetUpdateDelete() {
	t := s.createCoffee()
	path := "/transactions/" + t.ID.String()

	resp := s.MakeRequest(fiber.MethodPut, path, `{"name":"Latte"}`, s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	updated := testutils.DecodeData[dto.TransactionRead](s, resp)
	_ = resp.Body.Close()
	s.Equal("Latte", updated.Name)
	s.True(updated.Amount.Equal(t.Amount))

	resp = s.MakeRequest(fiber.MethodGet, path, "", s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodDelete, path, "", s.token)
	s.Equal(fiber.StatusOK, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodGet, path, "", s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
}

func (s *TransactionTestSuite) TestBadID() {
	resp := s.MakeRequest(fiber.MethodGet, "/transactions/not-a-uuid", "", s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusBadRequest, resp.StatusCode)
}

func (s *TransactionTestSuite) TestBreakdowns() {
	t := s.createCoffee()
	path := "/transactions/" + t.ID.String() + "/breakdowns"

	body := fmt.Sprintf(`{"account_id":"%s","earned_amount":"10"}`, s.account)
	resp := s.MakeRequest(fiber.MethodPost, path, body, s.token)
	s.Equal(fiber.StatusCreated, resp.StatusCode)
	after := testutils.DecodeData[dto.TransactionRead](s, resp)
	_ = resp.Body.Close()
	s.True(after.NetAmount.Equal(decimal.RequireFromString("5.50")), after.NetAmount.String())

	resp = s.MakeRequest(fiber.MethodGet, path, "", s.token)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusOK, resp.StatusCode)
	s.Len(testutils.DecodeData[[]dto.BreakdownRead](s, resp), 2)
}

func (s *TransactionTestSuite) TestBreakdowns_NotFoundVersusDenied() {
	resp := s.MakeRequest(fiber.MethodGet, "/transactions/"+uuid.NewString()+"/breakdowns", "", s.token)
	s.Equal(fiber.StatusNotFound, resp.StatusCode)
	_ = resp.Body.Close()

	t := s.createCoffee()
	_, other := s.RandomUser()
	resp = s.MakeRequest(fiber.MethodGet, "/transactions/"+t.ID.String()+"/breakdowns", "", other)
	defer resp.Body.Close() //nolint: errcheck
	s.Equal(fiber.StatusForbidden, resp.StatusCode)
}

func (s *TransactionTestSuite) TestUsersAreIsolatedAndAdminSeesAll() {
	s.createCoffee()
	_, other := s.RandomUser()
	otherAccount := s.CreateAccount(other, "Bank", "0")
	body := fmt.Sprintf(`{"name":"Rent","amount":"100","account_id":"%s",
		"breakdowns":[{"account_id":"%s","earned_amount":"100"}]}`, otherAccount, otherAccount)
	resp := s.MakeRequest(fiber.MethodPost, "/transactions", body, other)
	s.Require().Equal(fiber.StatusCreated, resp.StatusCode)
	_ = resp.Body.Close()

	resp = s.MakeRequest(fiber.MethodGet, "/transactions", "", other)
	list := testutils.DecodeData[[]dto.TransactionRead](s, resp)
	_ = resp.Body.Close()
	s.Require().Len(list, 1)
	s.Equal("Rent", list[0].Name)

	admin := s.Register(testutils.AdminEmail)
	resp = s.MakeRequest(fiber.MethodGet, "/transactions", "", admin)
	defer resp.Body.Close() //nolint: errcheck
	s.Len(testutils.DecodeData[[]dto.TransactionRead](s, resp), 2)
}

func TestTransactionTestSuite(t *testing.T) {
	suite.Run(t, new(TransactionTestSuite))
}
