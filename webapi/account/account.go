package account

import (
	"github.com/feinledger/fein/pkg/middleware"
	accountsvc "github.com/feinledger/fein/pkg/service/account"
	authsvc "github.com/feinledger/fein/pkg/service/auth"
	"github.com/feinledger/fein/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

// Routes registers HTTP routes for account-related operations.
//
// Routes:
//   - POST /accounts       : Create an account for the authenticated user.
//   - GET  /accounts       : List the accounts of the authenticated user.
//   - GET  /admin/accounts : List every account (admin only).
func Routes(app *fiber.App, accountSvc *accountsvc.Service, authSvc *authsvc.Service) {
	protected := middleware.JwtProtected(authSvc)
	app.Post("/accounts", protected, CreateAccount(accountSvc))
	app.Get("/accounts", protected, ListAccounts(accountSvc))
	app.Get("/admin/accounts", protected, middleware.AdminOnly(), ListAllAccounts(accountSvc))
}

// CreateAccount returns a Fiber handler for creating a new account for the current user.
// @Summary Create a new account
// @Description Creates an account owned by the authenticated user. The balance defaults to zero.
// @Tags accounts
// @Accept json
// @Produce json
// @Param request body CreateAccountRequest true "Account details"
// @Success 201 {object} common.Response "Account created successfully"
// @Failure 400 {object} common.ProblemDetails "Invalid request"
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 429 {object} common.ProblemDetails "Too many requests"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [post]
// @Security Bearer
func CreateAccount(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CreateAccountRequest](c)
		if input == nil {
			return err // error response already written
		}
		balance := decimal.Zero
		if input.Balance != nil {
			balance = *input.Balance
		}
		a, err := accountSvc.CreateAccount(c.UserContext(), who, input.Name, balance)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Account created", a)
	}
}

// ListAccounts returns a Fiber handler listing the caller's accounts.
// @Summary List accounts
// @Tags accounts
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /accounts [get]
// @Security Bearer
func ListAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		accounts, err := accountSvc.ListAccounts(c.UserContext(), who)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", accounts)
	}
}

// ListAllAccounts returns a Fiber handler listing every account.
// @Summary List all accounts
// @Tags admin
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails "Unauthorized"
// @Failure 403 {object} common.ProblemDetails "Access denied"
// @Failure 500 {object} common.ProblemDetails "Internal server error"
// @Router /admin/accounts [get]
// @Security Bearer
func ListAllAccounts(accountSvc *accountsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		accounts, err := accountSvc.ListAllAccounts(c.UserContext(), who)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Accounts fetched", accounts)
	}
}
