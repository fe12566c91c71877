package auth

import (
	authsvc "github.com/feinledger/fein/pkg/service/auth"
	"github.com/feinledger/fein/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the public authentication endpoints.
func Routes(app *fiber.App, authSvc *authsvc.Service) {
	app.Post("/auth/register", Register(authSvc))
	app.Post("/auth/login", Login(authSvc))
}

// Register handles user sign-up.
// @Summary Register a user
// @Description Creates a user and returns it together with a session token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RegisterInput true "User details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /auth/register [post]
func Register(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[RegisterInput](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}
		u, err := authSvc.Register(c.UserContext(), input.Name, input.Email, input.Password)
		if err != nil {
			return err
		}
		token, err := authSvc.IssueToken(u)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "User registered",
			RegisterResponse{User: u, TokenResponse: bearer(token)})
	}
}

// Login handles user authentication and returns a JWT token.
// @Summary User login
// @Description Authenticate user with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginInput true "Login credentials"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 429 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /auth/login [post]
func Login(authSvc *authsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[LoginInput](c)
		if input == nil {
			return err
		}
		token, err := authSvc.Login(c.UserContext(), input.Email, input.Password)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Success login", bearer(token))
	}
}
