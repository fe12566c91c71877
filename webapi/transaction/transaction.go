// Package transaction exposes transactions and their breakdowns over HTTP.
package transaction

import (
	"github.com/feinledger/fein/pkg/middleware"
	authsvc "github.com/feinledger/fein/pkg/service/auth"
	txsvc "github.com/feinledger/fein/pkg/service/transaction"
	"github.com/feinledger/fein/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the transaction endpoints. All of them require a token.
func Routes(app *fiber.App, txSvc *txsvc.Service, authSvc *authsvc.Service) {
	g := app.Group("/transactions", middleware.JwtProtected(authSvc))
	g.Post("/", CreateTransaction(txSvc))
	g.Get("/", ListTransactions(txSvc))
	g.Get("/:id", GetTransaction(txSvc))
	g.Put("/:id", UpdateTransaction(txSvc))
	g.Delete("/:id", DeleteTransaction(txSvc))
	g.Get("/:id/breakdowns", ListBreakdowns(txSvc))
	g.Post("/:id/breakdowns", AddBreakdown(txSvc))
}

// CreateTransaction books a transaction with its breakdowns atomically.
// @Summary Create a transaction
// @Description Creates a transaction on an account of the caller, optionally tagged and split into breakdowns. The net amount is computed from the breakdowns.
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body CreateTransactionRequest true "Transaction details"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /transactions [post]
// @Security Bearer
func CreateTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CreateTransactionRequest](c)
		if input == nil {
			return err
		}
		t, err := txSvc.CreateTransaction(c.UserContext(), who, input.ToInput())
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Transaction created", t)
	}
}

// ListTransactions returns the transactions visible to the caller.
// @Summary List transactions
// @Tags transactions
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /transactions [get]
// @Security Bearer
func ListTransactions(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		list, err := txSvc.ListTransactions(c.UserContext(), who)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transactions fetched", list)
	}
}

// GetTransaction returns one transaction.
// @Summary Get a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [get]
// @Security Bearer
func GetTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return err
		}
		t, err := txSvc.GetTransaction(c.UserContext(), who, id)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction fetched", t)
	}
}

// UpdateTransaction changes the supplied fields of a transaction.
// @Summary Update a transaction
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body UpdateTransactionRequest true "Fields to change"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [put]
// @Security Bearer
func UpdateTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[UpdateTransactionRequest](c)
		if input == nil {
			return err
		}
		t, err := txSvc.UpdateTransaction(c.UserContext(), who, id, input.ToUpdate())
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction updated", t)
	}
}

// DeleteTransaction removes a transaction with its breakdowns and tag assignments.
// @Summary Delete a transaction
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id} [delete]
// @Security Bearer
func DeleteTransaction(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return err
		}
		if err := txSvc.DeleteTransaction(c.UserContext(), who, id); err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Transaction deleted successfully", nil)
	}
}

// ListBreakdowns returns the breakdowns of a transaction.
// @Summary List breakdowns
// @Tags transactions
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id}/breakdowns [get]
// @Security Bearer
func ListBreakdowns(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return err
		}
		list, err := txSvc.ListBreakdowns(c.UserContext(), who, id)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Breakdowns fetched", list)
	}
}

// AddBreakdown books another share of a transaction and returns the
// transaction with its recomputed net amount.
// @Summary Add a breakdown
// @Tags transactions
// @Accept json
// @Produce json
// @Param id path string true "Transaction ID"
// @Param request body BreakdownRequest true "Breakdown"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Router /transactions/{id}/breakdowns [post]
// @Security Bearer
func AddBreakdown(txSvc *txsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[BreakdownRequest](c)
		if input == nil {
			return err
		}
		t, err := txSvc.AddBreakdown(c.UserContext(), who, id, input.ToBreakdown())
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Breakdown added", t)
	}
}
