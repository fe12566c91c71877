// Package report serves spending reports.
package report

import (
	"fmt"
	"time"

	"github.com/feinledger/fein/pkg/middleware"
	authsvc "github.com/feinledger/fein/pkg/service/auth"
	reportsvc "github.com/feinledger/fein/pkg/service/report"
	"github.com/feinledger/fein/webapi/common"
	"github.com/gofiber/fiber/v2"
)

// Routes registers the report endpoints.
func Routes(app *fiber.App, reportSvc *reportsvc.Service, authSvc *authsvc.Service) {
	g := app.Group("/reports", middleware.JwtProtected(authSvc))
	g.Get("/", Summary(reportSvc))
	g.Get("/exceeding", Exceeding(reportSvc))
	g.Get("/summary.pdf", SummaryPDF(reportSvc))
}

// Summary returns total spending and spending per tag, plus the date range
// total when both dates are given.
// @Summary Spending summary
// @Tags reports
// @Produce json
// @Param start_date query string false "First day, YYYY-MM-DD"
// @Param end_date query string false "Last day, YYYY-MM-DD"
// @Success 200 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /reports [get]
// @Security Bearer
func Summary(reportSvc *reportsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		summary, err := reportSvc.Summary(c.UserContext(), who, c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Report generated", summary)
	}
}

// Exceeding lists breakdowns that spent more than the running balance of
// their account.
// @Summary Exceeding transactions
// @Tags reports
// @Produce json
// @Param account_name query string false "Restrict to one account name"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /reports/exceeding [get]
// @Security Bearer
func Exceeding(reportSvc *reportsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		rows, err := reportSvc.ExceedingTransactions(c.UserContext(), who, c.Query("account_name"))
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Report generated", rows)
	}
}

// SummaryPDF downloads the summary as a PDF document.
// @Summary Spending summary as PDF
// @Tags reports
// @Produce application/pdf
// @Param start_date query string false "First day, YYYY-MM-DD"
// @Param end_date query string false "Last day, YYYY-MM-DD"
// @Success 200 {file} binary
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 500 {object} common.ProblemDetails
// @Router /reports/summary.pdf [get]
// @Security Bearer
func SummaryPDF(reportSvc *reportsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		doc, err := reportSvc.SummaryPDF(c.UserContext(), who, c.Query("start_date"), c.Query("end_date"))
		if err != nil {
			return err
		}
		c.Set(fiber.HeaderContentType, "application/pdf")
		c.Set(fiber.HeaderContentDisposition,
			fmt.Sprintf(`attachment; filename="fein-summary-%s.pdf"`, time.Now().UTC().Format("20060102")))
		return c.Send(doc)
	}
}
