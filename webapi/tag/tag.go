package tag

import (
	"github.com/feinledger/fein/pkg/middleware"
	authsvc "github.com/feinledger/fein/pkg/service/auth"
	tagsvc "github.com/feinledger/fein/pkg/service/tag"
	"github.com/feinledger/fein/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Routes registers the tag endpoints.
func Routes(app *fiber.App, tagSvc *tagsvc.Service, authSvc *authsvc.Service) {
	g := app.Group("/tags", middleware.JwtProtected(authSvc))
	g.Post("/", CreateTag(tagSvc))
	g.Get("/", ListTags(tagSvc))
	g.Post("/assign", AssignTag(tagSvc))
	g.Get("/transaction/:id", ListTagsForTransaction(tagSvc))
}

// CreateTag creates a tag anchored on one of the caller's accounts.
// @Summary Create a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body CreateTagRequest true "Tag"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 422 {object} common.ProblemDetails "The caller has no account"
// @Router /tags [post]
// @Security Bearer
func CreateTag(tagSvc *tagsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[CreateTagRequest](c)
		if input == nil {
			return err
		}
		t, err := tagSvc.CreateTag(c.UserContext(), who, input.Name)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Tag created", t)
	}
}

// ListTags returns the tags visible to the caller.
// @Summary List tags
// @Tags tags
// @Produce json
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Router /tags [get]
// @Security Bearer
func ListTags(tagSvc *tagsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		tags, err := tagSvc.ListTags(c.UserContext(), who)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Tags fetched", tags)
	}
}

// AssignTag links a tag to a transaction.
// @Summary Assign a tag
// @Tags tags
// @Accept json
// @Produce json
// @Param request body AssignTagRequest true "Assignment"
// @Success 201 {object} common.Response
// @Failure 400 {object} common.ProblemDetails
// @Failure 401 {object} common.ProblemDetails
// @Failure 404 {object} common.ProblemDetails
// @Failure 409 {object} common.ProblemDetails "Already assigned"
// @Router /tags/assign [post]
// @Security Bearer
func AssignTag(tagSvc *tagsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		input, err := common.BindAndValidate[AssignTagRequest](c)
		if input == nil {
			return err
		}
		a, err := tagSvc.AssignTag(c.UserContext(), who,
			uuid.MustParse(input.TransactionID), uuid.MustParse(input.TagID))
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusCreated, "Tag assigned to transaction successfully", a)
	}
}

// ListTagsForTransaction returns the tags assigned to a transaction.
// @Summary Tags of a transaction
// @Tags tags
// @Produce json
// @Param id path string true "Transaction ID"
// @Success 200 {object} common.Response
// @Failure 401 {object} common.ProblemDetails
// @Failure 403 {object} common.ProblemDetails
// @Router /tags/transaction/{id} [get]
// @Security Bearer
func ListTagsForTransaction(tagSvc *tagsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		who, err := common.Caller(c)
		if err != nil {
			return err
		}
		id, err := common.ParseID(c, "id")
		if err != nil {
			return err
		}
		tags, err := tagSvc.ListTagsForTransaction(c.UserContext(), who, id)
		if err != nil {
			return err
		}
		return common.SuccessResponseJSON(c, fiber.StatusOK, "Tags fetched", tags)
	}
}
