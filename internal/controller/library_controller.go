package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/serverutils"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/service"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

type ILibraryController interface {
	RegisterRoutes(r fiber.Router)
	View(ctx *fiber.Ctx) error
	Replace(ctx *fiber.Ctx) error
	ToggleStar(ctx *fiber.Ctx) error
	Clear(ctx *fiber.Ctx) error
}

type libraryController struct {
	sess            session.Session
	catalogService  service.ICatalogService
	curationService service.ICurationService
	ownerSecret     string
}

func NewLibraryController(
	sess session.Session,
	catalogService service.ICatalogService,
	curationService service.ICurationService,
	ownerSecret string,
) ILibraryController {
	return &libraryController{
		sess:            sess,
		catalogService:  catalogService,
		curationService: curationService,
		ownerSecret:     ownerSecret,
	}
}

func (c *libraryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/library/v1")
	h.Get("", c.View)
	h.Put("", c.Replace)
	h.Put(":id/star", c.ToggleStar)

	if c.sess.Controls {
		h.Delete("", serverutils.OwnerMiddleware(c.ownerSecret), c.Clear)
	}
}

func (c *libraryController) View(ctx *fiber.Ctx) error {
	query := ctx.Query("query")

	items := c.catalogService.PresentationView(query)
	return ctx.JSON(serverutils.SuccessResponse("Success get library view", dto.CatalogViewResponse{Items: items}))
}

func (c *libraryController) Replace(ctx *fiber.Ctx) error {
	var req dto.ReplaceCatalogRequest
	if err := ctx.BodyParser(&req); err != nil {
		return err
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	c.catalogService.ReplaceCatalog(req.Items)
	return ctx.JSON(serverutils.SuccessResponse("Success replace library", nil))
}

func (c *libraryController) ToggleStar(ctx *fiber.Ctx) error {
	id := ctx.Params("id")
	if id == "" {
		return fiber.NewError(fiber.StatusBadRequest, "missing id")
	}

	starred := c.curationService.Toggle(id)
	return ctx.JSON(serverutils.SuccessResponse("Success toggle star", dto.ToggleStarResponse{Id: id, Starred: starred}))
}

func (c *libraryController) Clear(ctx *fiber.Ctx) error {
	c.catalogService.Clear()
	return ctx.JSON(serverutils.SuccessResponse("Success clear library", nil))
}
