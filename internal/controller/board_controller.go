package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/serverutils"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/service"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

type IBoardController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
	ForceSave(ctx *fiber.Ctx) error
}

type boardController struct {
	sess            session.Session
	syncService     service.ISyncService
	autosaveService service.IAutosaveService
	ownerSecret     string
}

func NewBoardController(
	sess session.Session,
	syncService service.ISyncService,
	autosaveService service.IAutosaveService,
	ownerSecret string,
) IBoardController {
	return &boardController{
		sess:            sess,
		syncService:     syncService,
		autosaveService: autosaveService,
		ownerSecret:     ownerSecret,
	}
}

func (c *boardController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/board/v1")
	h.Get("status", c.Status)

	// Owner-control affordances only exist when the controls parameter
	// revealed them.
	if c.sess.Controls {
		h.Post("save", serverutils.OwnerMiddleware(c.ownerSecret), c.ForceSave)
	}
}

func (c *boardController) Status(ctx *fiber.Ctx) error {
	state := c.syncService.Status()

	res := dto.BoardStatusResponse{
		Loaded:      state.Loaded,
		Saving:      state.Saving,
		ViewOnly:    c.sess.ViewOnly,
		LastSavedAt: state.LastSavedAt,
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get board status", res))
}

func (c *boardController) ForceSave(ctx *fiber.Ctx) error {
	c.autosaveService.ForceSave()
	return ctx.JSON(serverutils.SuccessResponse("Save scheduled", nil))
}
