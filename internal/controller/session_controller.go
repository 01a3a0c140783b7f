package controller

import (
	"github.com/gofiber/fiber/v2"

	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/dto"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/pkg/serverutils"
	"github.com/vamsikrrishnaa/ExcaliChirpul/internal/session"
)

type ISessionController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
}

type sessionController struct {
	sess session.Session
}

func NewSessionController(sess session.Session) ISessionController {
	return &sessionController{sess: sess}
}

func (c *sessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/session/v1")
	h.Get("", c.Show)
}

func (c *sessionController) Show(ctx *fiber.Ctx) error {
	res := dto.SessionResponse{
		ProjectId: c.sess.ProjectId,
		BoardId:   c.sess.BoardId,
		ViewOnly:  c.sess.ViewOnly,
		Theme:     c.sess.Theme,
		Zen:       c.sess.Zen,
		Grid:      c.sess.Grid,
		Controls:  c.sess.Controls,
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}
