package server

import (
	"fmt"

	"github.com/gofiber/fiber/v2"

	"github.com/kehinde-ajayi/docchat/internal/common"
)

// ask runs one question/answer exchange. With no document named in the
// request, the question goes to the active document.
func (s *Server) ask(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	if err := ValidateRequest(req); err != nil {
		return err
	}

	name := req.Document
	if name == "" {
		name = s.deps.Store.ActiveName()
	}

	turn, err := s.deps.Dispatcher.Ask(c.UserContext(), name, req.Question)
	if err != nil {
		return err
	}

	return c.JSON(SuccessResponse("answered", AskResponse{
		Document: name,
		Answer:   TurnResponse{Role: turn.Role, Message: turn.Message, At: turn.At},
	}))
}
