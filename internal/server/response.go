package server

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/kehinde-ajayi/docchat/internal/common"
)

// Response is the envelope every JSON endpoint returns.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func SuccessResponse(message string, data any) Response {
	return Response{Status: "success", Message: message, Data: data}
}

var validate = validator.New()

// ValidateRequest runs struct-tag validation and folds failures into a
// single ErrInvalidInput.
func ValidateRequest(req any) error {
	if err := validate.Struct(req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			fields := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				fields = append(fields, fmt.Sprintf("%s (%s)", fe.Field(), fe.Tag()))
			}
			return fmt.Errorf("%w: %s", common.ErrInvalidInput, strings.Join(fields, ", "))
		}
		return fmt.Errorf("%w: %v", common.ErrInvalidInput, err)
	}
	return nil
}

// statusForError maps domain sentinels onto HTTP status codes.
func statusForError(err error) int {
	switch {
	case errors.Is(err, common.ErrDocumentNotFound), errors.Is(err, common.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, common.ErrInvalidInput), errors.Is(err, common.ErrUnsupportedFormat):
		return fiber.StatusBadRequest
	case errors.Is(err, common.ErrUnreadableDocument):
		return fiber.StatusUnprocessableEntity
	case errors.Is(err, common.ErrNoActiveDocument):
		return fiber.StatusConflict
	case errors.Is(err, common.ErrResponderUnavailable):
		return fiber.StatusBadGateway
	default:
		return fiber.StatusInternalServerError
	}
}

// NewErrorHandler builds the app-wide Fiber error handler. Handlers return
// errors and the mapping to status codes happens in exactly one place.
func NewErrorHandler(logger *zap.Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(Response{Status: "error", Message: fe.Message})
		}

		code := statusForError(err)
		if code >= fiber.StatusInternalServerError {
			logger.Error("http.request.failed",
				zap.String("method", c.Method()),
				zap.String("path", c.Path()),
				zap.Error(err),
			)
		}
		return c.Status(code).JSON(Response{Status: "error", Message: err.Error()})
	}
}
