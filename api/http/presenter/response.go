package presenter

import "github.com/gofiber/fiber/v2"

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope of every JSON API reply.
type Response struct {
	Status  string `json:"status"`
	Data    any    `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	Count   *int   `json:"count,omitempty"`
}

type ErrorResponse struct {
	Status  string            `json:"status"`
	Message string            `json:"message"`
	Error   string            `json:"error,omitempty"`
	Errors  map[string]string `json:"errors,omitempty"`
}

func JSON(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func Success(c *fiber.Ctx, status int, data any) error {
	return JSON(c, status, Response{Status: StatusSuccess, Data: data})
}

// Message replies with a human readable confirmation and optional data.
func Message(c *fiber.Ctx, status int, msg string, data any) error {
	return JSON(c, status, Response{Status: StatusSuccess, Message: msg, Data: data})
}

// List replies with a collection and its size.
func List[T any](c *fiber.Ctx, items []T) error {
	if items == nil {
		items = []T{}
	}
	n := len(items)
	return JSON(c, fiber.StatusOK, Response{Status: StatusSuccess, Data: items, Count: &n})
}

func Error(c *fiber.Ctx, status int, message string) error {
	return JSON(c, status, ErrorResponse{Status: StatusError, Message: message})
}

// ValidationError replies 400 with one message per invalid field.
func ValidationError(c *fiber.Ctx, message string, fields map[string]string) error {
	return JSON(c, fiber.StatusBadRequest, ErrorResponse{Status: StatusError, Message: message, Errors: fields})
}
