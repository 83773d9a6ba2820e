package http

import (
	"errors"

	commonsHttp "github.com/LerianStudio/lib-commons/commons/net/http"
	"github.com/gofiber/fiber/v2"
	"github.com/keybridge-io/license-bridge/pkg"
)

// WithError maps a typed error to its HTTP response.
func WithError(c *fiber.Ctx, err error) error {
	switch e := err.(type) {
	case pkg.EntityNotFoundError:
		return commonsHttp.NotFound(c, e.Code, e.Title, e.Message)
	case pkg.ValidationError:
		return commonsHttp.BadRequest(c, e)
	case pkg.UnauthorizedError:
		// Authentication failures answer with an empty body; the caller
		// learns nothing about which check failed.
		return c.Status(fiber.StatusUnauthorized).Send(nil)
	case pkg.UnprocessableOperationError:
		return commonsHttp.UnprocessableEntity(c, e.Code, e.Title, e.Message)
	case pkg.HTTPError:
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{
			"code":    e.Code,
			"title":   e.Title,
			"message": e.Message,
		})
	default:
		var iErr pkg.InternalServerError
		_ = errors.As(pkg.ValidateInternalError(err, ""), &iErr)

		return commonsHttp.InternalServerError(c, iErr.Code, iErr.Title, iErr.Message)
	}
}
