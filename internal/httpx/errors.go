package httpx

import (
	"errors"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/logger"

	"github.com/gofiber/fiber/v2"
)

// ErrorHandler tüm hataları {error_code, detail} gövdesine çevirir.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(apiclient.APIError{
			Code:    codeForFiberStatus(fe.Code),
			Message: fe.Message,
		})
	}

	apiErr := apiclient.Normalize(err)
	if apiErr.Code == apiclient.CodeUnknown {
		log := logger.WithComponent("http")
		log.Error().Err(err).Str("path", c.Path()).Msg("beklenmeyen hata")
	}
	return c.Status(apiErr.Status).JSON(apiErr)
}

func codeForFiberStatus(status int) string {
	switch status {
	case fiber.StatusBadRequest, fiber.StatusUnprocessableEntity:
		return apiclient.CodeValidation
	case fiber.StatusUnauthorized:
		return apiclient.CodeUnauthorized
	case fiber.StatusForbidden:
		return apiclient.CodeInsufficientPerms
	case fiber.StatusNotFound:
		return apiclient.CodeNotFound
	case fiber.StatusConflict:
		return apiclient.CodeConflict
	}
	return apiclient.CodeUnknown
}
