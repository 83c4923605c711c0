package pkg

import (
	"errors"
	"reflect"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
	appError "github.com/stockpod/stockpod-core/internal/app/errors"
	"github.com/stockpod/stockpod-core/internal/app/models"
)

func SuccessResponse[T any](c *fiber.Ctx, data T) error {
	return c.JSON(models.WebResponse[T]{
		Success: true,
		Data:    data,
	})
}

func CreatedResponse[T any](c *fiber.Ctx, data T) error {
	return c.Status(fiber.StatusCreated).JSON(models.WebResponse[T]{
		Success: true,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, err error) error {
	var appErr *appError.AppError
	if errors.As(err, &appErr) {
		return c.Status(appErr.StatusCode).JSON(models.WebResponse[any]{
			Success: false,
			Code:    appErr.Code,
			Message: appErr.Message,
		})
	}

	logrus.Errorf("[%s] %s", reflect.TypeOf(err).String(), err)

	return c.Status(fiber.StatusInternalServerError).JSON(models.WebResponse[any]{
		Success: false,
		Message: "Internal Server Error",
	})
}
