package httpx

import (
	"fmt"
	"strconv"
	"time"

	"expense-backoffice/internal/apiclient"

	"github.com/gofiber/fiber/v2"
)

func invalid(msg string) error {
	return apiclient.NewError(fiber.StatusBadRequest, apiclient.CodeValidation, msg)
}

// ParamID ":id" gibi path parametrelerini pozitif sayıya çevirir.
func ParamID(c *fiber.Ctx, name string) (uint, error) {
	v, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || v == 0 {
		return 0, invalid(fmt.Sprintf("%s geçersiz", name))
	}
	return uint(v), nil
}

// QueryID opsiyonel sayısal query parametresi; yoksa nil.
func QueryID(c *fiber.Ctx, name string) (*uint, error) {
	s := c.Query(name)
	if s == "" {
		return nil, nil
	}
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil || v == 0 {
		return nil, invalid(fmt.Sprintf("%s geçersiz", name))
	}
	id := uint(v)
	return &id, nil
}

// YearMonth ?year=2025&month=3 okur; boşsa bugünün ayı kullanılır.
func YearMonth(c *fiber.Ctx, now time.Time) (int, int, error) {
	year, month := now.Year(), int(now.Month())
	if s := c.Query("year"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 2000 || v > 2100 {
			return 0, 0, invalid("year geçersiz")
		}
		year = v
	}
	if s := c.Query("month"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > 12 {
			return 0, 0, invalid("month geçersiz")
		}
		month = v
	}
	return year, month, nil
}

// BodyParse gövdeyi okur; hata durumunda VALIDATION_ERROR döner.
func BodyParse(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return invalid("Geçersiz istek gövdesi")
	}
	return nil
}
