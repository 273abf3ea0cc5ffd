package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"expense-backoffice/internal/apiclient"
	"expense-backoffice/internal/logger"
	"expense-backoffice/internal/validation"

	"github.com/gofiber/fiber/v2"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

type SwitchBusinessRequest struct {
	BusinessID uint `json:"business_id" validate:"required"`
}

type Options struct {
	Secret     string
	Sealer     *Sealer
	SessionTTL time.Duration
}

func badBody() error {
	return apiclient.NewError(http.StatusBadRequest, apiclient.CodeValidation, "Geçersiz istek gövdesi")
}

// POST /api/auth/login
func LoginHandler(opts Options, api *apiclient.Client) fiber.Handler {
	log := logger.WithComponent("auth")
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return badBody()
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		if err := validation.Struct(body); err != nil {
			return err
		}

		tokens, err := api.Login(c.UserContext(), apiclient.LoginInput{Email: body.Email, Password: body.Password})
		if err != nil {
			return err
		}

		user := tokens.User
		if user == nil {
			// Login cevabında kullanıcı yoksa /auth/me'den al
			if user, err = api.WithToken(tokens.AccessToken).Me(c.UserContext()); err != nil {
				return err
			}
		}

		row, err := createSession(opts.Sealer, tokens, user, opts.SessionTTL)
		if err != nil {
			return err
		}

		token, err := GenerateToken(opts.Secret, row.ID, row.UserID, row.ExpiresAt)
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Token oluşturulamadı")
		}

		log.Info().Uint("user_id", user.ID).Str("session_id", row.ID).Msg("giriş yapıldı")

		return c.JSON(fiber.Map{
			"token":      token,
			"expires_at": row.ExpiresAt.Format(time.RFC3339),
			"user":       user,
		})
	}
}

// POST /api/auth/refresh
func RefreshHandler(opts Options, api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := CurrentSession(c)
		if err != nil {
			return err
		}

		refresh, err := refreshTokenOf(opts.Sealer, sess.ID)
		if err != nil || refresh == "" {
			return unauthorized("Yenileme token'ı yok, tekrar giriş yapın")
		}

		tokens, err := api.Refresh(c.UserContext(), refresh)
		if err != nil {
			return err
		}
		if err := updateTokens(opts.Sealer, sess.ID, tokens); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// POST /api/auth/register
func RegisterHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return badBody()
		}
		body.Email = strings.TrimSpace(strings.ToLower(body.Email))
		body.Name = strings.TrimSpace(body.Name)
		if err := validation.Struct(body); err != nil {
			return err
		}

		user, err := api.Register(c.UserContext(), apiclient.RegisterInput{
			Name:     body.Name,
			Email:    body.Email,
			Password: body.Password,
		})
		if err != nil {
			return err
		}
		return c.Status(fiber.StatusCreated).JSON(user)
	}
}

// GET /api/auth/me
func MeHandler(api *apiclient.Client) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := CurrentSession(c)
		if err != nil {
			return err
		}
		user, err := api.WithToken(sess.AccessToken).Me(c.UserContext())
		if err != nil {
			return err
		}
		return c.JSON(fiber.Map{
			"user":        user,
			"business_id": sess.BusinessID,
			"session_id":  sess.ID,
		})
	}
}

// PUT /api/session/business
func SwitchBusinessHandler(api *apiclient.Client) fiber.Handler {
	log := logger.WithComponent("auth")
	return func(c *fiber.Ctx) error {
		sess, err := CurrentSession(c)
		if err != nil {
			return err
		}
		var body SwitchBusinessRequest
		if err := c.BodyParser(&body); err != nil {
			return badBody()
		}
		if err := validation.Struct(body); err != nil {
			return err
		}

		if err := authorizeBusiness(c.UserContext(), api.WithToken(sess.AccessToken), body.BusinessID); err != nil {
			log.Warn().Err(err).Uint("user_id", sess.UserID).Uint("business_id", body.BusinessID).
				Msg("işletme değişikliği reddedildi")
			return err
		}

		if err := setBusiness(sess.ID, body.BusinessID); err != nil {
			return err
		}
		return c.JSON(fiber.Map{"business_id": body.BusinessID})
	}
}

// authorizeBusiness kullanıcının işletmeye üye olduğunu upstream'e doğrulatır.
// Kullanıcının kendi işletmesi /auth/me'den gelir; diğerleri için upstream'in
// işletme kapsamlı bir okumayı kabul etmesi gerekir.
func authorizeBusiness(ctx context.Context, up *apiclient.Client, businessID uint) error {
	user, err := up.Me(ctx)
	if err != nil {
		return err
	}
	if user.BusinessID != nil && *user.BusinessID == businessID {
		return nil
	}

	if _, err := up.ListSections(ctx, businessID); err != nil {
		if apiErr, ok := apiclient.AsAPIError(err); ok &&
			(apiErr.Status == http.StatusForbidden || apiErr.Status == http.StatusNotFound) {
			return apiclient.NewError(http.StatusForbidden, apiclient.CodeInsufficientPerms, "Bu işletmeye erişim yetkiniz yok")
		}
		return err
	}
	return nil
}

// POST /api/auth/logout
func LogoutHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess, err := CurrentSession(c)
		if err != nil {
			return err
		}
		if err := deleteSession(sess.ID); err != nil {
			return err
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}
