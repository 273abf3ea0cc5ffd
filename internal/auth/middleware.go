package auth

import (
	"errors"
	"net/http"
	"strings"

	"expense-backoffice/internal/apiclient"

	"github.com/gofiber/fiber/v2"
)

const CtxSessionKey = "session"

func unauthorized(msg string) error {
	return apiclient.NewError(http.StatusUnauthorized, apiclient.CodeUnauthorized, msg)
}

// JWTMiddleware gateway token'ını doğrular, oturumu yükler ve Locals'a koyar.
func JWTMiddleware(secret string, sealer *Sealer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return unauthorized("Authorization header eksik")
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			return unauthorized("Authorization formatı 'Bearer <token>' olmalı")
		}

		claims, err := ParseToken(secret, parts[1])
		if err != nil {
			return unauthorized("Geçersiz veya süresi dolmuş token")
		}

		sess, err := loadSession(sealer, claims.SessionID)
		if err != nil {
			if errors.Is(err, errSessionNotFound) || errors.Is(err, ErrUnseal) {
				return unauthorized("Oturum bulunamadı")
			}
			return err
		}

		c.Locals(CtxSessionKey, sess)
		return c.Next()
	}
}

func CurrentSession(c *fiber.Ctx) (*Session, error) {
	sess, ok := c.Locals(CtxSessionKey).(*Session)
	if !ok || sess == nil {
		return nil, unauthorized("Oturum bilgisi alınamadı")
	}
	return sess, nil
}

// Client oturumun token'ıyla upstream client'ı ve seçili işletmeyi döner.
func Client(c *fiber.Ctx, api *apiclient.Client) (*apiclient.Client, *Session, uint, error) {
	sess, err := CurrentSession(c)
	if err != nil {
		return nil, nil, 0, err
	}
	businessID, err := sess.Business()
	if err != nil {
		return nil, nil, 0, err
	}
	return api.WithToken(sess.AccessToken), sess, businessID, nil
}
