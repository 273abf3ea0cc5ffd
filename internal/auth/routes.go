package auth

import (
	"expense-backoffice/internal/apiclient"

	"github.com/gofiber/fiber/v2"
)

// Routes auth uçlarını kaydeder ve JWT ile korunan grubu döner. Oturum
// gerektiren her uç bu gruba eklenir.
func Routes(root fiber.Router, opts Options, api *apiclient.Client) fiber.Router {
	root.Post("/auth/login", LoginHandler(opts, api))
	root.Post("/auth/register", RegisterHandler(api))

	protected := root.Group("")
	protected.Use(JWTMiddleware(opts.Secret, opts.Sealer))

	protected.Post("/auth/refresh", RefreshHandler(opts, api))
	protected.Get("/auth/me", MeHandler(api))
	protected.Post("/auth/logout", LogoutHandler())
	protected.Put("/session/business", SwitchBusinessHandler(api))
	return protected
}
