package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/lysokunvoath/grex/internal/middleware"
)

// Handlers groups the REST handlers mounted under /api.
type Handlers struct {
	Auth    *AuthHandler
	Groups  *GroupHandler
	Meetups *MeetupHandler
	Icons   *IconHandler
}

// Mount registers every REST route on api. csrf guards every route that
// sees a session cookie.
func (h Handlers) Mount(api fiber.Router, jwtSecret string, csrf fiber.Handler) {
	auth := api.Group("/auth", limiter.New(limiter.Config{
		Max:        20,
		Expiration: time.Minute,
	}))
	auth.Get("/csrf", h.Auth.CSRF)
	auth.Post("/register", h.Auth.Register)
	auth.Post("/login", h.Auth.Login)
	auth.Post("/refresh", h.Auth.Refresh)
	auth.Post("/logout", csrf, h.Auth.Logout)

	protected := api.Group("/", middleware.AuthRequired(jwtSecret), csrf)
	protected.Get("/auth/session", h.Auth.Session)
	protected.Get("/users/me/memberships", h.Groups.ListMemberships)

	protected.Get("/groups", h.Groups.ListGroups)
	protected.Post("/groups", h.Groups.CreateGroup)
	protected.Get("/groups/public", h.Groups.SearchPublic)
	protected.Get("/groups/:id", h.Groups.GetGroup)
	protected.Patch("/groups/:id", h.Groups.UpdateGroup)
	protected.Delete("/groups/:id", h.Groups.DeleteGroup)
	protected.Post("/groups/:id/join", h.Groups.JoinGroup)
	protected.Get("/groups/:id/members", h.Groups.ListMembers)
	protected.Post("/groups/:id/members", h.Groups.AddMember)
	protected.Delete("/groups/:id/members/:user_id", h.Groups.RemoveMember)

	protected.Get("/groups/:id/icon", h.Icons.GetIcon)
	protected.Put(
		"/groups/:id/icon",
		limiter.New(limiter.Config{
			Max:          10,
			Expiration:   10 * time.Minute,
			KeyGenerator: UserKey("icon"),
		}),
		h.Icons.UploadIcon,
	)

	protected.Get("/meetups", h.Meetups.ListMeetups)
	protected.Post("/groups/:id/meetups", h.Meetups.CreateMeetup)
}
