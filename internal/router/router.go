package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4" // Echo web framework for routing

	"github.com/tropictalks/classhub/internal/handler"    // handlers implementing the endpoints
	"github.com/tropictalks/classhub/internal/middleware" // JWT auth, role guard and identity binding
	"github.com/tropictalks/classhub/internal/model"
)

// Handlers bundles every handler the router wires up. All fields must
// be non-nil.
type Handlers struct {
	Auth       *handler.AuthHandler
	Classes    *handler.ClassHandler
	Selections *handler.SelectionHandler
	Enrollment *handler.EnrollmentHandler
	Payments   *handler.PaymentHandler
	Users      *handler.UserHandler
}

// Register wires all routes onto the Echo instance. The cacheClasses
// middleware (possibly a pass-through) is applied to the public class
// catalog only; users is the store consulted by the admin role guard.
//
// Authentication and authorization are layered strictly: JWTAuth runs
// before any role or identity check, and auth failures answer at the
// boundary without touching the data layer.
func Register(e *echo.Echo, h Handlers, users middleware.RoleLookup, jwtSecret string, cacheClasses echo.MiddlewareFunc) {
	// Health check for load balancers and monitors.
	e.GET("/healthz", handler.Health)

	// Unauthenticated surface: token issuance (deliberately open, see
	// AuthHandler docs), first-login user registration and the public
	// class catalog.
	e.POST("/auth/token", h.Auth.Token)
	e.POST("/users", h.Users.Create)
	e.GET("/classes", h.Classes.List, cacheClasses)

	// Everything below requires a valid bearer token.
	auth := e.Group("")
	auth.Use(middleware.JWTAuth(jwtSecret))

	// Selections: listing is identity-bound; deletion is only
	// authenticated (any caller may delete by id — an inherited gap,
	// preserved).
	auth.GET("/selections", h.Selections.List, middleware.BindEmailQuery("email"))
	auth.POST("/selections", h.Selections.Add)
	auth.DELETE("/selections/:id", h.Selections.Delete)

	// Learner-owned reads, identity-bound on the email parameter.
	auth.GET("/enrollments", h.Enrollment.List, middleware.BindEmailQuery("email"))
	auth.GET("/payment-history", h.Payments.ListHistory, middleware.BindEmailQuery("email"))
	auth.GET("/users/admin/:email", h.Users.IsAdmin, middleware.BindEmailParam("email"))
	auth.GET("/users/instructor/:email", h.Users.IsInstructor, middleware.BindEmailParam("email"))

	// Payment path: intent before the charge, settlement after it.
	auth.POST("/payment-intent", h.Payments.CreateIntent)
	auth.POST("/settle-payment", h.Payments.Settle)

	// Admin surface: the role guard consults the user store on every
	// request, so demotions apply immediately.
	admin := auth.Group("/users")
	admin.Use(middleware.RequireRole(users, model.RoleAdmin))
	admin.GET("", h.Users.List)
	admin.PATCH("/:id", h.Users.UpdateRole)
}
