package http

import (
	nethttp "net/http"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/filesystem"
	swagger "github.com/gofiber/swagger"

	"github.com/cvfolio/cvfolio/api/http/handlers"
	"github.com/cvfolio/cvfolio/api/http/middleware"
	"github.com/cvfolio/cvfolio/api/http/views"
	"github.com/cvfolio/cvfolio/pkg/security/jwt"
)

// Handlers groups everything Register mounts.
type Handlers struct {
	Pages     *handlers.PageHandler
	Admin     *handlers.AdminHandler
	Auth      *handlers.AuthHandler
	Health    *handlers.HealthHandler
	CV        *handlers.CVHandler
	Contact   *handlers.ContactHandler
	Documents *handlers.DocumentsHandler
	Users     *handlers.UsersHandler
	Products  *handlers.ProductsHandler

	Sessions *middleware.Sessions
	Verifier *jwt.Verifier
}

// Register wires all HTTP routes onto given Fiber app.
func Register(app *fiber.App, h Handlers) {
	app.Use("/static", filesystem.New(filesystem.Config{Root: nethttp.FS(views.Static())}))
	app.Get("/swagger/*", swagger.HandlerDefault)

	app.Use(h.Sessions.Load())

	// Public pages
	app.Get("/", h.Pages.Home)
	app.Get("/experience", h.Pages.Experience)
	app.Get("/formation", h.Pages.Formation)
	app.Get("/loisirs", h.Pages.Loisirs)
	app.Get("/contact", h.Pages.ContactForm)
	app.Post("/contact", h.Pages.ContactSubmit)
	app.Get("/cv/document", h.Pages.DownloadCV)

	app.Get("/login", h.Auth.LoginForm)
	app.Post("/login", h.Auth.Login)
	app.Get("/register", h.Auth.RegisterForm)
	app.Post("/register", h.Auth.Register)
	app.Get("/logout", h.Auth.Logout)
	app.Post("/logout", h.Auth.Logout)

	// Back office
	admin := app.Group("/admin", h.Sessions.RequireLogin())
	admin.Get("/", h.Admin.Dashboard)
	admin.Get("/experiences", h.Admin.Experiences)
	admin.Get("/experiences/new", h.Admin.NewExperience)
	admin.Post("/experiences", h.Admin.CreateExperience)
	admin.Post("/experiences/:id/delete", h.Admin.DeleteExperience)
	admin.Get("/formations", h.Admin.Formations)
	admin.Get("/formations/new", h.Admin.NewFormation)
	admin.Post("/formations", h.Admin.CreateFormation)
	admin.Post("/formations/:id/delete", h.Admin.DeleteFormation)
	admin.Get("/loisirs", h.Admin.Loisirs)
	admin.Get("/loisirs/new", h.Admin.NewLoisir)
	admin.Post("/loisirs", h.Admin.CreateLoisir)
	admin.Post("/loisirs/:id/delete", h.Admin.DeleteLoisir)
	admin.Get("/messages", h.Admin.Messages)
	admin.Post("/messages/:id/read", h.Admin.ReadMessage)
	admin.Post("/messages/:id/delete", h.Admin.DeleteMessage)

	api := app.Group("/api")
	protected := middleware.RequireAPIAuth(h.Verifier)

	// Health and readiness endpoints for monitoring
	api.Get("/health", h.Health.Health)
	api.Get("/ready", h.Health.Ready)

	api.Post("/auth/token", h.Auth.Token)

	cvg := api.Group("/cv")
	cvg.Get("/", h.CV.Get)
	cvg.Get("/stats", h.CV.Stats)
	cvg.Put("/", protected, h.CV.Update)
	cvg.Post("/reset", protected, h.CV.Reset)
	cvg.Post("/experiences", protected, h.CV.AddExperience)
	cvg.Delete("/experiences/:id", protected, h.CV.DeleteExperience)
	cvg.Post("/formations", protected, h.CV.AddFormation)
	cvg.Delete("/formations/:id", protected, h.CV.DeleteFormation)
	cvg.Post("/competences", protected, h.CV.AddCompetence)
	cvg.Delete("/competences/:id", protected, h.CV.DeleteCompetence)
	cvg.Post("/loisirs", protected, h.CV.AddLoisir)
	cvg.Delete("/loisirs/:id", protected, h.CV.DeleteLoisir)
	cvg.Post("/document", protected, h.Documents.Upload)
	cvg.Get("/documents", protected, h.Documents.List)
	cvg.Post("/documents/:id/extract", protected, h.Documents.Extract)
	cvg.Post("/documents/:id/import", protected, h.Documents.Import)

	// Fixed paths are registered before /:id.
	cg := api.Group("/contact")
	cg.Post("/", h.Contact.Create)
	cg.Get("/", protected, h.Contact.List)
	cg.Get("/filter/unread", protected, h.Contact.Unread)
	cg.Get("/filter/archived", protected, h.Contact.Archived)
	cg.Get("/filter/category/:categorie", protected, h.Contact.ByCategory)
	cg.Get("/search/query", protected, h.Contact.Search)
	cg.Get("/stats/overview", protected, h.Contact.Stats)
	cg.Post("/delete-multiple", protected, h.Contact.DeleteMany)
	cg.Get("/:id", protected, h.Contact.Get)
	cg.Put("/:id/read", protected, h.Contact.MarkRead)
	cg.Put("/:id/unread", protected, h.Contact.MarkUnread)
	cg.Put("/:id/important", protected, h.Contact.SetImportant)
	cg.Put("/:id/answered", protected, h.Contact.MarkAnswered)
	cg.Put("/:id/archive", protected, h.Contact.Archive)
	cg.Delete("/:id", protected, h.Contact.Delete)

	ug := api.Group("/users", protected)
	ug.Get("/", h.Users.List)
	ug.Post("/", h.Users.Create)
	ug.Get("/:id", h.Users.Get)
	ug.Put("/:id", h.Users.Update)
	ug.Delete("/:id", h.Users.Delete)

	pg := api.Group("/products")
	pg.Get("/", h.Products.List)
	pg.Get("/:id", h.Products.Get)
	pg.Post("/", protected, h.Products.Create)
	pg.Put("/:id", protected, h.Products.Update)
	pg.Delete("/:id", protected, h.Products.Delete)

	app.Use(handlers.NotFound)
}
