package routes

import (
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/velmark/archery-federation/handlers"
	"github.com/velmark/archery-federation/middleware"
	"github.com/velmark/archery-federation/models"
)

// SetupRoutes wires every handler onto the router. Event-organizer routes
// live under /eo, public read routes stay open.
func SetupRoutes(
	router *chi.Mux,
	authHandler *handlers.AuthHandler,
	userHandler *handlers.UserHandler,
	clubHandler *handlers.ClubHandler,
	eventHandler *handlers.EventHandler,
	categoryHandler *handlers.CategoryHandler,
	categoryDraftHandler *handlers.CategoryDraftHandler,
	registrationHandler *handlers.RegistrationHandler,
	matchHandler *handlers.MatchHandler,
	certificateHandler *handlers.CertificateHandler,
	webSocketHandler *handlers.WebSocketHandler,
	jwtSecret string,
) {
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authenticate := middleware.Authenticate(jwtSecret)
	organizerOnly := middleware.RequireRole(models.RoleOrganizer, models.RoleAdmin)

	// Auth
	router.Post("/auth/register", authHandler.Register)
	router.Post("/auth/login", authHandler.Login)

	// Users
	router.Route("/users", func(r chi.Router) {
		r.Get("/{userID}", userHandler.GetUser)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Get("/me", userHandler.GetCurrentUser)
			r.Put("/me", userHandler.UpdateProfile)
			r.Post("/me/avatar", userHandler.UploadAvatar)
		})
	})

	// Clubs
	router.Route("/clubs", func(r chi.Router) {
		r.Get("/", clubHandler.ListClubs)
		r.Get("/{clubID}", clubHandler.GetClub)
		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/", clubHandler.CreateClub)
			r.Put("/{clubID}", clubHandler.UpdateClub)
			r.Post("/{clubID}/logo", clubHandler.UploadLogo)
			r.With(middleware.RequireRole(models.RoleAdmin)).Delete("/{clubID}", clubHandler.DeleteClub)
		})
	})

	// Public event views
	router.Route("/events", func(r chi.Router) {
		r.Get("/", eventHandler.ListEvents)
		r.Get("/{eventID}", eventHandler.GetEvent)
		r.Get("/{eventID}/categories", categoryHandler.ListCategories)
		r.Get("/{eventID}/certificates", certificateHandler.ListByEvent)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Post("/{eventID}/categories/{categoryID}/registrations", registrationHandler.Register)
		})
	})

	// Event-organizer surface
	router.Route("/eo", func(r chi.Router) {
		r.Use(authenticate)
		r.Use(organizerOnly)

		r.Route("/events", func(r chi.Router) {
			r.Post("/", eventHandler.CreateEvent)
			r.Put("/{eventID}", eventHandler.UpdateEvent)
			r.Put("/{eventID}/status", eventHandler.UpdateEventStatus)
			r.Post("/{eventID}/poster", eventHandler.UploadPoster)
			r.Delete("/{eventID}", eventHandler.DeleteEvent)

			r.Get("/{eventID}/categories", categoryHandler.ListCategories)
			r.Post("/{eventID}/categories", categoryHandler.CreateCategory)
			r.Post("/{eventID}/categories/generate", categoryHandler.GenerateCategories)
			r.Put("/{eventID}/categories/{categoryID}", categoryHandler.UpdateCategory)
			r.Delete("/{eventID}/categories/{categoryID}", categoryHandler.DeleteCategory)

			// Draft composition before categories go live
			r.Route("/{eventID}/categories/draft", func(r chi.Router) {
				r.Get("/", categoryDraftHandler.ListDraft)
				r.Post("/", categoryDraftHandler.AddToDraft)
				r.Delete("/", categoryDraftHandler.DiscardDraft)
				r.Post("/generate", categoryDraftHandler.GenerateIntoDraft)
				r.Post("/publish", categoryDraftHandler.PublishDraft)
				r.Put("/edit", categoryDraftHandler.CommitEdit)
				r.Delete("/edit", categoryDraftHandler.CancelEdit)
				r.Post("/{draftID}/edit", categoryDraftHandler.BeginEdit)
				r.Delete("/{draftID}", categoryDraftHandler.RemoveFromDraft)
			})

			r.Get("/{eventID}/categories/{categoryID}/registrations", registrationHandler.ListByCategory)
			r.Post("/{eventID}/athletes/{athleteID}/certificates", certificateHandler.Upload)
		})

		r.Put("/registrations/{registrationID}/status", registrationHandler.UpdateStatus)
		r.Delete("/certificates/{certificateID}", certificateHandler.Delete)
	})

	// Registrations owned by the athlete
	router.With(authenticate).Delete("/registrations/{registrationID}", registrationHandler.Withdraw)

	// Matches and brackets
	router.Route("/matches", func(r chi.Router) {
		r.Get("/{eventID}/category/{categoryID}", matchHandler.GetBracket)
		r.Get("/{matchID}", matchHandler.GetMatch)

		r.Group(func(r chi.Router) {
			r.Use(authenticate)
			r.Use(organizerOnly)
			r.Post("/generate", matchHandler.GenerateBracket)
			r.Post("/{matchID}/result", matchHandler.RecordResult)
		})
	})

	// Live bracket updates
	router.Get("/ws/events/{eventID}", webSocketHandler.ServeWs)
}
