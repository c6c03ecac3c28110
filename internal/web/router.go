package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/hopebridge/intake/internal/config"
	"github.com/hopebridge/intake/internal/handlers"
	mw "github.com/hopebridge/intake/internal/middleware"
	svc "github.com/hopebridge/intake/internal/services"
)

func Router() http.Handler {
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(mw.WithSession)

	r.Get("/healthz", handlers.Health)

	// Uploaded blobs are plain static files.
	if store, ok := svc.Uploads().(*svc.DiskStore); ok {
		fs := http.StripPrefix("/uploads/", http.FileServer(http.Dir(store.Root())))
		r.Get("/uploads/*", fs.ServeHTTP)
	}

	limiter := mw.NewRateLimiter(config.Get().LoginRatePerMin, 5)

	r.Route("/api", func(api chi.Router) {
		// Credential endpoints, rate limited per IP
		api.Group(func(cr chi.Router) {
			cr.Use(limiter.Handler)
			cr.Post("/auth/register", handlers.Register)
			cr.Post("/auth/login", handlers.Login)
		})
		api.Post("/auth/logout", handlers.Logout)
		api.Post("/auth/forgot-password", handlers.ForgotPassword)
		api.Post("/auth/reset-password", handlers.ResetPassword)
		api.With(mw.RequireUser).Get("/auth/me", handlers.Me)

		// Public booking + content reads
		api.Post("/appointments", handlers.CreateAppointment)
		api.Get("/appointments/{code}/qr.png", handlers.AppointmentQR)
		api.Get("/appointment-options", handlers.ListAppointmentOptions)

		api.Post("/chats", handlers.CreateChat)
		api.Get("/chats/{id}/messages", handlers.ListChatMessages)
		api.Post("/chats/{id}/messages", handlers.CreateChatMessage)

		api.Get("/about", handlers.ListAboutItems)
		api.Get("/about/videos", handlers.ListAboutVideos)
		api.Get("/about/{id}", handlers.GetAboutItem)
		api.Get("/views", handlers.ListViews)
		api.Get("/information", handlers.ListInformation)
		api.Get("/comments", handlers.ListComments)
		api.Post("/comments", handlers.CreateComment)

		api.Post("/surrogacy-applications", handlers.CreateSurrogacyApplication)
		api.Post("/surrogate-mother-applications", handlers.CreateSurrogateMotherApplication)

		// Signed-in users
		api.Group(func(ur chi.Router) {
			ur.Use(mw.RequireUser)
			ur.Patch("/users/profile", handlers.UpdateProfile)
			ur.Post("/users/change-password", handlers.ChangePassword)
			ur.Get("/surrogacy-applications", handlers.ListSurrogacyApplications)
		})

		// Admin-only surface
		api.Group(func(ar chi.Router) {
			ar.Use(mw.RequireAdmin)

			ar.Get("/users", handlers.ListUsers)
			ar.Get("/users/{id}", handlers.GetUser)
			ar.Put("/users/{id}", handlers.UpdateUser)
			ar.Delete("/users/{id}", handlers.DeleteUser)

			ar.Get("/appointments", handlers.ListAppointments)
			ar.Get("/appointments/{id}", handlers.GetAppointment)
			ar.Delete("/appointments/{id}", handlers.DeleteAppointment)
			ar.Post("/appointment-options", handlers.CreateAppointmentOption)
			ar.Delete("/appointment-options/{id}", handlers.DeleteAppointmentOption)

			ar.Get("/chats", handlers.ListChats)
			ar.Patch("/chats/{id}/close", handlers.CloseChat)

			ar.Post("/about", handlers.CreateAboutItem)
			ar.Put("/about/{id}", handlers.UpdateAboutItem)
			ar.Delete("/about/{id}", handlers.DeleteAboutItem)
			ar.Post("/about/videos", handlers.CreateAboutVideo)
			ar.Put("/about/videos/{id}", handlers.UpdateAboutVideo)
			ar.Delete("/about/videos/{id}", handlers.DeleteAboutVideo)
			ar.Post("/views", handlers.CreateView)
			ar.Put("/views/{id}", handlers.UpdateView)
			ar.Delete("/views/{id}", handlers.DeleteView)
			ar.Post("/information", handlers.CreateInformation)
			ar.Put("/information/{id}", handlers.UpdateInformation)
			ar.Delete("/information/{id}", handlers.DeleteInformation)
			ar.Delete("/comments/{id}", handlers.DeleteComment)

			ar.Get("/surrogate-mother-applications", handlers.ListSurrogateMotherApplications)

			ar.Post("/uploads/image", handlers.UploadImage)
			ar.Post("/uploads/video", handlers.UploadVideo)
		})
	})

	return r
}
