package http

import (
	"net/http"

	"classroom-service/internal/auth"
	"classroom-service/internal/domain"
	"classroom-service/internal/logging"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

type RouterConfig struct {
	Authenticator  *auth.Authenticator
	AllowedOrigins []string

	// MaxBodyBytes caps every request body; zero disables the cap.
	MaxBodyBytes int64

	Auth      *AuthHandler
	Quizzes   *QuizHandler
	Results   *ResultHandler
	Videos    *VideoHandler
	Notes     *NoteHandler
	Questions *QuestionHandler
	Uploads   *UploadsHandler
	Live      *WSHandler
}

func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware)
	r.Use(middleware.Recoverer)
	if cfg.MaxBodyBytes > 0 {
		r.Use(middleware.RequestSize(cfg.MaxBodyBytes))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusNotFound, "Route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeMessage(w, http.StatusMethodNotAllowed, "Method not allowed")
	})

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/uploads/*", cfg.Uploads.Serve)

	authn := cfg.Authenticator.Authenticate
	teacher := auth.RequireRole(domain.RoleTeacher)
	student := auth.RequireRole(domain.RoleStudent)

	r.Route("/api", func(r chi.Router) {
		r.Get("/", func(w http.ResponseWriter, r *http.Request) {
			writeMessage(w, http.StatusOK, "API running")
		})

		r.Route("/auth", func(r chi.Router) {
			r.Post("/signup", cfg.Auth.Signup)
			r.Post("/login", cfg.Auth.Login)
			r.With(authn).Get("/profile", cfg.Auth.Profile)
			r.With(authn).Put("/profile", cfg.Auth.UpdateProfile)
		})

		r.Route("/videos", func(r chi.Router) {
			r.Get("/", cfg.Videos.List)
			r.Get("/{id}", cfg.Videos.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, teacher)
				r.Post("/", cfg.Videos.Upload)
				r.Put("/{id}", cfg.Videos.Update)
				r.Delete("/{id}", cfg.Videos.Delete)
			})
		})

		r.Route("/notes", func(r chi.Router) {
			r.Get("/", cfg.Notes.List)
			r.Get("/{id}", cfg.Notes.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, teacher)
				r.Post("/", cfg.Notes.Create)
				r.Put("/{id}", cfg.Notes.Update)
				r.Delete("/{id}", cfg.Notes.Delete)
			})
		})

		r.Route("/questions", func(r chi.Router) {
			r.Get("/", cfg.Questions.List)
			r.Get("/{id}", cfg.Questions.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, teacher)
				r.Post("/", cfg.Questions.Create)
				r.Put("/{id}", cfg.Questions.Update)
				r.Delete("/{id}", cfg.Questions.Delete)
			})
		})

		r.Route("/quizzes", func(r chi.Router) {
			r.Get("/", cfg.Quizzes.List)
			r.Get("/{id}", cfg.Quizzes.Get)
			r.Group(func(r chi.Router) {
				r.Use(authn, teacher)
				r.Post("/", cfg.Quizzes.Create)
				r.Put("/{id}", cfg.Quizzes.Update)
				r.Delete("/{id}", cfg.Quizzes.Delete)
			})
			r.With(authn, student).Post("/{id}", cfg.Quizzes.Submit)
		})

		r.Route("/results", func(r chi.Router) {
			r.Use(authn)
			r.With(student).Post("/{id}/submit", cfg.Quizzes.Submit)
			r.With(student).Get("/me", cfg.Results.Mine)
			r.With(teacher).Get("/teacher", cfg.Results.Teacher)
			r.With(teacher).Get("/teacher/live", cfg.Live.ServeWS)
		})
	})

	return r
}
