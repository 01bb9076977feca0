package http

import (
	"net/http"

	"scorelog/internal/auth"
	"scorelog/internal/config"
	"scorelog/internal/http/handler"
	mw "scorelog/internal/http/middleware"
	"scorelog/internal/jobs"
	"scorelog/internal/logger"
	"scorelog/internal/notify"
	"scorelog/internal/score"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"gorm.io/gorm"
)

type Deps struct {
	DB       *gorm.DB
	JWT      *auth.JWT
	Scores   *score.Service
	Notifier notify.Publisher
	Log      *logger.Logger
}

func NewRouter(cfg config.Config, d Deps) http.Handler {
	if d.Notifier == nil {
		d.Notifier = notify.Nop{}
	}
	if d.Log == nil {
		d.Log = logger.Nop()
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(mw.RequestLog(d.Log))
	r.Use(chimw.Recoverer)

	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(mw.CORS(cfg.CORSAllowedOrigins, cfg.CORSAllowCredentials))
	}

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	store := &score.Store{DB: d.DB}

	ah := &handler.AuthHandler{DB: d.DB, JWT: d.JWT, Scores: d.Scores}
	r.Post("/auth/register", ah.Register)
	r.Post("/auth/login", ah.Login)

	me := &handler.MeHandler{Store: store}
	r.With(auth.RequireAuth(d.JWT)).Get("/me", me.Me)

	sh := &handler.ScoreHandler{
		Store:    store,
		Scores:   d.Scores,
		Jobs:     &jobs.Repo{DB: d.DB},
		Notifier: d.Notifier,
		Log:      d.Log.With("handler", "ScoreHandler"),
	}

	r.Route("/score", func(r chi.Router) {
		r.Use(auth.RequireAuth(d.JWT))

		r.Get("/", sh.Overview)
		r.Get("/history", sh.History)
		r.Post("/tasks", sh.RecordTask)
	})

	return r
}
