package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	auth "phlab/internal/auth"
	bench "phlab/internal/bench"
	batch "phlab/internal/calc/batch"
	importer "phlab/internal/calc/importer"
	ph "phlab/internal/calc/ph"
	report "phlab/internal/calc/report"
	config "phlab/internal/config"
	profile "phlab/internal/profile"
	repo "phlab/internal/repo"
)

type Deps struct {
	Config  *config.Config
	Tables  *ph.Tables
	Users   repo.Repository
	Benches *bench.Store
}

func NewRouter(d Deps) http.Handler {
	r := mux.NewRouter()

	authEnv := &auth.Authenv{JWTkey: []byte(d.Config.TokenKey), Repo: d.Users, SecureCookie: d.Config.CookieSecure}
	limiter := auth.NewIPRateLimiter(rate.Limit(d.Config.RateLimit), d.Config.RateBurst)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	phH := &ph.Handler{Tables: d.Tables}
	batchH := &batch.Handler{Tables: d.Tables}
	api.HandleFunc("/tables", phH.List).Methods("GET")
	api.HandleFunc("/ph/calc", phH.Calc).Methods("POST")
	api.HandleFunc("/ph/batch", batchH.Calc).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	profileH := &profile.ProfileHandler{Repo: d.Users}
	secureApi.HandleFunc("/profile", profileH.GetProfile).Methods("GET")
	secureApi.HandleFunc("/profile/{id:[0-9]+}", profileH.GetProfile).Methods("GET")

	benchH := &bench.Handler{Tables: d.Tables, Store: d.Benches}
	secureApi.HandleFunc("/bench", benchH.Get).Methods("GET")
	secureApi.HandleFunc("/bench/solute", benchH.SelectSolute).Methods("PUT")
	secureApi.HandleFunc("/bench/concentration", benchH.SelectConcentration).Methods("PUT")
	secureApi.HandleFunc("/bench/measure", benchH.Measure).Methods("POST")
	secureApi.HandleFunc("/bench/reset", benchH.Reset).Methods("POST")

	importH := &importer.Handler{Tables: d.Tables}
	reportH := &report.Handler{Tables: d.Tables}
	secureApi.HandleFunc("/tools/ph/import", importH.Import).Methods("POST")
	secureApi.HandleFunc("/tools/ph/export", importH.Export).Methods("POST")
	secureApi.HandleFunc("/tools/ph/report", reportH.Generate).Methods("POST")

	if d.Config.StaticDir != "" {
		r.PathPrefix("/").Handler(http.FileServer(http.Dir(d.Config.StaticDir)))
	}

	return RequestID(Logger(logrus.StandardLogger())(CORS(r)))
}

// Run serves handler until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, cfg *config.Config, handler http.Handler) error {
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logrus.Infof("http server listening on %s", cfg.Addr)
		var err error
		if cfg.TLS() {
			err = srv.ListenAndServeTLS(cfg.TLSCert, cfg.TLSKey)
		} else {
			err = srv.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
		close(errc)
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logrus.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errc
}
