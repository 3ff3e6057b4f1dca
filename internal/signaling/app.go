package signaling

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/isqad/melody"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/skillswap/signaling/internal/auth"
	"github.com/skillswap/signaling/internal/core"
	"github.com/skillswap/signaling/internal/eventbus"
)

// AppOptions is options of the application
type AppOptions struct {
	Env            core.Environment
	Address        string
	MaxMessageSize int64

	Verifier         auth.TokenVerifier
	Gate             *AccessGate
	Presence         *PresenceService
	EventsSubscriber eventbus.Subscriber

	websocket *melody.Melody
	server    *Server
}

// App is the websocket signaling server application
type App struct {
	AppOptions
}

func New(options AppOptions) *App {
	options.websocket = melody.New()
	if options.MaxMessageSize > 0 {
		options.websocket.Config.MaxMessageSize = options.MaxMessageSize
	}

	options.server = NewServer(options.Verifier, options.Gate, options.Presence)

	app := &App{
		options,
	}
	return app
}

func (app *App) Start() error {
	quit := make(chan os.Signal, 1)
	done := make(chan struct{}, 1)

	app.initLogger()
	router := app.Router()

	subscription, err := app.EventsSubscriber.SubscribePresence(context.Background())
	if err != nil {
		return err
	}

	go func() {
		for event := range subscription.Events() {
			app.server.HandlePresenceEvent(event)
		}
	}()

	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	server := &http.Server{
		Addr:              app.Address,
		Handler:           router,
		ReadHeaderTimeout: 1 * time.Second,
		WriteTimeout:      10 * time.Second,
	}

	server.RegisterOnShutdown(func() {
		log.Warn().Msg("received signal to terminate the server")
		if err := subscription.Close(); err != nil {
			log.Error().Err(err).Msg("can't close presence subscription")
		}
		log.Info().Msg("all services are stopped")
		close(done)
	})

	// Shutdown the HTTP server
	go func() {
		<-quit
		log.Warn().Msg("the server is going shutting down")

		// Wait 20 seconds for close websocket connections
		waitIdleConnCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(waitIdleConnCtx); err != nil {
			log.Fatal().Err(err).Msg("can't gracefully shutdown the server")
		}
	}()

	err = server.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("server has been closed immediatelly")
	}

	<-done
	log.Info().Msg("server stopped")

	return nil
}

func (app *App) initLogger() {
	cw := zerolog.NewConsoleWriter()
	log.Logger = log.Output(cw)

	level := zerolog.InfoLevel

	if app.Env.IsDevelopment() {
		level = zerolog.DebugLevel
	}

	zerolog.SetGlobalLevel(level)
}

// Router is function for construct http router
func (app *App) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	app.websocket.HandleConnect(app.server.ConnectHandler())
	app.websocket.HandleDisconnect(app.server.DisconnectHandler())
	app.websocket.HandleMessage(app.server.MessageHandler())
	app.websocket.HandleError(func(s *melody.Session, err error) {
		log.Error().Err(err).Str("service", "signaling").Msg("error in websocket session")
	})

	r.Get("/ws", app.server.WebsocketHandler(app.websocket))
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	r.Method("GET", "/metrics", promhttp.Handler())

	return r
}
