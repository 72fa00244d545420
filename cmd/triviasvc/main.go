package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/httprate"

	config "github.com/quizline/trivia-services/configs"
	natscli "github.com/quizline/trivia-services/internal/nats"
	"github.com/quizline/trivia-services/internal/triviasvc/db"
	handlers "github.com/quizline/trivia-services/internal/triviasvc/handlers"
	"github.com/quizline/trivia-services/internal/triviasvc/service"
	"github.com/quizline/trivia-services/internal/triviasvc/store"
	log "github.com/sirupsen/logrus"
)

const SERVICE_NAME = "trivia"

var instanceId string

func init() {
	instanceId = "001"
	config.Logging(SERVICE_NAME + "_service_" + instanceId)
	config.LoadEnv(SERVICE_NAME)
}

func main() {

	// pg connection
	dbpool, err := db.Connect()
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer db.ClosePool()
	log.Printf("pg connection established successfully")

	// Connect to NATS
	n, err := natscli.Connect()
	if err != nil {
		log.Errorf("Error: unable to connect to NATS server %v", err)
		os.Exit(0)
	}
	defer n.Conn.Close()
	log.Printf("NATS connection established successfully %s", n.Url)

	atomic := store.NewAtomic(dbpool)

	sessionStore := store.NewSessionStore(dbpool)
	sessionQuestionStore := store.NewSessionQuestionStore(dbpool)
	questionStore := store.NewQuestionStore(dbpool)
	gameStore := store.NewGameStore(dbpool)
	teamStore := store.NewTeamStore(dbpool)
	playerStore := store.NewPlayerStore(dbpool)
	answerStore := store.NewAnswerStore(dbpool)
	inviteStore := store.NewInviteStore(dbpool)

	roundService := service.NewRoundService(sessionQuestionStore, questionStore)
	sessionService := service.NewSessionService(sessionStore, gameStore, questionStore, roundService, atomic).
		WithEvents(n.Conn)
	gameService := service.NewGameService(gameStore)
	teamService := service.NewTeamService(teamStore)
	playerService := service.NewPlayerService(playerStore)
	answerService := service.NewAnswerService(answerStore, sessionQuestionStore, questionStore)
	inviteService := service.NewInviteService(inviteStore).WithDispatch(n.Conn)

	// Setup router
	r := chi.NewRouter()
	c := config.CORS()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(config.CustomLoggerMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(c.Handler)

	// to protect the service api from any over requests
	rateLimitStr := os.Getenv("RATE_LIMIT")
	rateLimit, err := strconv.Atoi(rateLimitStr)
	if err != nil {
		log.Fatalf("Invalid RATE_LIMIT value: %v", err)
	}
	r.Use(httprate.LimitByIP(rateLimit, 1*time.Minute))

	// Init handlers and routes
	h := handlers.NewHandler(sessionService, roundService, teamService,
		playerService, answerService, inviteService, gameService)
	h.InitAuth()
	h.SetRoutes(r)

	// Create server with timeout settings
	server := &http.Server{
		Addr:         ":" + os.Getenv("TRIVIA_SERVICE_PORT"),
		Handler:      r,
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()
	log.Infof("%s service running at port %s", SERVICE_NAME, server.Addr)

	// Wait for interrupt signal to gracefully shutdown the server
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("%s service shutdown Failed:%+v", SERVICE_NAME, err)
	}
	log.Infof("%s service gracefully stopped", SERVICE_NAME)
}
