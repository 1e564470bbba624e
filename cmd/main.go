package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iamafnaan/Library-Management-System/configs"
	"github.com/iamafnaan/Library-Management-System/internal/daemon"
	"github.com/iamafnaan/Library-Management-System/internal/db"
	"github.com/iamafnaan/Library-Management-System/internal/handlers"
	"github.com/iamafnaan/Library-Management-System/internal/ledger"
	"github.com/iamafnaan/Library-Management-System/internal/middleware"
	"github.com/iamafnaan/Library-Management-System/internal/models"
	"github.com/iamafnaan/Library-Management-System/internal/store"
	"github.com/iamafnaan/Library-Management-System/internal/utils"
)

func main() {
	cfg := configs.LoadConfig()
	db.Connect(cfg.MongoURI)
	utils.InitJwtSecret(cfg.JWTSecret, time.Duration(cfg.JWTExpiresHours)*time.Hour)

	r := mux.NewRouter()
	r.Use(middleware.JSONMiddleware)
	r.Use(middleware.RequestIDMiddleware)
	r.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "OK")
	})
	r.Handle("/metrics", promhttp.Handler())

	auditCol := db.GetCollection(cfg.DBName, "audit_logs")
	auditLogger := utils.Logger{Collection: auditCol}

	bookColl := db.GetCollection(cfg.DBName, "books")
	userColl := db.GetCollection(cfg.DBName, "users")

	invLedger := ledger.New(store.NewMongo(bookColl, userColl), ledger.Config{
		MaxBorrowedBooks: cfg.MaxBorrowedBooks,
		ConflictRetries:  cfg.LedgerConflictRetries,
		LockWait:         time.Duration(cfg.LedgerLockWaitMs) * time.Millisecond,
	})

	auth := &middleware.Auth{UserCol: userColl}

	authHandler := handlers.NewAuthHandler(userColl, auditLogger)
	r.HandleFunc("/users/signup", authHandler.Signup).Methods("POST")
	r.HandleFunc("/users/login", authHandler.Login).Methods("POST")

	userHandler := handlers.NewUserHandler(userColl, auditLogger)

	usersRouter := r.PathPrefix("/users").Subrouter()
	usersRouter.Use(auth.Protect)
	usersRouter.HandleFunc("/session/validate", authHandler.ValidateSession).Methods("GET")
	usersRouter.HandleFunc("/update/{id}", userHandler.UpdateUser).Methods("PUT")
	usersRouter.HandleFunc("/delete/{id}", userHandler.DeleteUser).Methods("DELETE")

	bookHandler := handlers.NewBookHandler(bookColl, userColl, invLedger, auditLogger)
	r.HandleFunc("/books", bookHandler.GetBooks).Methods("GET")

	booksRouter := r.PathPrefix("/books").Subrouter()
	booksRouter.Use(auth.Protect)
	booksRouter.Use(middleware.RequireRole(models.RoleAuthor))
	booksRouter.HandleFunc("/create", bookHandler.CreateBook).Methods("POST")
	booksRouter.HandleFunc("/author/{id}", bookHandler.GetAuthorBooks).Methods("GET")
	booksRouter.HandleFunc("/update/{id}", bookHandler.UpdateBook).Methods("PUT")
	booksRouter.HandleFunc("/delete/{id}", bookHandler.DeleteBook).Methods("DELETE")

	borrowHandler := handlers.NewBorrowHandler(invLedger, auditLogger)

	readerRouter := r.PathPrefix("/reader/books").Subrouter()
	readerRouter.Use(auth.Protect)
	readerRouter.Use(middleware.RequireRole(models.RoleReader))
	readerRouter.HandleFunc("/borrow/{bookId}", borrowHandler.Borrow).Methods("POST")
	readerRouter.HandleFunc("/return/{bookId}", borrowHandler.Return).Methods("POST")
	readerRouter.HandleFunc("/{id}", borrowHandler.GetBorrowedBooks).Methods("GET")

	statsHandler := handlers.StatsHandler{BookCol: bookColl, UserCol: userColl}
	r.HandleFunc("/admin/stats", statsHandler.GetStats).Methods("GET")

	daemonCtx, stopDaemon := context.WithCancel(context.Background())
	exporter := daemon.LogExporter{Coll: auditCol}
	go exporter.Run(daemonCtx)

	var server = http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		log.Println("Server starting on port", cfg.Port)
		log.Fatal(server.ListenAndServe())
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop

	log.Println("Shutting down gracefully...")
	stopDaemon()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Graceful shutdown failed: %v", err)
	}
	if err := db.Disconnect(ctx); err != nil {
		log.Printf("Mongo disconnect failed: %v", err)
	}
	log.Println("Server shut down.")
}
