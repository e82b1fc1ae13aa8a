package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"

	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/config"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/feed"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/handler"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/middleware"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/service"
	"github.com/lucasPerazzo/UNICOM-VisualizadorMensajesWpp/internal/websocket"
)

func main() {
	cfg := config.LoadConfig()

	hub := websocket.NewHub()
	go hub.Run()

	feedClient := feed.NewClient(cfg.ContactsEndpoint, cfg.MessagesEndpoint)

	viewer := service.NewViewer(cfg, feedClient, hub)
	viewer.Start()
	defer viewer.Stop()

	mw := middleware.NewMiddleware(cfg)
	viewerHandler := handler.NewViewerHandler(viewer, hub, cfg)

	router := mux.NewRouter()
	router.Use(mw.CORS)
	router.Use(mw.RateLimitMiddleware)

	api := router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/contacts", viewerHandler.GetContacts).Methods("GET", "OPTIONS")
	api.HandleFunc("/messages", viewerHandler.GetMessages).Methods("GET", "OPTIONS")
	api.HandleFunc("/chats/{number}/export", viewerHandler.ExportChat).Methods("GET", "OPTIONS")
	api.HandleFunc("/state", viewerHandler.GetState).Methods("GET", "OPTIONS")
	api.HandleFunc("/debug/extract", viewerHandler.DebugExtract).Methods("GET", "OPTIONS")
	api.HandleFunc("/health", viewerHandler.Health).Methods("GET", "OPTIONS")

	router.HandleFunc("/ws", viewerHandler.WebSocketHandler)

	// Serve the browser UI when its bundle is present.
	if _, err := os.Stat("./web"); err == nil {
		router.PathPrefix("/").Handler(http.FileServer(http.Dir("./web")))
		log.Println("[Server] serving static UI from ./web")
	}

	srv := &http.Server{
		Addr:    ":" + cfg.AppPort,
		Handler: router,
	}

	go func() {
		log.Printf("[Server] listening on :%s", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[Server] failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("[Server] shutting down")
	viewer.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("[Server] shutdown error: %v", err)
	}
}
