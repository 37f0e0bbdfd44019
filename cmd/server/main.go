package main

import (
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/hkirat/poker/internal/auth"
	"github.com/hkirat/poker/internal/gateway"
	"github.com/hkirat/poker/internal/lobby"
	"github.com/hkirat/poker/internal/registry"
	"github.com/hkirat/poker/internal/store"
)

func main() {
	authService, authMode, err := auth.NewServiceFromEnv()
	if err != nil {
		log.Fatalf("[server] failed to init auth service: %v", err)
	}
	defer authService.Close()

	dataStore, storeMode, err := store.NewFromEnv()
	if err != nil {
		log.Fatalf("[server] failed to init persistence store: %v", err)
	}
	defer dataStore.Close()

	authHTTP := auth.NewHTTPHandler(authService)
	lobbyHTTP := lobby.New(authHTTP, dataStore)
	authHTTP.PostRegister = func(userID uint64, username string) {
		if err := lobbyHTTP.RegisterSignupBonus(userID, username); err != nil {
			log.Printf("[server] failed to credit signup bonus for user %d: %v", userID, err)
		}
	}

	gw := gateway.New(authService)
	reg := registry.New(dataStore, gw)
	gw.SetRegistry(reg)

	if err := reg.Bootstrap(); err != nil {
		log.Fatalf("[server] failed to bootstrap room registry: %v", err)
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", gw.ServeHTTP)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	authHTTP.RegisterRoutes(mux)
	lobbyHTTP.RegisterRoutes(mux)

	addr := strings.TrimSpace(os.Getenv("SERVER_ADDR"))
	if addr == "" {
		addr = ":18080"
	}
	log.Printf("[server] auth mode: %s", authMode)
	log.Printf("[server] store mode: %s", storeMode)
	log.Printf("[server] starting server on %s", addr)
	if err := http.ListenAndServe(addr, withCORS(mux)); err != nil {
		log.Fatalf("[server] failed to start: %v", err)
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
