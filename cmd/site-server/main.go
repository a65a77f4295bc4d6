package main

import (
	"context"
	"embed"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/she-is/she-services/site-server/internal/app"
	"github.com/she-is/she-services/site-server/internal/commands"
)

//go:embed static/*
var staticFiles embed.FS

//go:embed static/index.html
var indexHTML []byte

//go:embed static/admin.html
var adminHTML []byte

func main() {
	// Check for subcommands
	if len(os.Args) > 1 && os.Args[1] == "hash-password" {
		commands.HashPassword(os.Args[2:])
		return
	}

	port := flag.Int("port", 8080, "Port to listen on")
	flag.Parse()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	store, err := app.NewBlobStore(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to initialize blob storage: %v", err)
	}

	gate, err := app.NewGate(cfg)
	if err != nil {
		log.Fatalf("Failed to load admin credentials: %v", err)
	}

	content, err := app.LoadSiteContent()
	if err != nil {
		log.Fatalf("Failed to load site content: %v", err)
	}

	repo := app.NewRepository(store)
	server := app.NewServer(cfg, store, repo, gate, content)

	mux := http.NewServeMux()
	server.Register(mux)
	mux.Handle("/metrics", promhttp.Handler())

	// Static pages
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(indexHTML); err != nil {
			log.Printf("Error writing index HTML: %v", err)
		}
	})
	mux.HandleFunc("/admin", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if _, err := w.Write(adminHTML); err != nil {
			log.Printf("Error writing admin HTML: %v", err)
		}
	})
	mux.Handle("/static/", http.FileServer(http.FS(staticFiles)))

	mode := "fallback (no persistence)"
	if cfg.StorageConfigured() {
		mode = "blob storage"
	}
	log.Printf("Starting SHE site server on http://localhost:%d (events: %s)", *port, mode)
	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), mux); err != nil {
		log.Fatal(err)
	}
}
