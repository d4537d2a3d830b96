package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/infra-neo/portal-api/internal/audit"
	"github.com/infra-neo/portal-api/internal/auth"
	"github.com/infra-neo/portal-api/internal/catalog"
	"github.com/infra-neo/portal-api/internal/config"
	"github.com/infra-neo/portal-api/internal/enrollment"
	"github.com/infra-neo/portal-api/internal/httpapi"
	"github.com/infra-neo/portal-api/internal/netbird"
	"github.com/infra-neo/portal-api/internal/obs"
	"github.com/infra-neo/portal-api/internal/zitadel"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	// Metrics registration and build info before anything serves traffic.
	obs.Init()
	obs.InitBuildInfo(cfg.Version)

	codec, err := auth.NewCodec(cfg.JWTSecret, cfg.JWTTTL)
	if err != nil {
		log.Fatalf("auth: %v", err)
	}

	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		log.Fatalf("catalog: %v", err)
	}

	mesh := netbird.New(cfg.NetbirdAPIURL, cfg.NetbirdAPIToken)
	idp := zitadel.New(cfg.ZitadelDomain, cfg.ZitadelAPIToken, cfg.ZitadelClientID, cfg.ZitadelClientSecret)
	enroll := enrollment.NewService(mesh)
	auditLog := audit.NewLog(0)

	api := httpapi.New(cfg, codec, mesh, idp, cat, enroll, auditLog)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           api.Handler(), // already wrapped with metrics in httpapi
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	log.Printf("Starting portal-api %s on %s (env=%s)", cfg.Version, srv.Addr, cfg.Environment)

	// graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	<-stop
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_ = srv.Shutdown(ctx)
	log.Println("Stopped")
}
