package main

import (
	"context"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"sync/atomic"
	"syscall"
	"time"

	"jobdesk-engine/internal/config"
	"jobdesk-engine/internal/events"
	"jobdesk-engine/internal/gateway"
	"jobdesk-engine/internal/guard"
	"jobdesk-engine/internal/httpapi"
	"jobdesk-engine/internal/state"
)

func main() {
	// Engine data dir: env wins (the packaged UI passes one), else local.
	dataDir := os.Getenv("JOBDESK_DATA_DIR")
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		log.Fatal(err)
	}

	defaultCfgPath := filepath.Join("config", "config.yml")
	userCfgPath, err := config.EnsureUserConfig(dataDir, defaultCfgPath)
	if err != nil {
		log.Fatalf("config bootstrap failed: %v", err)
	}

	// Load config and keep it reloadable
	var cfgVal atomic.Value // stores config.Config
	loadCfg := func() (config.Config, error) {
		cfg, err := config.Load(userCfgPath)
		if err != nil {
			return cfg, err
		}
		cfg = config.ApplyEnv(cfg)
		normalized, vr := config.NormalizeAndValidate(cfg)
		for _, wmsg := range vr.Warnings {
			log.Printf("[config] warning: %s", wmsg)
		}
		if !vr.OK() {
			log.Printf("[config] errors: %v", vr.Errors)
		}
		return normalized, nil
	}
	cfg, err := loadCfg()
	if err != nil {
		log.Fatalf("config load failed (%s): %v", userCfgPath, err)
	}
	cfgVal.Store(cfg)

	gw, err := gateway.New(cfg.API.BaseURL,
		time.Duration(cfg.API.TimeoutSeconds)*time.Second,
		cfg.API.RatePerSec, cfg.API.Burst)
	if err != nil {
		log.Fatalf("gateway init failed: %v", err)
	}
	// resume a previous session if the keychain has one
	gw.RestoreSession()

	hub := events.NewHub()
	store := state.New(gw, hub)
	saver := state.NewAutoSaver(store, time.Duration(cfg.AutoSave.IntervalSeconds)*time.Second)
	gate := guard.NewEmailGate(guard.DefaultMarkerTTL)

	rootCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.AutoSave.Enabled {
		saver.Enable(rootCtx)
	}

	// Warm the slices; a dead backend just leaves them empty with errors
	// recorded, the UI still comes up.
	bootCtx, cancel := context.WithTimeout(rootCtx, 15*time.Second)
	if err := store.Bootstrap(bootCtx); err != nil {
		log.Printf("[engine] bootstrap probe failed: %v", err)
	}
	cancel()

	mux := httpapi.NewMux(rootCtx, httpapi.Deps{
		Store:       store,
		Hub:         hub,
		Gate:        gate,
		AutoSaver:   saver,
		CfgVal:      &cfgVal,
		UserCfgPath: userCfgPath,
		LoadCfg:     loadCfg,
	})

	handler := httpapi.Chain(mux,
		httpapi.Cors(cfg.UI.Origin),
		httpapi.RequestID,
		httpapi.Recover,
		httpapi.AccessLog,
	)

	addr := net.JoinHostPort("127.0.0.1", strconv.Itoa(cfg.App.Port))
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		log.Fatal(err)
	}
	log.Printf("engine listening on http://%s (api=%s)", addr, cfg.API.BaseURL)

	srv := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-rootCtx.Done()
		saver.Disable()
		shCtx, shCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer shCancel()
		_ = srv.Shutdown(shCtx)
	}()

	if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
		log.Fatal(err)
	}
	log.Printf("engine stopped")
}

