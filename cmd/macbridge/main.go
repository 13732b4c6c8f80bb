package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/wlan-bridge/wlan-bridge/internal/api"
	"github.com/wlan-bridge/wlan-bridge/internal/config"
	"github.com/wlan-bridge/wlan-bridge/internal/firmware"
	"github.com/wlan-bridge/wlan-bridge/internal/hostbridge"
	"github.com/wlan-bridge/wlan-bridge/internal/mac"
)

func main() {
	var configPath = flag.String("config", "config/macbridge.yml", "path to config file")
	var validateOnly = flag.Bool("validate", false, "validate the config file and exit")
	flag.Parse()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal().Err(err).Str("config_path", *configPath).Msg("Failed to load config")
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		log.Warn().Str("level", cfg.Log.Level).Msg("Invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if *validateOnly {
		fmt.Println("config OK")
		return
	}

	macAddr, err := cfg.MACAddr()
	if err != nil {
		log.Fatal().Err(err).Msg("Invalid radio MAC address")
	}

	log.Info().
		Str("config_path", *configPath).
		Str("nats_url", cfg.NATS.URL).
		Msg("MAC bridge starting")

	nc, err := nats.Connect(cfg.NATS.URL,
		nats.ReconnectWait(cfg.NATS.ReconnectInterval),
		nats.MaxReconnects(cfg.NATS.MaxReconnects))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to NATS")
	}
	defer nc.Close()

	cmdChannel := firmware.NewNATSChannel(nc, cfg.NATS.SubjectPrefix, cfg.NATS.CommandTimeout)
	host := hostbridge.NewPublisher(nc, cfg.NATS.SubjectPrefix)
	device := mac.New(cmdChannel, host, mac.Config{MACAddr: macAddr})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := device.Attach(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to attach device")
	}

	restServer := api.NewRESTServer(cfg, device)
	go func() {
		addr := fmt.Sprintf("%s:%d", cfg.API.Host, cfg.API.Port)
		if err := restServer.ListenAndServe(addr); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("REST API server failed")
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	case <-ctx.Done():
		log.Info().Msg("Context cancelled, shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := restServer.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("REST API shutdown error")
	}
	device.Detach(shutdownCtx)

	log.Info().Msg("MAC bridge stopped")
}
