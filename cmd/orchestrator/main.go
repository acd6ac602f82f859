// SPDX-License-Identifier: MIT

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

	"github.com/elroyic/Podcast-Generator-sub001/internal/api"
	"github.com/elroyic/Podcast-Generator-sub001/internal/cadence"
	"github.com/elroyic/Podcast-Generator-sub001/internal/capability"
	"github.com/elroyic/Podcast-Generator-sub001/internal/collection"
	"github.com/elroyic/Podcast-Generator-sub001/internal/config"
	"github.com/elroyic/Podcast-Generator-sub001/internal/episode"
	"github.com/elroyic/Podcast-Generator-sub001/internal/fingerprint"
	"github.com/elroyic/Podcast-Generator-sub001/internal/health"
	"github.com/elroyic/Podcast-Generator-sub001/internal/intake"
	"github.com/elroyic/Podcast-Generator-sub001/internal/lease"
	podcastlog "github.com/elroyic/Podcast-Generator-sub001/internal/log"
	"github.com/elroyic/Podcast-Generator-sub001/internal/queue"
	"github.com/elroyic/Podcast-Generator-sub001/internal/review"
	"github.com/elroyic/Podcast-Generator-sub001/internal/store"
	"github.com/elroyic/Podcast-Generator-sub001/internal/telemetry"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

var (
	version = "v0.1.0"
	commit  = "none"
)

func main() {
	showVersion := flag.Bool("version", false, "print version and exit")
	configPath := flag.String("config", "", "path to reviewer config file (YAML)")
	flag.Parse()

	if *showVersion {
		fmt.Printf("podcast-orchestrator %s (commit: %s)\n", version, commit)
		os.Exit(0)
	}

	podcastlog.Configure(podcastlog.Config{Level: "info", Service: "podcast-orchestrator", Version: version})
	logger := podcastlog.WithComponent("main")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	loader := config.NewLoader(*configPath)
	cfg, err := loader.Load()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}
	podcastlog.Configure(podcastlog.Config{Level: cfg.LogLevel, Service: "podcast-orchestrator", Version: version})

	tracerProvider, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:        cfg.TelemetryEnabled,
		ServiceName:    "podcast-orchestrator",
		ServiceVersion: version,
		Endpoint:       cfg.OTLPEndpoint,
		SamplingRate:   1.0,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize telemetry")
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			logger.Warn().Err(err).Msg("failed to shut down tracer provider")
		}
	}()

	st, err := store.OpenSQLiteStore(cfg.SQLitePath)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open sqlite store")
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close store")
		}
	}()

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, DB: cfg.RedisDB})
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn().Err(err).Msg("failed to close redis client")
		}
	}()

	fingerprints := fingerprint.NewRedisStore(redisClient, cfg.DedupEnabled)
	leases := lease.NewRedisManager(redisClient)

	reviewerMgr := config.NewReviewerManager(cfg.Reviewer, *configPath)
	if err := reviewerMgr.WatchFile(ctx); err != nil {
		logger.Warn().Err(err).Msg("failed to start reviewer config file watch")
	}

	caps, httpClients := buildCapabilitySet(cfg)

	cascade := review.New(caps.Light, caps.Heavy, reviewerMgr)
	builder := collection.New(st, st)

	queueWorker := queue.New(st, cascade, builder, leases, reviewerMgr, cfg.ReviewConcurrency, 1000)

	in := intake.New(st, fingerprints, queueWorker, cfg.FingerprintTTL)
	_ = in // constructed but not called from this process; no ingestion HTTP surface is wired here

	episodeOrchestrator := episode.New(st, leases, caps, cfg.LeaseTTL, cfg.CapabilityTimeout, 4)

	cadenceController := cadence.New(st, st, leases, episodeOrchestrator, cfg.CadenceTick)

	healthMgr := health.NewManager()
	for name, client := range httpClients {
		healthMgr.Register(health.NewCapabilityChecker(name, client))
	}

	adminServer := &api.Server{
		Dispatcher:  episodeOrchestrator,
		Leases:      leases,
		Reviewer:    reviewerMgr,
		Health:      healthMgr,
		CadenceTick: cfg.CadenceTick,
		QueueStatusFn: func(ctx context.Context) api.QueueStatus {
			active, _ := leases.AnyActive(ctx)
			return api.QueueStatus{WorkerRunning: true, Paused: active, ProductionActive: active}
		},
	}
	httpServer := &http.Server{Addr: cfg.HTTPAddr, Handler: adminServer.Router()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return queueWorker.Run(gctx) })
	g.Go(func() error { return cadenceController.Run(gctx) })
	g.Go(func() error { return episodeOrchestrator.Run(gctx) })
	g.Go(func() error { return episodeOrchestrator.RunReaper(gctx) })
	g.Go(func() error {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("admin HTTP surface starting")
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && ctx.Err() == nil {
		logger.Error().Err(err).Msg("orchestrator exited with error")
		os.Exit(1)
	}
	logger.Info().Msg("orchestrator stopped")
}

// buildCapabilitySet constructs the six capability clients plus a name ->
// *HTTPClient map so the admin health surface can probe each raw transport
// directly, ahead of the JSON request/response shape each capability
// interface imposes on it.
func buildCapabilitySet(cfg config.AppConfig) (capability.Set, map[string]*capability.HTTPClient) {
	light := capability.NewHTTPClient("light-reviewer", capability.HTTPClientOptions{BaseURL: cfg.LightReviewerURL, Timeout: cfg.CapabilityTimeout})
	heavy := capability.NewHTTPClient("heavy-reviewer", capability.HTTPClientOptions{BaseURL: cfg.HeavyReviewerURL, Timeout: cfg.CapabilityTimeout})
	writer := capability.NewHTTPClient("writer", capability.HTTPClientOptions{BaseURL: cfg.WriterURL, Timeout: cfg.CapabilityTimeout})
	scriptWriter := capability.NewHTTPClient("script-writer", capability.HTTPClientOptions{BaseURL: cfg.ScriptWriterURL, Timeout: cfg.CapabilityTimeout})
	editor := capability.NewHTTPClient("editor", capability.HTTPClientOptions{BaseURL: cfg.EditorURL, Timeout: cfg.CapabilityTimeout})
	metadataGen := capability.NewHTTPClient("metadata-generator", capability.HTTPClientOptions{BaseURL: cfg.MetadataURL, Timeout: cfg.CapabilityTimeout})
	synth := capability.NewHTTPClient("tts", capability.HTTPClientOptions{BaseURL: cfg.SynthesizerURL, Timeout: cfg.CapabilityTimeout})

	set := capability.Set{
		Light:    capability.NewLightReviewer(light),
		Heavy:    capability.NewHeavyReviewer(heavy),
		Writer:   capability.NewWriter(writer),
		Script:   capability.NewScriptWriter(scriptWriter),
		Editor:   capability.NewEditor(editor),
		Metadata: capability.NewMetadataGenerator(metadataGen),
		TTS:      capability.NewSynthesizer(synth),
	}
	clients := map[string]*capability.HTTPClient{
		"light-reviewer":     light,
		"heavy-reviewer":     heavy,
		"writer":             writer,
		"script-writer":      scriptWriter,
		"editor":             editor,
		"metadata-generator": metadataGen,
		"tts":                synth,
	}
	return set, clients
}
