// SPDX-License-Identifier: MIT

package config

import "time"

// AppConfig holds the fully resolved orchestrator configuration, per the
// recognized environment keys of SPEC_FULL.md §10.3.
type AppConfig struct {
	// Fingerprint Store (C1)
	FingerprintTTL time.Duration
	DedupEnabled   bool

	// Group Lease Manager (C2)
	LeaseTTL time.Duration

	// Collection Builder (C5)
	MinArticlesPerCollection int
	CollectionMaxAge         time.Duration

	// Review Cascade (C4) — hot-reloadable, see ReviewerConfig
	Reviewer ReviewerConfig

	// Review Queue Worker (C8)
	ReviewConcurrency int

	// Capability clients (§6)
	CapabilityTimeout   time.Duration
	LightReviewerURL    string
	HeavyReviewerURL    string
	WriterURL           string
	ScriptWriterURL     string
	EditorURL           string
	MetadataURL         string
	SynthesizerURL      string

	// Cadence Controller (C6)
	CadenceTick time.Duration

	// Storage / transport
	SQLitePath string
	RedisAddr  string
	RedisDB    int

	// Admin HTTP surface
	HTTPAddr string

	// Observability
	LogLevel        string
	TelemetryEnabled bool
	OTLPEndpoint    string

	// Reaper (§5, cancellation & timeouts)
	ReaperInterval   time.Duration
	ReaperGracePeriod time.Duration
}

// ReviewerConfig holds the live-configurable review cascade thresholds
// (spec.md §4.4, §6) plus the pause backoff (§4.8). Protected against
// concurrent read/reload by ReviewerManager's snapshot swap, not by its own lock.
type ReviewerConfig struct {
	LightThreshold float64 `yaml:"light_threshold"`
	HeavyThreshold float64 `yaml:"heavy_threshold"`
	PauseBackoff   time.Duration `yaml:"pause_backoff"`
}

// Defaults returns the built-in configuration defaults named in
// SPEC_FULL.md §10.3 / spec.md §6.
func Defaults() AppConfig {
	return AppConfig{
		FingerprintTTL:           72 * time.Hour,
		DedupEnabled:             true,
		LeaseTTL:                 2 * time.Hour,
		MinArticlesPerCollection: 3,
		CollectionMaxAge:         24 * time.Hour,
		Reviewer: ReviewerConfig{
			LightThreshold: 0.75,
			HeavyThreshold: 0.5,
			PauseBackoff:   5 * time.Second,
		},
		ReviewConcurrency: 4,
		CapabilityTimeout: 180 * time.Second,
		LightReviewerURL:  "http://light-reviewer:8081",
		HeavyReviewerURL:  "http://heavy-reviewer:8082",
		WriterURL:         "http://writer:8083",
		ScriptWriterURL:   "http://script-writer:8084",
		EditorURL:         "http://editor:8085",
		MetadataURL:       "http://metadata-generator:8086",
		SynthesizerURL:    "http://tts:8087",
		CadenceTick:       30 * time.Second,
		SQLitePath:        "podcastgen.db",
		RedisAddr:         "localhost:6379",
		HTTPAddr:          ":8080",
		LogLevel:          "info",
		ReaperInterval:    5 * time.Minute,
		ReaperGracePeriod: 10 * time.Minute,
	}
}
