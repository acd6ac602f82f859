// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the subset of AppConfig an operator may override via
// YAML file. It carries only the reviewer section; every other setting
// comes from the environment or the built-in defaults.
type fileConfig struct {
	Reviewer ReviewerConfig `yaml:"reviewer"`
}

// Loader resolves configuration with precedence ENV > YAML file > defaults.
type Loader struct {
	path string
}

// NewLoader returns a Loader reading the given YAML file path, if any.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// Load resolves the full AppConfig.
func (l *Loader) Load() (AppConfig, error) {
	cfg := Defaults()

	if l.path != "" {
		if err := l.applyFile(&cfg); err != nil {
			return AppConfig{}, err
		}
	}

	l.applyEnv(&cfg)
	return cfg, nil
}

func (l *Loader) applyFile(cfg *AppConfig) error {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read config file %s: %w", l.path, err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", l.path, err)
	}
	if fc.Reviewer.LightThreshold > 0 {
		cfg.Reviewer.LightThreshold = fc.Reviewer.LightThreshold
	}
	if fc.Reviewer.HeavyThreshold > 0 {
		cfg.Reviewer.HeavyThreshold = fc.Reviewer.HeavyThreshold
	}
	if fc.Reviewer.PauseBackoff > 0 {
		cfg.Reviewer.PauseBackoff = fc.Reviewer.PauseBackoff
	}
	return nil
}

func (l *Loader) applyEnv(cfg *AppConfig) {
	cfg.FingerprintTTL = ParseDuration("FINGERPRINT_TTL_SECONDS", cfg.FingerprintTTL)
	cfg.DedupEnabled = ParseBool("DEDUP_ENABLED", cfg.DedupEnabled)
	cfg.MinArticlesPerCollection = ParseInt("MIN_ARTICLES_PER_COLLECTION", cfg.MinArticlesPerCollection)
	cfg.LeaseTTL = ParseDuration("LEASE_TTL_SECONDS", cfg.LeaseTTL)
	cfg.Reviewer.LightThreshold = ParseFloat("LIGHT_CONF_THRESHOLD", cfg.Reviewer.LightThreshold)
	cfg.Reviewer.HeavyThreshold = ParseFloat("HEAVY_CONF_THRESHOLD", cfg.Reviewer.HeavyThreshold)
	cfg.ReviewConcurrency = ParseInt("REVIEW_CONCURRENCY", cfg.ReviewConcurrency)
	cfg.CapabilityTimeout = ParseDuration("CAPABILITY_TIMEOUT_SECONDS", cfg.CapabilityTimeout)
	cfg.LightReviewerURL = ParseString("LIGHT_REVIEWER_URL", cfg.LightReviewerURL)
	cfg.HeavyReviewerURL = ParseString("HEAVY_REVIEWER_URL", cfg.HeavyReviewerURL)
	cfg.WriterURL = ParseString("WRITER_URL", cfg.WriterURL)
	cfg.ScriptWriterURL = ParseString("SCRIPT_WRITER_URL", cfg.ScriptWriterURL)
	cfg.EditorURL = ParseString("EDITOR_URL", cfg.EditorURL)
	cfg.MetadataURL = ParseString("METADATA_URL", cfg.MetadataURL)
	cfg.SynthesizerURL = ParseString("SYNTHESIZER_URL", cfg.SynthesizerURL)
	cfg.Reviewer.PauseBackoff = ParseDuration("PAUSE_BACKOFF_SECONDS", cfg.Reviewer.PauseBackoff)
	cfg.CadenceTick = ParseDuration("CADENCE_TICK_SECONDS", cfg.CadenceTick)
	cfg.SQLitePath = ParseString("SQLITE_PATH", cfg.SQLitePath)
	cfg.RedisAddr = ParseString("REDIS_ADDR", cfg.RedisAddr)
	cfg.RedisDB = ParseInt("REDIS_DB", cfg.RedisDB)
	cfg.HTTPAddr = ParseString("HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = ParseString("LOG_LEVEL", cfg.LogLevel)
	cfg.TelemetryEnabled = ParseBool("TELEMETRY_ENABLED", cfg.TelemetryEnabled)
	cfg.OTLPEndpoint = ParseString("OTLP_ENDPOINT", cfg.OTLPEndpoint)
}
