package vault

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/amirbrooks/dayledger/internal/ledger"
)

// Config is the vault-level configuration, stored as config.json at the
// vault root.
type Config struct {
	Schema   int    `json:"schema"`
	DailyDir string `json:"daily_dir"`
	NotesDir string `json:"notes_dir"`
	IDPrefix string `json:"id_prefix"`
	IDLength int    `json:"id_length"`
	// Statuses overrides the default marker→status mapping; keys are
	// single-character markers.
	Statuses map[string]string `json:"statuses,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		Schema:   1,
		DailyDir: "daily",
		NotesDir: "notes",
		IDPrefix: ledger.DefaultIDPrefix,
		IDLength: ledger.DefaultIDLength,
	}
}

// StatusMap builds the effective marker mapping, defaults overlaid with any
// configured overrides.
func (c Config) StatusMap() ledger.StatusMap {
	m := ledger.DefaultStatusMap()
	for k, v := range c.Statuses {
		if len(k) == 1 {
			m[k[0]] = v
		}
	}
	return m
}

func fillConfigDefaults(cfg Config) Config {
	def := DefaultConfig()
	if cfg.Schema == 0 {
		cfg.Schema = def.Schema
	}
	if cfg.DailyDir == "" {
		cfg.DailyDir = def.DailyDir
	}
	if cfg.NotesDir == "" {
		cfg.NotesDir = def.NotesDir
	}
	if cfg.IDPrefix == "" {
		cfg.IDPrefix = def.IDPrefix
	}
	if cfg.IDLength <= 0 {
		cfg.IDLength = def.IDLength
	}
	return cfg
}

func (v *FS) Config() Config {
	return v.cfg
}

func (v *FS) SaveConfig(cfg Config) error {
	v.cfg = fillConfigDefaults(cfg)
	b, _ := json.MarshalIndent(v.cfg, "", "  ")
	return atomicWriteFile(filepath.Join(v.Root, "config.json"), b, 0o644)
}

func (v *FS) ensureConfig() error {
	cfgPath := filepath.Join(v.Root, "config.json")
	if _, err := os.Stat(cfgPath); err == nil {
		return v.loadOrDefaultConfig()
	}
	v.cfg = DefaultConfig()
	b, _ := json.MarshalIndent(v.cfg, "", "  ")
	return atomicWriteFile(cfgPath, b, 0o644)
}

func (v *FS) loadOrDefaultConfig() error {
	b, err := os.ReadFile(filepath.Join(v.Root, "config.json"))
	if err != nil {
		v.cfg = DefaultConfig()
		return err
	}
	var cfg Config
	if err := json.Unmarshal(b, &cfg); err != nil {
		// A corrupt config must not strand the vault on a zero-value
		// layout; run on defaults and report what happened.
		v.cfg = DefaultConfig()
		return fmt.Errorf("%w: config.json: %v", ErrInvalid, err)
	}
	v.cfg = fillConfigDefaults(cfg)
	return nil
}
