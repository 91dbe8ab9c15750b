package internal

import (
	"fmt"
	"log/slog"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Scheduling backends.
const (
	BackendOsaScript = "osascript"
	BackendDryRun    = "dry-run"
)

// Config represents the application configuration.
type Config struct {
	App      ApplicationConfig `yaml:"app"`
	Vault    VaultConfig       `yaml:"vault"`
	Ledger   LedgerConfig      `yaml:"ledger"`
	Schedule ScheduleConfig    `yaml:"schedule"`
	Report   ReportConfig      `yaml:"report"`
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Vault.Validate(); err != nil {
		return err
	}
	if err := c.Ledger.Validate(); err != nil {
		return err
	}
	if err := c.Schedule.Validate(); err != nil {
		return err
	}
	return c.Report.Validate()
}

// ApplicationConfig holds application-level configuration.
type ApplicationConfig struct {
	LogLevel slog.Level `yaml:"log_level"`
}

// VaultConfig holds the path to the record vault directory.
type VaultConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the vault configuration.
func (c *VaultConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// LedgerConfig holds the idempotency-ledger file location.
type LedgerConfig struct {
	Path string `yaml:"path"`
}

// Validate validates the ledger configuration.
func (c *LedgerConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Path, validation.Required),
	)
}

// ScheduleConfig selects the scheduling backend.
//
// Backend controls where schedule runs send their actions:
//   - "osascript" (default): macOS Reminders/Calendar/Messages automation.
//   - "dry-run": log actions without executing them, for other hosts.
type ScheduleConfig struct {
	Backend        string `yaml:"backend"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// Validate validates the schedule configuration.
func (c *ScheduleConfig) Validate() error {
	if c.Backend == "" {
		c.Backend = BackendOsaScript
	}
	if err := validation.ValidateStruct(c,
		validation.Field(&c.Backend, validation.Required, validation.In(BackendOsaScript, BackendDryRun)),
		validation.Field(&c.TimeoutSeconds, validation.Min(0), validation.Max(300)),
	); err != nil {
		return fmt.Errorf("schedule config: %w", err)
	}
	return nil
}

// ReportConfig tunes the staleness report.
type ReportConfig struct {
	StaleAfterDays int `yaml:"stale_after_days"`
}

// Validate validates the report configuration.
func (c *ReportConfig) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.StaleAfterDays, validation.Min(0)),
	)
}

// NewDefaultConfig returns a new Config with sensible default values.
func NewDefaultConfig() *Config {
	return &Config{
		App: ApplicationConfig{
			LogLevel: slog.LevelInfo,
		},
		Vault: VaultConfig{
			Path: ".",
		},
		Ledger: LedgerConfig{
			Path: ".rolodex/ledger.json",
		},
		Schedule: ScheduleConfig{
			Backend:        BackendOsaScript,
			TimeoutSeconds: 12,
		},
		Report: ReportConfig{
			StaleAfterDays: 7,
		},
	}
}
