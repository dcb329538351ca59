package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/shopspring/decimal"

	"github.com/efreitasn/tradedesk/internal/domain"
	"github.com/efreitasn/tradedesk/internal/engine"
)

// Config holds all runtime configuration for the trade desk server.
type Config struct {
	Port               int           `env:"PORT" envDefault:"8080"`
	LogLevel           string        `env:"LOG_LEVEL" envDefault:"info"`
	DBPath             string        `env:"DB_PATH"` // empty keeps state in memory
	ExpiryInterval     time.Duration `env:"EXPIRY_INTERVAL" envDefault:"1m"`
	ValidationCacheTTL time.Duration `env:"VALIDATION_CACHE_TTL" envDefault:"30s"`
	ReadTimeout        time.Duration `env:"READ_TIMEOUT" envDefault:"5s"`
	WriteTimeout       time.Duration `env:"WRITE_TIMEOUT" envDefault:"10s"`
	IdleTimeout        time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
	ShutdownTimeout    time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	League League
}

// League holds the rule-set figures. Money is whole dollars.
type League struct {
	SalaryCap       int64         `env:"SALARY_CAP" envDefault:"141000000"`
	FirstApron      int64         `env:"FIRST_APRON" envDefault:"172000000"`
	SecondApron     int64         `env:"SECOND_APRON" envDefault:"182500000"`
	CashAnnualLimit int64         `env:"CASH_ANNUAL_LIMIT" envDefault:"7000000"`
	PickWindowYears int           `env:"PICK_WINDOW_YEARS" envDefault:"7"`
	ExceptionTTL    time.Duration `env:"EXCEPTION_TTL" envDefault:"8760h"`
	SeasonYear      int           `env:"SEASON_YEAR" envDefault:"0"` // 0 follows the wall clock

	LowCeiling           int64           `env:"MATCH_LOW_CEILING" envDefault:"7250000"`
	LowMultiplier        decimal.Decimal `env:"MATCH_LOW_MULTIPLIER" envDefault:"2"`
	LowAllowance         int64           `env:"MATCH_LOW_ALLOWANCE" envDefault:"250000"`
	MidCeiling           int64           `env:"MATCH_MID_CEILING" envDefault:"29000000"`
	MidAllowance         int64           `env:"MATCH_MID_ALLOWANCE" envDefault:"7500000"`
	HighMultiplier       decimal.Decimal `env:"MATCH_HIGH_MULTIPLIER" envDefault:"1.25"`
	HighAllowance        int64           `env:"MATCH_HIGH_ALLOWANCE" envDefault:"250000"`
	FirstApronMultiplier decimal.Decimal `env:"MATCH_FIRST_APRON_MULTIPLIER" envDefault:"1.10"`
}

// Rules converts the league figures to an engine rule set.
func (l League) Rules() engine.Rules {
	return engine.Rules{
		SalaryCap:       l.SalaryCap,
		FirstApron:      l.FirstApron,
		SecondApron:     l.SecondApron,
		CashAnnualLimit: l.CashAnnualLimit,
		PickWindowYears: l.PickWindowYears,
		ExceptionTTL:    l.ExceptionTTL,
		Brackets: engine.MatchingBrackets{
			LowCeiling:           l.LowCeiling,
			LowMultiplier:        l.LowMultiplier,
			LowAllowance:         l.LowAllowance,
			MidCeiling:           l.MidCeiling,
			MidAllowance:         l.MidAllowance,
			HighMultiplier:       l.HighMultiplier,
			HighAllowance:        l.HighAllowance,
			FirstApronMultiplier: l.FirstApronMultiplier,
		},
	}
}

// Calendar returns the league calendar: the wall clock, with the season
// year pinned when SeasonYear is set.
func (l League) Calendar() domain.Calendar {
	return domain.SystemCalendar{Year: l.SeasonYear}
}

// Load reads configuration from environment variables, applies defaults,
// and validates values. It returns an error for any invalid value.
func Load() (*Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadLeague reads only the league rule figures. The CLI uses it.
func LoadLeague() (*League, error) {
	var l League
	if err := env.Parse(&l); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := l.validate(); err != nil {
		return nil, err
	}
	return &l, nil
}

// SlogLevel maps LogLevel to a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d, must be between 1 and 65535", c.Port)
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	for _, d := range []struct {
		key string
		val time.Duration
	}{
		{"EXPIRY_INTERVAL", c.ExpiryInterval},
		{"VALIDATION_CACHE_TTL", c.ValidationCacheTTL},
		{"READ_TIMEOUT", c.ReadTimeout},
		{"WRITE_TIMEOUT", c.WriteTimeout},
		{"IDLE_TIMEOUT", c.IdleTimeout},
		{"SHUTDOWN_TIMEOUT", c.ShutdownTimeout},
	} {
		if d.val <= 0 {
			return fmt.Errorf("invalid %s: %s, must be > 0", d.key, d.val)
		}
	}
	return c.League.validate()
}

func (l *League) validate() error {
	if l.SeasonYear < 0 {
		return fmt.Errorf("invalid SEASON_YEAR: %d, must be >= 0", l.SeasonYear)
	}
	if err := l.Rules().Validate(); err != nil {
		return fmt.Errorf("invalid league rules: %w", err)
	}
	return nil
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
