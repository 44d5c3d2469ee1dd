package main

import (
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"

	"github.com/turbekoff/amountpad/pkg/calculator"
	"github.com/turbekoff/amountpad/pkg/env"
	"github.com/turbekoff/amountpad/pkg/locale"
)

type Config struct {
	Locale language.Tag `env:"AMOUNTPAD_LOCALE" env-default:"en"`
	// MaxAmount also sets how many integer digits a number may have.
	MaxAmount decimal.Decimal `env:"AMOUNTPAD_MAX_AMOUNT" env-default:"9999999999999.99"`
}

type BotConfig struct {
	Config

	BotToken              string        `env:"AMOUNTPAD_TELEGRAM_TOKEN,required"`
	BotOffset             int           `env:"AMOUNTPAD_TELEGRAM_OFFSET" env-default:"0"`
	BotTimeout            int           `env:"AMOUNTPAD_TELEGRAM_TIMEOUT" env-default:"60"`
	SessionTTLTimeout     time.Duration `env:"AMOUNTPAD_SESSION_TTL_TIMEOUT" env-default:"20m"`
	SessionCleanupTimeout time.Duration `env:"AMOUNTPAD_SESSION_CLEANUP_TIMEOUT" env-default:"1m"`
	ShutdownTimeout       time.Duration `env:"AMOUNTPAD_SHUTDOWN_TIMEOUT" env-default:"2m"`
}

func LoadConfig(envFiles ...string) (*Config, error) {
	if err := env.Load(envFiles...); err != nil {
		return nil, err
	}

	var cfg Config
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func LoadBotConfig(envFiles ...string) (*BotConfig, error) {
	if err := env.Load(envFiles...); err != nil {
		return nil, err
	}

	var cfg BotConfig
	if err := env.Read(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Symbols() locale.Symbols {
	return locale.New(c.Locale)
}

func (c *Config) Limits() calculator.Limits {
	limits := calculator.DefaultLimits()
	if c.MaxAmount.IsPositive() {
		limits.MaxAmount = c.MaxAmount
		limits.MaxIntegerDigits = len(c.MaxAmount.Truncate(0).String())
	}
	return limits
}

func (c *Config) NewCalculator() *calculator.Calculator {
	return calculator.New(c.Symbols(), c.Limits())
}
