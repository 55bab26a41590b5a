// Package config reads simulator settings from the environment, optionally
// seeded from a .env file.
package config

import (
	"errors"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"atc-grid/internal/game/airspace"
	"atc-grid/internal/logging"

	"github.com/joho/godotenv"
	"github.com/labstack/gommon/log"
)

var ErrInvalid = errors.New("invalid configuration")

type Config struct {
	GridWidth     airspace.Range
	GridHeight    airspace.Range
	TileSize      float64
	SpawnPeriod   time.Duration
	AirplaneSpeed float64
	TickRate      int
	Seed          uint64

	LogLevel string
	LogFile  string
	EventLog string
	Delivery string
}

// Load reads the given .env files (".env" if none), without overriding
// variables already set, and then builds the Config from the environment.
// Missing .env files are not an error.
func Load(lg *log.Logger, files ...string) (*Config, error) {
	if lg == nil {
		lg = logging.Discard("config")
	}
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				lg.Debugf("No %s file found (using environment variables)", f)
				continue
			}
			return nil, fmt.Errorf("%s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv builds a Config from ATC_* environment variables.
func FromEnv() (*Config, error) {
	var errs []error
	collect := func(err error) {
		if err != nil {
			errs = append(errs, err)
		}
	}

	c := &Config{
		LogLevel: getEnv("ATC_LOG_LEVEL", "info"),
		LogFile:  os.Getenv("ATC_LOG_FILE"),
		EventLog: os.Getenv("ATC_EVENT_LOG"),
		Delivery: getEnv("ATC_DELIVERY", "drop"),
	}

	var err error
	c.GridWidth, err = parseRange("ATC_GRID_WIDTH", getEnv("ATC_GRID_WIDTH", "-10:10"))
	collect(err)
	c.GridHeight, err = parseRange("ATC_GRID_HEIGHT", getEnv("ATC_GRID_HEIGHT", "-10:10"))
	collect(err)
	c.TileSize, err = parsePositiveFloat("ATC_TILE_SIZE", getEnv("ATC_TILE_SIZE", "32"))
	collect(err)
	c.AirplaneSpeed, err = parsePositiveFloat("ATC_AIRPLANE_SPEED", getEnv("ATC_AIRPLANE_SPEED", "32"))
	collect(err)

	c.SpawnPeriod, err = time.ParseDuration(getEnv("ATC_SPAWN_PERIOD", "1s"))
	if err != nil || c.SpawnPeriod <= 0 {
		collect(fmt.Errorf("%w: ATC_SPAWN_PERIOD must be a positive duration", ErrInvalid))
	}

	c.TickRate, err = strconv.Atoi(getEnv("ATC_TICK_RATE", "60"))
	if err != nil || c.TickRate <= 0 {
		collect(fmt.Errorf("%w: ATC_TICK_RATE must be a positive integer", ErrInvalid))
	}

	c.Seed, err = strconv.ParseUint(getEnv("ATC_SEED", "0"), 10, 64)
	if err != nil {
		collect(fmt.Errorf("%w: ATC_SEED must be an unsigned integer", ErrInvalid))
	}

	if _, err := logging.ParseLevel(c.LogLevel); err != nil {
		collect(fmt.Errorf("%w: ATC_LOG_LEVEL: %v", ErrInvalid, err))
	}
	switch strings.ToLower(c.Delivery) {
	case "drop", "strict", "retry":
	default:
		collect(fmt.Errorf("%w: ATC_DELIVERY must be drop, strict or retry", ErrInvalid))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return c, nil
}

// Grid builds the grid described by the configuration.
func (c *Config) Grid() (*airspace.Grid, error) {
	return airspace.NewGrid(c.GridWidth, c.GridHeight)
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

// parseRange parses "min:max".
func parseRange(key, v string) (airspace.Range, error) {
	lo, hi, ok := strings.Cut(v, ":")
	if !ok {
		return airspace.Range{}, fmt.Errorf("%w: %s=%q, want min:max", ErrInvalid, key, v)
	}
	minV, err1 := strconv.Atoi(strings.TrimSpace(lo))
	maxV, err2 := strconv.Atoi(strings.TrimSpace(hi))
	if err1 != nil || err2 != nil {
		return airspace.Range{}, fmt.Errorf("%w: %s=%q, want integers", ErrInvalid, key, v)
	}
	if minV > maxV {
		return airspace.Range{}, fmt.Errorf("%w: %s=%q is empty", ErrInvalid, key, v)
	}
	return airspace.Range{Min: minV, Max: maxV}, nil
}

func parsePositiveFloat(key, v string) (float64, error) {
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f <= 0 {
		return 0, fmt.Errorf("%w: %s=%q must be a positive number", ErrInvalid, key, v)
	}
	return f, nil
}
