package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"github.com/Dstudy/Chaos-Crew-sub000/shared/logger"
)

// LoadEnv reads an optional .env file and applies CHAOS_* overrides to Session.
func LoadEnv(files ...string) error {
	if err := godotenv.Load(files...); err != nil {
		logger.Log.Debug("no .env file found, using environment and defaults")
	}

	if v, ok := os.LookupEnv("CHAOS_NAME"); ok {
		Session.Name = v
	}
	if v, ok := os.LookupEnv("CHAOS_ARENA"); ok {
		Session.Arena = v
	}

	ints := []struct {
		key string
		dst *int
	}{
		{"CHAOS_TICK_RATE", &Session.TickRate},
		{"CHAOS_EXPECTED_PLAYERS", &Session.ExpectedPlayers},
		{"CHAOS_MAX_PLAYERS", &Session.MaxPlayers},
		{"CHAOS_LANES", &Session.Lanes},
	}
	for _, e := range ints {
		v, ok := os.LookupEnv(e.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", e.key, err)
		}
		*e.dst = n
	}

	if v, ok := os.LookupEnv("CHAOS_PORT"); ok {
		n, err := strconv.ParseUint(v, 10, 16)
		if err != nil {
			return fmt.Errorf("CHAOS_PORT: %w", err)
		}
		Session.Port = uint(n)
	}
	if v, ok := os.LookupEnv("CHAOS_SEED"); ok {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("CHAOS_SEED: %w", err)
		}
		Session.Seed = n
	}
	if v, ok := os.LookupEnv("CHAOS_READY_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("CHAOS_READY_TIMEOUT: %w", err)
		}
		Session.ReadyTimeout = d
	}
	return nil
}
