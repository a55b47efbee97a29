package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	// NatsServers is the broker server list, both the inbound RPC surface
	// and the product lookup go through it.
	NatsServers []string
	// Port serves the health and metrics HTTP endpoints.
	Port        int
	DatabaseURL string
}

// Load reads the environment (plus an optional .env file) and refuses to
// start on missing or malformed values, reporting every problem at once.
func Load() (Config, error) {
	// a missing .env file is fine, real environments set variables directly
	_ = godotenv.Load()

	var (
		cfg  Config
		errs []error
	)

	cfg.NatsServers = splitServers(os.Getenv("NATS_SERVERS"))
	if len(cfg.NatsServers) == 0 {
		errs = append(errs, errors.New("NATS_SERVERS is required"))
	}

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil || port <= 0 {
		errs = append(errs, errors.New("PORT must be a positive number"))
	}
	cfg.Port = port

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		errs = append(errs, errors.New("DATABASE_URL is required"))
	}

	if len(errs) > 0 {
		return Config{}, fmt.Errorf("config validation error: %w", errors.Join(errs...))
	}

	return cfg, nil
}

func splitServers(csv string) []string {
	var servers []string
	for _, server := range strings.Split(csv, ",") {
		server = strings.TrimSpace(server)
		if server != "" {
			servers = append(servers, server)
		}
	}
	return servers
}
