// Package game parses game command flags and bootstraps a playthrough
// database: it opens the store, runs migrations, and seeds the region's
// noble houses and their secrets.
package game

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/louisbranch/undercroft/internal/platform/config"
	"github.com/louisbranch/undercroft/internal/random"
	"github.com/louisbranch/undercroft/internal/society"
	"github.com/louisbranch/undercroft/internal/storage/sqlite"
)

// Config holds game command configuration.
type Config struct {
	DBPath string `env:"UNDERCROFT_GAME_DB" envDefault:"undercroft.db"`
	Seed   int64  `env:"UNDERCROFT_GAME_SEED"`
	Houses int    `env:"UNDERCROFT_GAME_HOUSES" envDefault:"5"`
}

// ParseConfig parses environment and flags into a Config. Flags override
// environment values.
func ParseConfig(fs *flag.FlagSet, args []string) (Config, error) {
	var cfg Config
	if err := config.ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	fs.StringVar(&cfg.DBPath, "db", cfg.DBPath, "Path to the playthrough database")
	fs.Int64Var(&cfg.Seed, "seed", cfg.Seed, "World generation seed (0 draws a random one)")
	fs.IntVar(&cfg.Houses, "houses", cfg.Houses, "Number of noble houses to generate")
	if args == nil {
		args = []string{}
	}
	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Run seeds a playthrough database with a generated region.
func Run(ctx context.Context, cfg Config) error {
	seed := cfg.Seed
	if seed == 0 {
		var err error
		seed, err = random.NewSeed()
		if err != nil {
			return fmt.Errorf("generate seed: %w", err)
		}
	}

	store, err := sqlite.Open(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer store.Close()

	houses, secrets := society.GenerateRegionalPolitics(seed, cfg.Houses)

	stores := store.Stores()
	for _, house := range houses {
		if err := stores.Houses.PutHouse(ctx, house); err != nil {
			return fmt.Errorf("store house %s: %w", house.ID, err)
		}
	}
	for _, secret := range secrets {
		if err := stores.Secrets.PutSecret(ctx, secret); err != nil {
			return fmt.Errorf("store secret %s: %w", secret.ID, err)
		}
	}

	log.Printf("seeded %d houses and %d secrets (seed %d) into %s",
		len(houses), len(secrets), seed, cfg.DBPath)
	return nil
}
