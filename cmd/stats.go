package cmd

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

// StatsCommand creates the stats command
func StatsCommand() *cli.Command {
	return &cli.Command{
		Name:  "stats",
		Usage: "Show search index statistics",
		Action: func(ctx context.Context, c *cli.Command) error {
			return showStats(ctx, c.String("config"))
		},
	}
}

func showStats(ctx context.Context, configPath string) error {
	eng, cfg, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			fmt.Printf("Warning: failed to close engine: %v\n", err)
		}
	}()

	stats, err := eng.Stats(ctx)
	if err != nil {
		return fmt.Errorf("fetching stats: %w", err)
	}

	capability, err := eng.Capability(ctx)
	if err != nil {
		return fmt.Errorf("probing capability: %w", err)
	}

	fmt.Printf("Engine: %s\n", cfg.Engine.Kind)
	fmt.Printf("Query syntax tier: %s\n", capability)
	fmt.Printf("Indexed entries: %d\n", stats.Entries)
	fmt.Printf("Rooms: %d\n", stats.Rooms)
	return nil
}
