package cmd

import (
	"fmt"

	"github.com/driftmesh/roomsearch/pkg/config"
	"github.com/driftmesh/roomsearch/pkg/engine"
	"github.com/driftmesh/roomsearch/pkg/engine/postgres"
	"github.com/driftmesh/roomsearch/pkg/engine/sqlite"
)

// capabilityForcer is implemented by engines that can pin their translation
// tier instead of probing.
type capabilityForcer interface {
	ForceCapability(engine.Capability)
}

// openEngine loads the configuration and opens the configured search engine,
// applying a force_capability override when one is set.
func openEngine(configPath string) (engine.Engine, *config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	var eng engine.Engine
	switch cfg.Engine.Kind {
	case "sqlite":
		eng, err = sqlite.Open(cfg.Engine.Path)
	case "postgres":
		eng, err = postgres.Open(cfg.Engine.DSN)
	default:
		return nil, nil, fmt.Errorf("unknown engine kind %q (want sqlite or postgres)", cfg.Engine.Kind)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("opening %s engine: %w", cfg.Engine.Kind, err)
	}

	forced, ok, err := cfg.Engine.ForcedCapability()
	if err != nil {
		_ = eng.Close()
		return nil, nil, err
	}
	if ok {
		eng.(capabilityForcer).ForceCapability(forced)
	}

	return eng, cfg, nil
}
