package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/urfave/cli/v3"

	"github.com/driftmesh/roomsearch/pkg/search"
)

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	eventStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("39"))

	roomStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("244"))

	highlightStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))
)

// SearchCommand creates the search command
func SearchCommand() *cli.Command {
	return &cli.Command{
		Name:  "search",
		Usage: "Search indexed messages",
		Flags: []cli.Flag{
			&cli.StringSliceFlag{
				Name:  "room",
				Usage: "Room ID to search (repeatable)",
			},
			&cli.StringSliceFlag{
				Name:  "key",
				Usage: "Indexed field key to search (repeatable, defaults from config)",
			},
		},
		ArgsUsage: "<query>",
		Action: func(ctx context.Context, c *cli.Command) error {
			query := strings.Join(c.Args().Slice(), " ")
			if query == "" {
				return fmt.Errorf("a search query is required")
			}
			return runSearch(ctx, c.String("config"), c.StringSlice("room"), c.StringSlice("key"), query)
		},
	}
}

func runSearch(ctx context.Context, configPath string, roomIDs, keys []string, query string) error {
	eng, cfg, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			fmt.Printf("Warning: failed to close engine: %v\n", err)
		}
	}()

	if len(keys) == 0 {
		keys = cfg.SearchKeys
	}

	svc := search.New(eng)
	results, err := svc.SearchMessages(ctx, roomIDs, query, keys)
	if err != nil {
		return fmt.Errorf("searching: %w", err)
	}

	fmt.Println(headerStyle.Render(fmt.Sprintf("%d results for %q", results.Count, query)))
	fmt.Println()

	for _, m := range results.Results {
		fmt.Printf("%s %s\n", eventStyle.Render(m.EventID), roomStyle.Render("("+m.RoomID+")"))
		fmt.Printf("  key: %s  rank: %.4f\n", m.Key, m.Rank)
	}

	if len(results.Highlights) > 0 {
		fmt.Println()
		fmt.Println(highlightStyle.Render("highlights: " + strings.Join(results.Highlights, ", ")))
	}

	return nil
}
