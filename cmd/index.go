package cmd

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/urfave/cli/v3"

	"github.com/driftmesh/roomsearch/pkg/engine"
)

// IndexCommand creates the index command
func IndexCommand() *cli.Command {
	return &cli.Command{
		Name:  "index",
		Usage: "Index messages into the search engine",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "room",
				Usage: "Room ID for the message",
			},
			&cli.StringFlag{
				Name:  "key",
				Usage: "Indexed field key",
				Value: "content.body",
			},
			&cli.StringFlag{
				Name:  "event-id",
				Usage: "Event ID (generated when empty)",
			},
			&cli.StringFlag{
				Name:  "file",
				Usage: "JSON lines file with entries to index (use - for stdin)",
			},
		},
		ArgsUsage: "[message body]",
		Action: func(ctx context.Context, c *cli.Command) error {
			if file := c.String("file"); file != "" {
				return indexFile(ctx, c.String("config"), file)
			}
			return indexMessage(ctx, c.String("config"), c.String("room"), c.String("key"), c.String("event-id"), c.Args().First())
		},
	}
}

// indexMessage indexes a single message given on the command line
func indexMessage(ctx context.Context, configPath, roomID, key, eventID, body string) error {
	if roomID == "" {
		return fmt.Errorf("--room is required")
	}
	if body == "" {
		return fmt.Errorf("message body is required")
	}
	if eventID == "" {
		eventID = "$" + uuid.NewString()
	}

	eng, _, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			fmt.Printf("Warning: failed to close engine: %v\n", err)
		}
	}()

	entry := engine.Entry{EventID: eventID, RoomID: roomID, Key: key, Value: body}
	if err := eng.Index(ctx, []engine.Entry{entry}); err != nil {
		return fmt.Errorf("indexing message: %w", err)
	}

	fmt.Printf("Indexed %s in %s\n", eventID, roomID)
	return nil
}

// indexFile indexes entries from a JSON lines file. Each line holds one
// entry: {"event_id": "...", "room_id": "...", "key": "...", "value": "..."}.
// Missing event IDs are generated, missing keys default to content.body.
func indexFile(ctx context.Context, configPath, path string) error {
	var in *os.File
	if path == "-" {
		in = os.Stdin
	} else {
		f, err := os.Open(path)
		if err != nil {
			return fmt.Errorf("opening %s: %w", path, err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				fmt.Printf("Warning: failed to close %s: %v\n", path, err)
			}
		}()
		in = f
	}

	eng, _, err := openEngine(configPath)
	if err != nil {
		return err
	}
	defer func() {
		if err := eng.Close(); err != nil {
			fmt.Printf("Warning: failed to close engine: %v\n", err)
		}
	}()

	var entries []engine.Entry
	scanner := bufio.NewScanner(in)
	line := 0
	for scanner.Scan() {
		line++
		text := scanner.Text()
		if text == "" {
			continue
		}

		var record struct {
			EventID string `json:"event_id"`
			RoomID  string `json:"room_id"`
			Key     string `json:"key"`
			Value   string `json:"value"`
		}
		if err := json.Unmarshal([]byte(text), &record); err != nil {
			return fmt.Errorf("parsing line %d: %w", line, err)
		}
		if record.RoomID == "" {
			return fmt.Errorf("line %d: room_id is required", line)
		}
		if record.EventID == "" {
			record.EventID = "$" + uuid.NewString()
		}
		if record.Key == "" {
			record.Key = "content.body"
		}

		entries = append(entries, engine.Entry{
			EventID: record.EventID,
			RoomID:  record.RoomID,
			Key:     record.Key,
			Value:   record.Value,
		})
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading %s: %w", path, err)
	}

	if err := eng.Index(ctx, entries); err != nil {
		return fmt.Errorf("indexing entries: %w", err)
	}

	fmt.Printf("Indexed %d entries\n", len(entries))
	return nil
}
