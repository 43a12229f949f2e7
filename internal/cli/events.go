package cli

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os/signal"
	"slices"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
)

var eventCollections = []string{"players", "games", "matches"}

// errStopStream ends a stream early without reporting a failure
var errStopStream = errors.New("stop stream")

type eventsOptions struct {
	json        bool
	collections []string
	count       int
}

func newEventsCmd() *cobra.Command {
	var opts eventsOptions

	cmd := &cobra.Command{
		Use:   "events",
		Short: "Stream roster and match change events",
		Long: `Connect to the API's SSE endpoint and stream change events in real-time.

Each event is named after the collection that changed:
  - players: a player was registered, removed or re-rated
  - games: a game was added, renamed or removed
  - matches: a match was recorded

Press Ctrl+C to disconnect.`,
		Example: `  gamenight events --collection matches --count 1`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, c := range opts.collections {
				if !slices.Contains(eventCollections, c) {
					return fmt.Errorf("unknown collection %q (want one of %s)", c, strings.Join(eventCollections, ", "))
				}
			}
			opts.json = opts.json || cfg.Output == "json"

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return streamEvents(ctx, cmd.OutOrStdout(), opts)
		},
	}

	cmd.Flags().BoolVar(&opts.json, "json", false, "Output events as JSON lines")
	cmd.Flags().StringSliceVar(&opts.collections, "collection", nil, "Only show changes to these collections")
	cmd.Flags().IntVar(&opts.count, "count", 0, "Exit after this many changes (0 streams until interrupted)")

	return cmd
}

// SSEEvent represents a parsed SSE event
type SSEEvent struct {
	Time  time.Time `json:"time"`
	Event string    `json:"event"`
	Data  string    `json:"data"`
}

func streamEvents(ctx context.Context, w io.Writer, opts eventsOptions) error {
	url := strings.TrimSuffix(cfg.ServerURL, "/") + "/api/v1/events"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "text/event-stream")
	req.Header.Set("Cache-Control", "no-cache")

	// The shared client has a request timeout; a stream has none
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("connection failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode)
	}

	seen := 0
	err = readEvents(resp.Body, func(event, data string) error {
		if event == "connected" {
			if !opts.json {
				fmt.Fprintln(w, "Connected, waiting for changes")
			}
			return nil
		}
		if len(opts.collections) > 0 && !slices.Contains(opts.collections, event) {
			return nil
		}
		printEvent(w, event, data, opts.json)
		seen++
		if opts.count > 0 && seen >= opts.count {
			return errStopStream
		}
		return nil
	})

	switch {
	case errors.Is(err, errStopStream):
		return nil
	case err != nil && ctx.Err() == nil:
		return fmt.Errorf("stream error: %w", err)
	}
	if !opts.json {
		fmt.Fprintln(w, "Disconnected")
	}
	return nil
}

// readEvents parses an SSE stream and calls fn once per named event.
// Frames without an event name are skipped.
func readEvents(r io.Reader, fn func(event, data string) error) error {
	scanner := bufio.NewScanner(r)
	var event string
	var data []string

	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "data: "):
			data = append(data, strings.TrimPrefix(line, "data: "))
		case line == "":
			if event != "" {
				if err := fn(event, strings.Join(data, "\n")); err != nil {
					return err
				}
			}
			event, data = "", nil
		}
	}
	return scanner.Err()
}

func printEvent(w io.Writer, event, data string, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		jsonData, _ := json.Marshal(SSEEvent{Time: now, Event: event, Data: data})
		fmt.Fprintln(w, string(jsonData))
		return
	}
	fmt.Fprintf(w, "[%s] %s changed\n", now.Format("2006-01-02 15:04:05"), event)
}
