package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/websocket"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "watch <room_id>",
		Short: "Stream a room's realtime events over websocket",
		Long: `Connect to a room's websocket endpoint and stream events in real-time.

Events include:
  - player_list: Roster or race state changed
  - countdown: Countdown tick before the race starts
  - race_start: Race started; the prompt is revealed
  - player_progress: A racer's live progress update
  - player_finished: A racer crossed the line
  - race_end: Final standings

Connecting does not join the race; the watcher is a spectator.

Press Ctrl+C to disconnect.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return watchRoom(args[0], jsonOutput)
		},
	}

	cmd.Flags().BoolVar(&jsonOutput, "json", false, "Output events as JSON lines")

	return cmd
}

// wireMessage mirrors the server's websocket envelope
type wireMessage struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

func watchRoom(roomID string, jsonOutput bool) error {
	url := websocketURL(cfg.ServerURL) + "/ws/" + roomID

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return fmt.Errorf("connection failed: %w", err)
	}
	if resp != nil {
		defer func() { _ = resp.Body.Close() }()
	}
	defer func() { _ = conn.Close() }()

	// Set up cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
		_ = conn.Close()
	}()

	if !jsonOutput {
		fmt.Printf("Watching room %s\n", roomID)
	}

	for {
		var msg wireMessage
		if err := conn.ReadJSON(&msg); err != nil {
			// Interrupt-triggered close is expected
			if ctx.Err() != nil {
				if !jsonOutput {
					fmt.Println("\nDisconnected")
				}
				return nil
			}
			return fmt.Errorf("stream error: %w", err)
		}
		printWireMessage(msg, jsonOutput)
	}
}

// websocketURL converts the configured HTTP server URL to a ws:// URL
func websocketURL(serverURL string) string {
	url := strings.TrimSuffix(serverURL, "/")
	switch {
	case strings.HasPrefix(url, "https"):
		return "wss" + strings.TrimPrefix(url, "https")
	case strings.HasPrefix(url, "http"):
		return "ws" + strings.TrimPrefix(url, "http")
	default:
		return "ws://" + url
	}
}

func printWireMessage(msg wireMessage, jsonOutput bool) {
	now := time.Now()

	if jsonOutput {
		out := map[string]any{
			"time":    now,
			"type":    msg.Type,
			"payload": msg.Payload,
		}
		data, _ := json.Marshal(out)
		fmt.Println(string(data))
		return
	}

	timestamp := now.Format("2006-01-02 15:04:05")
	displayData := string(msg.Payload)
	if len(displayData) > 100 {
		displayData = displayData[:100] + "..."
	}
	fmt.Printf("[%s] %s: %s\n", timestamp, msg.Type, displayData)
}
