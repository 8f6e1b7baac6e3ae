package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
}

// NewOutput creates a new Output formatter
func NewOutput(format string) *Output {
	return &Output{format: format}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

// PrintError outputs an error
func (o *Output) PrintError(err error) {
	if o.format == "json" {
		errData := map[string]any{
			"error": map[string]string{
				"message": err.Error(),
			},
		}
		data, _ := json.Marshal(errData)
		fmt.Fprintln(os.Stderr, string(data))
	} else {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	}
}

// PrintMessage outputs a simple message
func (o *Output) PrintMessage(msg string) {
	if o.format == "json" {
		data, _ := json.Marshal(map[string]string{"message": msg})
		fmt.Println(string(data))
	} else {
		fmt.Println(msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case Room:
		o.printRoom(v)
	case RoomList:
		o.printRoomList(v)
	case RaceHistory:
		o.printRaceHistory(v)
	case PromptsLoaded:
		o.printPromptsLoaded(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// Player response type (matches API)
type Player struct {
	ID          string `json:"id"`
	DisplayName string `json:"display_name"`
	ChickenType string `json:"chicken_type,omitempty"`
	JockeyType  string `json:"jockey_type,omitempty"`
	IsNPC       bool   `json:"is_npc,omitempty"`
	Difficulty  string `json:"difficulty,omitempty"`
	Status      string `json:"status"`
	Progress    int    `json:"progress"`
	WPM         int    `json:"wpm"`
	Accuracy    int    `json:"accuracy"`
}

// Room response type
type Room struct {
	ID      string   `json:"id"`
	State   string   `json:"state"`
	Players []Player `json:"players"`
}

// RoomList response type
type RoomList struct {
	Rooms []string `json:"rooms"`
}

// RaceResult response type
type RaceResult struct {
	PlayerID    string    `json:"player_id"`
	DisplayName string    `json:"display_name"`
	Position    int       `json:"position"`
	WPM         int       `json:"wpm"`
	Accuracy    int       `json:"accuracy"`
	IsNPC       bool      `json:"is_npc,omitempty"`
	XPHint      int       `json:"xp_hint"`
	FinishedAt  time.Time `json:"finished_at"`
}

// RaceSummary response type
type RaceSummary struct {
	RoomID       string       `json:"room_id"`
	Results      []RaceResult `json:"results"`
	WinnerID     string       `json:"winner_id,omitempty"`
	PromptLength int          `json:"prompt_length"`
	StartedAt    time.Time    `json:"started_at"`
	CompletedAt  time.Time    `json:"completed_at"`
}

// RaceHistory response type
type RaceHistory struct {
	RoomID    string        `json:"room_id"`
	Summaries []RaceSummary `json:"summaries"`
}

// PromptsLoaded response type
type PromptsLoaded struct {
	Count int `json:"count"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

func (o *Output) printRoom(r Room) {
	fmt.Printf("Room: %s\n", r.ID)
	fmt.Printf("State: %s\n", r.State)
	fmt.Printf("Racers (%d):\n", len(r.Players))
	for _, p := range r.Players {
		npcStr := ""
		if p.IsNPC {
			npcStr = fmt.Sprintf(" [npc:%s]", p.Difficulty)
		}
		fmt.Printf("  - %s (%s) %s %d%% %dwpm%s\n",
			p.DisplayName, p.ID, p.Status, p.Progress, p.WPM, npcStr)
	}
}

func (o *Output) printRoomList(l RoomList) {
	if len(l.Rooms) == 0 {
		fmt.Println("No live rooms")
		return
	}
	fmt.Printf("Rooms (%d):\n", len(l.Rooms))
	for _, room := range l.Rooms {
		fmt.Printf("  - %s\n", room)
	}
}

func (o *Output) printRaceHistory(h RaceHistory) {
	fmt.Printf("Room: %s\n", h.RoomID)
	if len(h.Summaries) == 0 {
		fmt.Println("No completed races")
		return
	}
	for i, s := range h.Summaries {
		fmt.Printf("\nRace %d (completed %s):\n", i+1, s.CompletedAt.Format("2006-01-02 15:04:05"))
		for _, r := range s.Results {
			npcStr := ""
			if r.IsNPC {
				npcStr = " [npc]"
			}
			fmt.Printf("  %d. %s - %dwpm, %d%% accuracy, +%dxp%s\n",
				r.Position, r.DisplayName, r.WPM, r.Accuracy, r.XPHint, npcStr)
		}
	}
}

func (o *Output) printPromptsLoaded(p PromptsLoaded) {
	fmt.Printf("Prompts loaded: %d\n", p.Count)
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Printf("Status: %s\n", h.Status)
}
