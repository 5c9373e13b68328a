package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/mcoot/bvzombies/internal/model"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w (stdout when nil)
func NewOutput(format string, w io.Writer) *Output {
	if w == nil {
		w = os.Stdout
	}
	return &Output{format: format, w: w}
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
		fmt.Fprintln(o.w, string(data))
	} else {
		fmt.Fprintln(o.w, msg)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case model.User:
		o.printUser(v)
	case model.GameStats:
		o.printStats(v)
	case model.GameEnvelope:
		o.printGame(v)
	case listResult:
		o.printList(v)
	case HealthResult:
		o.printHealthResult(v)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}

// listResult is a listing tagged with its name for text output
type listResult struct {
	Name  string           `json:"name"`
	Items []map[string]any `json:"items"`
}

func (o *Output) printUser(u model.User) {
	fmt.Fprintf(o.w, "User: %s (%s)\n", u.Name(), u.ID)
	fmt.Fprintf(o.w, "Email: %s\n", u.Email)
	if u.Username != "" {
		fmt.Fprintf(o.w, "Username: %s\n", u.Username)
	}
	if u.Role != "" {
		fmt.Fprintf(o.w, "Role: %s\n", u.Role)
	}
	if u.Country != "" {
		fmt.Fprintf(o.w, "Country: %s\n", u.Country)
	}
	if u.Language != "" {
		fmt.Fprintf(o.w, "Language: %s\n", u.Language)
	}
	if u.Age > 0 {
		fmt.Fprintf(o.w, "Age: %d\n", u.Age)
	}
	fmt.Fprintf(o.w, "Verified: %s\n", yesNo(u.IsVerified))
	if u.CreatedAt != nil {
		fmt.Fprintf(o.w, "Member since: %s\n", u.CreatedAt.Format("2006-01-02"))
	}
}

func (o *Output) printStats(s model.GameStats) {
	fmt.Fprintf(o.w, "Games played: %d\n", s.TotalGames)
	fmt.Fprintf(o.w, "High score: %d\n", s.HighScore)
	fmt.Fprintf(o.w, "Average score: %d\n", s.AverageScore())
	fmt.Fprintf(o.w, "Levels completed: %d\n", s.LevelsCompleted)
	fmt.Fprintf(o.w, "Zombies defeated: %d\n", s.ZombiesDefeated)
}

func (o *Output) printGame(g model.GameEnvelope) {
	if g.GameData == nil || !g.GameData.Authorized {
		fmt.Fprintln(o.w, "Game access: denied")
		return
	}
	fmt.Fprintln(o.w, "Game access: granted")
	fmt.Fprintf(o.w, "Player: %s (%s)\n", g.GameData.Username, g.GameData.PlayerID)
}

func (o *Output) printList(l listResult) {
	fmt.Fprintf(o.w, "%s (%d):\n", l.Name, len(l.Items))
	for i, item := range l.Items {
		keys := make([]string, 0, len(item))
		for k := range item {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]string, 0, len(keys))
		for _, k := range keys {
			fields = append(fields, fmt.Sprintf("%s=%v", k, item[k]))
		}
		fmt.Fprintf(o.w, "  %d. %s\n", i+1, strings.Join(fields, " "))
	}
}

func (o *Output) printHealthResult(h HealthResult) {
	fmt.Fprintf(o.w, "Status: %s\n", h.Status)
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
