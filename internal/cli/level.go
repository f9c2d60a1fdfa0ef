package cli

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/cobra"
)

var (
	levelHalfLife float64
	levelAt       string
)

var levelCmd = &cobra.Command{
	Use:   "level",
	Short: "Show the current active level",
	Long:  "Compute the total remaining active substance across all recorded doses, in mg-equivalent.",
	RunE:  runLevel,
}

func init() {
	levelCmd.Flags().Float64Var(&levelHalfLife, "half-life", 0, "Half-life in hours (default: server's configured default)")
	levelCmd.Flags().StringVar(&levelAt, "at", "", "Evaluation instant, RFC3339 (default now)")
}

func runLevel(cmd *cobra.Command, args []string) error {
	q := url.Values{}
	if levelHalfLife != 0 {
		q.Set("half_life_hours", strconv.FormatFloat(levelHalfLife, 'g', -1, 64))
	}
	if levelAt != "" {
		if _, err := time.Parse(time.RFC3339, levelAt); err != nil {
			return fmt.Errorf("--at must be RFC3339: %w", err)
		}
		q.Set("at", levelAt)
	}

	c, err := daemon()
	if err != nil {
		return err
	}
	path := "/api/level"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}
	body, err := c.Get(path)
	if err != nil {
		return err
	}

	var resp struct {
		Level         float64 `json:"level"`
		Unit          string  `json:"unit"`
		At            string  `json:"at"`
		HalfLifeHours float64 `json:"half_life_hours"`
		Doses         int     `json:"doses"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	fmt.Printf("%.2f %s active (%d doses, %gh half-life)\n",
		resp.Level, resp.Unit, resp.Doses, resp.HalfLifeHours)
	return nil
}
