package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/lazypower/halflife/internal/client"
	"github.com/lazypower/halflife/internal/dose"
	"github.com/spf13/cobra"
)

var addAt string

var addCmd = &cobra.Command{
	Use:   "add <amount> <unit>",
	Short: "Record a dose",
	Long:  "Record a dosing event with the running daemon. Units: mg, mcg, g, IU.",
	Args:  cobra.ExactArgs(2),
	RunE:  runAdd,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List recorded doses",
	RunE:  runList,
}

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a dose by ID",
	Args:  cobra.ExactArgs(1),
	RunE:  runRm,
}

var clearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all doses",
	RunE:  runClear,
}

func init() {
	addCmd.Flags().StringVar(&addAt, "at", "", "Dose timestamp, RFC3339 (default now)")
}

// daemon returns a client, failing early with a hint if the server is down.
func daemon() (*client.Client, error) {
	c := client.New()
	if !c.Healthy() {
		return nil, fmt.Errorf("halflife daemon not reachable — start it with 'halflife serve'")
	}
	return c, nil
}

func runAdd(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("amount %q is not a number", args[0])
	}
	// Validate locally so a bad dose never reaches the collection.
	if err := dose.ValidateAmount(amount); err != nil {
		return err
	}
	unit, err := dose.ParseUnit(args[1])
	if err != nil {
		return err
	}

	req := map[string]any{
		"amount": amount,
		"unit":   string(unit),
	}
	if addAt != "" {
		if _, err := time.Parse(time.RFC3339, addAt); err != nil {
			return fmt.Errorf("--at must be RFC3339 (e.g. 2026-03-01T08:00:00Z): %w", err)
		}
		req["taken_at"] = addAt
	}

	c, err := daemon()
	if err != nil {
		return err
	}
	body, _ := json.Marshal(req)
	resp, err := c.Post("/api/doses", body)
	if err != nil {
		return err
	}

	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(resp, &created); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Printf("recorded %g %s (%s)\n", amount, unit, created.ID)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	c, err := daemon()
	if err != nil {
		return err
	}
	body, err := c.Get("/api/doses")
	if err != nil {
		return err
	}

	var resp struct {
		Count int `json:"count"`
		Doses []struct {
			ID      string  `json:"id"`
			Amount  float64 `json:"amount"`
			Unit    string  `json:"unit"`
			TakenAt string  `json:"taken_at"`
		} `json:"doses"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}

	if resp.Count == 0 {
		fmt.Fprintln(os.Stderr, "no doses recorded this session")
		return nil
	}

	for _, d := range resp.Doses {
		taken, err := time.Parse(time.RFC3339, d.TakenAt)
		age := d.TakenAt
		if err == nil {
			age = humanize.Time(taken)
		}
		fmt.Printf("%-36s  %8g %-3s  %s\n", d.ID, d.Amount, d.Unit, age)
	}
	return nil
}

func runRm(cmd *cobra.Command, args []string) error {
	c, err := daemon()
	if err != nil {
		return err
	}
	if _, err := c.Delete("/api/doses/" + args[0]); err != nil {
		return err
	}
	fmt.Printf("removed %s\n", args[0])
	return nil
}

func runClear(cmd *cobra.Command, args []string) error {
	c, err := daemon()
	if err != nil {
		return err
	}
	body, err := c.Delete("/api/doses")
	if err != nil {
		return err
	}

	var resp struct {
		Removed int `json:"removed"`
	}
	if err := json.Unmarshal(body, &resp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	fmt.Printf("removed %d doses\n", resp.Removed)
	return nil
}
