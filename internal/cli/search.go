package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	searchuc "github.com/raviX007/natural-language-wine-search/internal/usecase/search"
)

var searchJSON bool

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run one natural-language wine search",
	Long: `Translate a free-text question into a structured query and run it.
An empty collection is seeded from the catalog first.

Examples:
  winesearch search "I want a wine that has fruity nuances"
  winesearch search "What are two wines that come from Italy?" --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cred, err := credential()
	if err != nil {
		return err
	}

	a, err := newApp(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer a.Close()

	resp, err := a.search.Search(cmd.Context(), cred, strings.Join(args, " "))
	if err != nil {
		return err
	}

	if searchJSON {
		return writeSearchJSON(cmd.OutOrStdout(), resp)
	}
	printResults(cmd.OutOrStdout(), resp)
	return nil
}

// searchOutput is the --json shape of one search.
type searchOutput struct {
	Query   string       `json:"query"`
	Filter  string       `json:"filter"`
	Limit   int          `json:"limit,omitempty"`
	Results []wineOutput `json:"results"`
}

type wineOutput struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Year        int     `json:"year"`
	Description string  `json:"description"`
	Grape       string  `json:"grape"`
	Color       string  `json:"color"`
	Country     string  `json:"country"`
	Rating      int     `json:"rating"`
	Score       float64 `json:"score"`
}

func writeSearchJSON(w io.Writer, resp searchuc.Response) error {
	out := searchOutput{
		Query:   resp.Query.Text(),
		Filter:  resp.Query.Filter().String(),
		Limit:   resp.Query.Limit(),
		Results: make([]wineOutput, 0, len(resp.Results)),
	}
	for i := range resp.Results {
		r := &resp.Results[i]
		rec := r.Record()
		out.Results = append(out.Results, wineOutput{
			ID:          rec.ID(),
			Name:        rec.Name(),
			Year:        rec.Year(),
			Description: rec.Description(),
			Grape:       rec.Grape(),
			Color:       string(rec.Color()),
			Country:     rec.Country(),
			Rating:      rec.Rating(),
			Score:       r.Score(),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode results: %w", err)
	}
	return nil
}
