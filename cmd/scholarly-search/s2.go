package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarly-search/internal/search"
	"github.com/pdiddy/scholarly-search/internal/secrets"
)

var s2Cmd = &cobra.Command{
	Use:   "s2 <query...>",
	Short: "Search Semantic Scholar (requires an API key)",
	Long: `S2 runs a Semantic Scholar bulk search and prints each paper's title,
citation count, and link. The key is read from sskey.txt in the secrets
directory, then SEMANTIC_SCHOLAR_API_KEY. Without a key the command exits
with status 2.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runS2,
}

func init() {
	s2Cmd.Flags().Int("limit", 5, "maximum papers to print")
	s2Cmd.Flags().String("year", "", `publication year filter, e.g. "2024-" or "2019-2021"`)
	rootCmd.AddCommand(s2Cmd)
}

func runS2(cmd *cobra.Command, args []string) error {
	key, err := secrets.Resolve(loadedSecrets, secrets.SemanticScholar)
	if err != nil {
		return err
	}

	limit, _ := cmd.Flags().GetInt("limit")
	year, _ := cmd.Flags().GetString("year")
	hc := httpConfig()

	b := &search.SemanticScholarBackend{
		Client:    newHTTPClient(hc),
		UserAgent: hc.UserAgent,
		APIKey:    key,
		Year:      year,
	}

	records, err := b.Search(cmd.Context(), strings.Join(args, " "), limit)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if len(records) == 0 {
		fmt.Fprintln(w, "No results found.")
		return nil
	}
	for _, r := range records {
		citations := 0
		if r.CitationCount != nil {
			citations = *r.CitationCount
		}
		fmt.Fprintf(w, " - %s (%d citations)\n", r.Title, citations)
		if u := r.DisplayURL(); u != "" {
			fmt.Fprintf(w, "   -> %s\n", u)
		}
	}
	return nil
}
