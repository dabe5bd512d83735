package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pdiddy/scholarly-search/internal/search"
	"github.com/pdiddy/scholarly-search/internal/secrets"
	"github.com/pdiddy/scholarly-search/pkg/types"
)

var searchCmd = &cobra.Command{
	Use:   "search [query...]",
	Short: "Search scholarly APIs for records matching a topic",
	Long: `Search routes a free-text query to the metadata APIs that suit its
topic, queries each one, and prints the records with their best available
link. A failing source is reported under <source>_error and does not stop
the others.

With no arguments the query is read from an interactive prompt.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", types.DefaultLimit, "maximum records per source")
	searchCmd.Flags().String("format", "text", "output format: text, json, yaml, or csl")
	searchCmd.Flags().String("rules", "", "YAML routing rules file (default: built-in rules)")
	searchCmd.Flags().String("sources", "", "comma-separated sources to query, bypassing the router")
	searchCmd.Flags().String("arxiv-sort", string(types.ArxivSortRelevance), "arXiv ordering: relevance or submitted")

	viper.BindPFlag("limit", searchCmd.Flags().Lookup("limit"))
	viper.BindPFlag("rules_file", searchCmd.Flags().Lookup("rules"))
	viper.BindPFlag("arxiv_sort", searchCmd.Flags().Lookup("arxiv-sort"))

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query, err := queryFromArgs(args, cmd.InOrStdin(), cmd.OutOrStdout())
	if err != nil {
		return err
	}

	cfg, err := searchConfig()
	if err != nil {
		return err
	}

	sources, err := selectSources(cmd, cfg, query)
	if err != nil {
		return err
	}

	backends := search.NewBackends(newHTTPClient(cfg.HTTPConfig), cfg)
	res, err := search.AggregateSources(cmd.Context(), query, sources, backends, cfg.Limit, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if err := writeResult(res, format, cmd.OutOrStdout()); err != nil {
		return err
	}

	if failed := res.Failed(); len(failed) == len(res.Sources) {
		return fmt.Errorf("all %d sources failed", len(failed))
	}
	return nil
}

// searchConfig resolves the search settings from flags, config file,
// environment, and the loaded secrets.
func searchConfig() (types.SearchConfig, error) {
	cfg := types.SearchConfig{
		HTTPConfig: httpConfig(),
		Limit:      viper.GetInt("limit"),
		Mailto:     viper.GetString("mailto"),
		RulesFile:  viper.GetString("rules_file"),
		ArxivSort:  types.ArxivSort(viper.GetString("arxiv_sort")),
	}
	switch cfg.ArxivSort {
	case "", types.ArxivSortRelevance, types.ArxivSortSubmitted:
	default:
		return cfg, fmt.Errorf("unsupported arxiv sort %q: use relevance or submitted", cfg.ArxivSort)
	}

	// The Semantic Scholar key is optional here; the backend reports a
	// missing key only if the source is actually selected.
	if key, err := secrets.Resolve(loadedSecrets, secrets.SemanticScholar); err == nil {
		cfg.SemanticScholarAPIKey = key
	}
	return cfg.WithDefaults(), nil
}

// selectSources returns the --sources override when given, otherwise the
// router's choice for query.
func selectSources(cmd *cobra.Command, cfg types.SearchConfig, query string) ([]types.Source, error) {
	if raw, _ := cmd.Flags().GetString("sources"); raw != "" {
		return parseSources(raw)
	}
	router, err := loadRouter(cfg.RulesFile)
	if err != nil {
		return nil, err
	}
	return router.Route(query), nil
}

func loadRouter(rulesFile string) (search.Router, error) {
	if rulesFile == "" {
		return search.DefaultRouter(), nil
	}
	return search.LoadRouter(rulesFile)
}

// parseSources splits a comma-separated source list, dropping repeats.
func parseSources(raw string) ([]types.Source, error) {
	var sources []types.Source
	seen := make(map[types.Source]bool)
	for _, part := range strings.Split(raw, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		s, err := types.ParseSource(part)
		if err != nil {
			return nil, err
		}
		if !seen[s] {
			seen[s] = true
			sources = append(sources, s)
		}
	}
	if len(sources) == 0 {
		return nil, fmt.Errorf("--sources lists no sources")
	}
	return sources, nil
}

// queryFromArgs joins args into the query, or prompts on in when there
// are none.
func queryFromArgs(args []string, in io.Reader, out io.Writer) (string, error) {
	query := strings.TrimSpace(strings.Join(args, " "))
	if query != "" {
		return query, nil
	}

	fmt.Fprint(out, "Enter a research topic or query: ")
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("reading query: %w", err)
	}
	query = strings.TrimSpace(line)
	if query == "" {
		return "", fmt.Errorf("query is empty: provide a research topic")
	}
	return query, nil
}

func writeResult(res search.Result, format string, w io.Writer) error {
	switch format {
	case "text", "":
		search.FormatText(res, w)
		return nil
	case "json":
		return search.FormatJSON(res, w)
	case "yaml":
		return search.FormatYAML(res, w)
	case "csl":
		return search.FormatCSL(res, w)
	default:
		return fmt.Errorf("unsupported format %q: use text, json, yaml, or csl", format)
	}
}
