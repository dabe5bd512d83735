package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var routeCmd = &cobra.Command{
	Use:   "route <query...>",
	Short: "Show which sources a query would be sent to",
	Long: `Route evaluates the routing rules for a query without calling any API
and prints the rule that matched and the sources it selects. Use it to
check a custom --rules file.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		rulesFile, _ := cmd.Flags().GetString("rules")
		if rulesFile == "" {
			rulesFile = viper.GetString("rules_file")
		}
		router, err := loadRouter(rulesFile)
		if err != nil {
			return err
		}

		sources, rule := router.Match(strings.Join(args, " "))
		names := make([]string, len(sources))
		for i, s := range sources {
			names[i] = string(s)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "rule: %s\nsources: %s\n", rule, strings.Join(names, ", "))
		return nil
	},
}

func init() {
	routeCmd.Flags().String("rules", "", "YAML routing rules file (default: built-in rules)")
	rootCmd.AddCommand(routeCmd)
}
