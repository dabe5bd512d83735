package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/scholarly-search/internal/apod"
	"github.com/pdiddy/scholarly-search/internal/secrets"
)

var apodCmd = &cobra.Command{
	Use:   "apod",
	Short: "Print NASA's Astronomy Picture of the Day (requires an API key)",
	Long: `APOD prints the title and image URL of NASA's Astronomy Picture of the
Day. The key is read from nasakey.txt in the secrets directory, then
NASA_API_KEY. Without a key the command exits with status 2.`,
	RunE: runAPOD,
}

func init() {
	apodCmd.Flags().String("date", "", "picture date (YYYY-MM-DD, default today)")
	rootCmd.AddCommand(apodCmd)
}

func runAPOD(cmd *cobra.Command, args []string) error {
	key, err := secrets.Resolve(loadedSecrets, secrets.NASA)
	if err != nil {
		return err
	}

	hc := httpConfig()
	client := &apod.Client{HTTP: newHTTPClient(hc), APIKey: key, UserAgent: hc.UserAgent}

	var pic apod.Picture
	dateStr, _ := cmd.Flags().GetString("date")
	if dateStr == "" {
		pic, err = client.Today(cmd.Context())
	} else {
		day, parseErr := time.Parse("2006-01-02", dateStr)
		if parseErr != nil {
			return fmt.Errorf("invalid --date %q: %w", dateStr, parseErr)
		}
		pic, err = client.On(cmd.Context(), day)
	}
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), pic.Title, pic.URL)
	return nil
}
