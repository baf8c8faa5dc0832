package cmd

import (
	"fmt"

	"craftctl/internal/config"
	"craftctl/pkg/crafty"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Open the panel web UI in the browser",
	RunE: func(cmd *cobra.Command, args []string) error {
		if Cfg.ServerURL == "" {
			return fmt.Errorf("no panel address: pass --url or set server_url in the config")
		}
		// Normalize the same way the client does so a bare host works.
		c, err := crafty.NewClient(Cfg.ServerURL, crafty.Options{})
		if err != nil {
			return err
		}
		return browser.OpenURL(c.BaseURL())
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage the craftctl profile",
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the active profile",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("server_url:   %s\n", Cfg.ServerURL)
		fmt.Printf("username:     %s\n", Cfg.Username)
		fmt.Printf("insecure_tls: %t\n", Cfg.InsecureTLS)
		fmt.Printf("poll_seconds: %d\n", Cfg.PollSeconds)
	},
}

var setPoll int

var configSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Save profile values from the given flags",
	RunE: func(cmd *cobra.Command, args []string) error {
		saved, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("url") {
			if _, err := crafty.NewClient(flagURL, crafty.Options{}); err != nil {
				return err
			}
			saved.ServerURL = flagURL
		}
		if cmd.Flags().Changed("username") {
			saved.Username = flagUsername
		}
		if cmd.Flags().Changed("insecure") {
			saved.InsecureTLS = flagInsecure
		}
		if cmd.Flags().Changed("poll") {
			saved.PollSeconds = setPoll
		}
		if err := config.Save(cfgPath, saved); err != nil {
			return err
		}
		fmt.Println("Profile saved.")
		return nil
	},
}

func init() {
	configSetCmd.Flags().IntVar(&setPoll, "poll", 0, "Refresh cadence in seconds")
	configCmd.AddCommand(configShowCmd, configSetCmd)
	RootCmd.AddCommand(openCmd, configCmd)
}
