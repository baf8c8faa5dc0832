package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"

	"craftctl/internal/config"
	"craftctl/internal/session"
	"craftctl/pkg/crafty"

	"github.com/spf13/cobra"
)

var (
	cfgPath      string
	flagURL      string
	flagUsername string
	flagPassword string
	flagTOTP     string
	flagInsecure bool

	// Cfg and Client are populated by PersistentPreRunE / login and shared
	// by the subcommands, like the rest of the command tree they are
	// per-invocation state.
	Cfg      config.Config
	Client   *crafty.Client
	Sessions session.Store
)

var RootCmd = &cobra.Command{
	Use:   "craftctl",
	Short: "Terminal client for Crafty Controller panels",
	Long: `craftctl talks to a Crafty Controller panel over its v2 HTTP API:
list servers, watch stats and logs, send console commands, and run
lifecycle actions. Running it without a subcommand opens the dashboard.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return err
		}
		Cfg = loaded
		if flagURL != "" {
			Cfg.ServerURL = flagURL
		}
		if flagUsername != "" {
			Cfg.Username = flagUsername
		}
		if flagInsecure {
			Cfg.InsecureTLS = true
		}
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := login(cmd.Context()); err != nil {
			return err
		}
		RunDashboard()
		return nil
	},
}

func Execute() {
	RootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "Path to the craftctl config file")
	RootCmd.PersistentFlags().StringVar(&flagURL, "url", "", "Panel address, e.g. https://panel.example.com:8443")
	RootCmd.PersistentFlags().StringVarP(&flagUsername, "username", "u", "", "Panel username")
	RootCmd.PersistentFlags().StringVarP(&flagPassword, "password", "p", "", "Panel password (or CRAFTCTL_PASSWORD)")
	RootCmd.PersistentFlags().StringVar(&flagTOTP, "totp", "", "Six-digit MFA code, only when the account has MFA enabled")
	RootCmd.PersistentFlags().BoolVarP(&flagInsecure, "insecure", "k", false, "Skip TLS certificate validation (self-signed panels)")

	if err := RootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

// login builds the panel client and begins the session. Every invocation
// starts logged out; tokens are never cached between runs.
func login(ctx context.Context) error {
	if Cfg.ServerURL == "" {
		return fmt.Errorf("no panel address: pass --url or set server_url in the config")
	}
	if Cfg.Username == "" {
		return fmt.Errorf("no username: pass --username or set username in the config")
	}
	password := flagPassword
	if password == "" {
		password = os.Getenv("CRAFTCTL_PASSWORD")
	}
	if password == "" {
		return fmt.Errorf("no password: pass --password or set CRAFTCTL_PASSWORD")
	}
	if flagTOTP != "" {
		if len(flagTOTP) != 6 || strings.Trim(flagTOTP, "0123456789") != "" {
			return fmt.Errorf("--totp must be a six-digit code")
		}
	}

	c, err := crafty.NewClient(Cfg.ServerURL, crafty.Options{InsecureSkipVerify: Cfg.InsecureTLS})
	if err != nil {
		return err
	}

	creds, err := c.Login(ctx, Cfg.Username, password, flagTOTP)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	if creds.Warning != "" {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", creds.Warning)
	}
	if err := Sessions.Begin(c.BaseURL(), creds.Token, creds.UserID); err != nil {
		return err
	}
	Client = c
	return nil
}
