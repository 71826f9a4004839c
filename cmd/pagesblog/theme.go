package main

import (
	"fmt"
	"os"

	"github.com/labstack/gommon/log"
	"github.com/spf13/cobra"

	"github.com/eringen/pagesblog"
	"github.com/eringen/pagesblog/theme"
)

var systemFlag string

// withThemeStore opens the settings database and builds a theme store over
// it, with --system standing in for the OS color scheme.
func withThemeStore(fn func(*theme.Store) error) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	system := theme.Parse(systemFlag)
	if systemFlag != "" && system == theme.Unset {
		return fmt.Errorf("%w: %q", theme.ErrInvalidTheme, systemFlag)
	}

	db, err := pagesblog.NewStore(cfg.SettingsPath)
	if err != nil {
		return err
	}
	defer db.Close()

	logger := log.New("theme")
	logger.SetOutput(os.Stderr)
	logger.SetLevel(pagesblog.ParseLogLevel(cfg.LogLevel))
	return fn(theme.New(db.ThemePersister(), theme.Static(system), theme.WithLogger(logger)))
}

var themeCmd = &cobra.Command{
	Use:   "theme [show|toggle|reset|set <light|dark>]",
	Short: "Inspect or change the stored theme preference",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		action := "show"
		if len(args) > 0 {
			action = args[0]
		}
		return withThemeStore(func(s *theme.Store) error {
			switch action {
			case "show":
			case "toggle":
				s.Toggle()
			case "reset":
				s.Reset()
			case "set":
				if len(args) < 2 {
					return fmt.Errorf("theme set: missing light or dark")
				}
				if err := s.Set(theme.Theme(args[1])); err != nil {
					return err
				}
			default:
				return fmt.Errorf("unknown theme action %q", action)
			}
			return writeJSON(cmd.OutOrStdout(), s.Info())
		})
	},
}

func init() {
	themeCmd.Flags().StringVar(&systemFlag, "system", "", "system color scheme to assume (light or dark)")
	rootCmd.AddCommand(themeCmd)
}
