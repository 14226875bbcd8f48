package cmd

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/wander/internal/config"
	"github.com/theirongolddev/wander/internal/tui"
	"github.com/theirongolddev/wander/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	Args:  cobra.NoArgs,
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	prepareTerminal()

	v := tui.NewSetupValues(cfg)
	form := tui.NewSetupForm(&v).WithTheme(theme.Active.Huh())
	if err := form.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			fmt.Println("\n  Setup cancelled, nothing saved.")
			return nil
		}
		return err
	}

	// Reload so values from --data-dir or the environment are not persisted.
	saved, err := config.Load()
	if err != nil {
		return err
	}
	v.Apply(&saved)
	if err := config.Save(saved); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `wander setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}

func maskAPIKey(key string) string {
	if len(key) > 16 {
		return key[:8] + "..." + key[len(key)-4:]
	}
	if len(key) > 4 {
		return key[:4] + "..."
	}
	return "****"
}
