package cli

import (
	"fmt"

	"github.com/harun/agenda/internal/config"
	"github.com/spf13/cobra"
)

var configureCmd = &cobra.Command{
	Use:   "configure",
	Short: "Run interactive configuration wizard",
	Long: `Run an interactive configuration wizard to set up Agenda.
Press Enter at any prompt to keep the value shown in brackets.`,
	Args: cobra.NoArgs,
	RunE: runConfigure,
}

func init() {
	rootCmd.AddCommand(configureCmd)
}

func runConfigure(cmd *cobra.Command, args []string) error {
	base, err := loadConfig()
	if err != nil {
		return err
	}

	wizard := config.NewWizard(cmd.InOrStdin(), cmd.OutOrStdout())
	cfg, err := wizard.Run(base)
	if err != nil {
		return fmt.Errorf("configuration failed: %w", err)
	}

	loader := config.NewLoader(cfgFile)
	if err := loader.Save(cfg); err != nil {
		return fmt.Errorf("failed to save configuration: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "\nConfiguration saved to: %s\n", loader.GetConfigPath())
	return nil
}
