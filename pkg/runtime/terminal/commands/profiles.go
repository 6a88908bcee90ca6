package commands

import (
	"fmt"
	"io"

	"github.com/de-tools/fin-atlas/pkg/services/config"
	"github.com/spf13/cobra"
)

func NewProfilesCmd(loadConfig ConfigLoader, output io.Writer) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles",
		Short: "List API credential profiles",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			registry, err := config.NewRegistry(cfg.API.Credentials)
			if err != nil {
				return fmt.Errorf("failed to read credentials file %s: %w", cfg.API.Credentials, err)
			}
			profiles, err := registry.GetProfiles(cmd.Context())
			if err != nil {
				return err
			}

			for _, profile := range profiles {
				marker := " "
				if profile == cfg.API.Profile {
					marker = "*"
				}
				if _, err := fmt.Fprintf(output, "%s %s\n", marker, profile); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
