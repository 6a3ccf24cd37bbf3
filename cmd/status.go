package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/orchestrator"
	statex "github.com/tanpawarit/salon-onboarding-mcp/onboarding/state"
	configx "github.com/tanpawarit/salon-onboarding-mcp/pkg/config"
)

func newStatusCommand() *cobra.Command {
	var companyID int

	cmd := &cobra.Command{
		Use:   "status",
		Short: "Print the persisted onboarding progress of a company",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if companyID <= 0 {
				return fmt.Errorf("--company must be a positive company id")
			}

			storeCfg, err := configx.New[statex.StoreConfig]("ONBOARDING_STORE")
			if err != nil {
				return err
			}
			store, err := statex.Open(cmd.Context(), *storeCfg)
			if err != nil {
				return fmt.Errorf("open onboarding store: %w", err)
			}
			defer func() {
				if err := store.Close(); err != nil {
					log.Warn().Err(err).Msg("close onboarding store")
				}
			}()

			sess, err := store.Load(cmd.Context(), companyID)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(orchestrator.BuildProgress(sess))
		},
	}
	cmd.Flags().IntVarP(&companyID, "company", "c", 0, "company id")
	return cmd
}
