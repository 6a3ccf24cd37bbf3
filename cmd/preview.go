package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/prompt"
	"github.com/tanpawarit/salon-onboarding-mcp/onboarding/rows"
)

func newPreviewCommand() *cobra.Command {
	var dataType string

	cmd := &cobra.Command{
		Use:   "preview FILE",
		Short: "Parse a CSV or JSON file offline and show what an import would see",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dt, err := rows.ParseDataType(dataType)
			if err != nil {
				return err
			}

			raw, err := readInput(cmd.InOrStdin(), args[0])
			if err != nil {
				return err
			}

			report, err := rows.Preview(dt, string(raw))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, report.String())
			fmt.Fprintln(out)
			fmt.Fprintln(out, prompt.LoadPromptSet().PreviewHint)
			return nil
		},
	}
	cmd.Flags().StringVarP(&dataType, "type", "t", string(rows.DataStaff), "staff, services, clients or categories")
	return cmd
}

// readInput reads path, or stdin when path is "-".
func readInput(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return raw, nil
}
