package commands

import (
	"encoding/json"
	"fmt"
	"os"
	"university-results/internal/scrapers/beup"

	"github.com/spf13/cobra"
)

var parseRegNo *string

func init() {
	parseRegNo = parseCmd.Flags().String("reg-no", "", "The registration number to attach to the parsed record.")
	rootCmd.AddCommand(parseCmd)
}

var parseCmd = &cobra.Command{
	Use:   "parse <path/to/result.html> [--reg-no <reg_no>]",
	Short: "Parses a saved result page and prints the record as json.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		contents, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		result, ok := beup.Parse(string(contents), *parseRegNo)
		if !ok {
			return fmt.Errorf("%s does not contain a result page", args[0])
		}

		encoder := json.NewEncoder(cmd.OutOrStdout())
		encoder.SetIndent("", "  ")
		return encoder.Encode(result)
	},
}
