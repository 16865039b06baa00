package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"
	"university-results/internal/components/telemetry"
	"university-results/internal/config"
	"university-results/internal/export"
	"university-results/internal/scrapers/beup"
	"university-results/internal/service"
	"university-results/lib/restyutil"

	"github.com/spf13/cobra"
)

var (
	lookupSem      *string
	lookupSubjects *bool
	lookupJson     *bool
	lookupXlsx     *string
)

func init() {
	lookupSem = lookupCmd.Flags().String("sem", "", "The semester to look up, defaults to batch.default_semester.")
	lookupSubjects = lookupCmd.Flags().Bool("subjects", false, "Also print every theory and practical subject.")
	lookupJson = lookupCmd.Flags().Bool("json", false, "Print the response the HTTP API would return instead of tables.")
	lookupXlsx = lookupCmd.Flags().String("xlsx", "", "Also write the results to an xlsx workbook at this path.")
	rootCmd.AddCommand(lookupCmd)
}

func newService() (service.Service, error) {
	cfg, err := config.Load(*configPath, ".env")
	if err != nil {
		return service.Service{}, err
	}

	opts := cfg.ClientOptions()
	if *verbose {
		output, err := restyutil.NewFilesystemOutput(".dev/resty/beup-cli")
		if err != nil {
			return service.Service{}, err
		}
		opts.Output = output
	}

	tel := telemetry.SlogAPI{}
	client, err := beup.NewClient(opts, tel)
	if err != nil {
		return service.Service{}, err
	}
	return service.NewService(client, cfg.ServiceOptions(), tel), nil
}

var lookupCmd = &cobra.Command{
	Use:   "lookup <reg_no> [--sem <semester>] [--subjects] [--json] [--xlsx <path/to/output.xlsx>]",
	Short: "Looks up the results of a registration number and the ones following it.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		svc, err := newService()
		if err != nil {
			return err
		}

		t1 := time.Now()
		records, err := svc.Lookup(cmd.Context(), args[0], *lookupSem)
		if err != nil {
			return err
		}
		slog.Debug("lookup time", "seconds", time.Since(t1).Seconds())

		if *lookupXlsx != "" {
			err = writeWorkbook(*lookupXlsx, records)
			if err != nil {
				return err
			}
		}

		out := cmd.OutOrStdout()
		if *lookupJson {
			encoder := json.NewEncoder(out)
			encoder.SetIndent("", "  ")
			return encoder.Encode(service.Entries(records))
		}

		RenderResults(out, records, *lookupSubjects)
		RenderSummary(out, args[0], records)
		return nil
	},
}

func writeWorkbook(path string, records []beup.StudentResult) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	err = export.WriteWorkbook(f, records)
	if err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	slog.Info("wrote workbook", "path", path, "records", len(records))
	return nil
}
