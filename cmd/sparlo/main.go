// File: cmd/sparlo/main.go
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "sparlo-benchmark"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		cfgPath string
		devMode bool
		app     *App
	)

	cmd := &cobra.Command{
		Use:   appName,
		Short: "Sparlo engineering-analysis benchmark harness",
		Long: `Runs engineering design challenges through the Sparlo analysis
pipeline and a baseline model, scores both with an evaluator model, and
tracks results in a CSV store.

Also provides an interactive watch view for a single report and a
follow-up chat over a finished report.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			// Secrets come from .env in local runs; absence is fine.
			_ = godotenv.Load()
			var err error
			app, err = NewApp(cfgPath, devMode)
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "path to YAML config file")
	cmd.PersistentFlags().BoolVar(&devMode, "dev", false, "developer mode (console logs, no sampling)")

	cmd.AddCommand(runCmd(&app))
	cmd.AddCommand(watchCmd(&app))
	cmd.AddCommand(chatCmd(&app))
	cmd.AddCommand(statusCmd(&app))
	cmd.AddCommand(exportCmd(&app))
	cmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("%s version %s\n", appName, Version)
		},
	})
	return cmd
}

func runCmd(app **App) *cobra.Command {
	var (
		problem   string
		casesFile string
		meta      caseMeta
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run challenges through Sparlo and the baseline, then evaluate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if problem == "" && casesFile == "" {
				return fmt.Errorf("either --problem or --cases is required")
			}
			cases, err := loadCases(problem, casesFile, meta)
			if err != nil {
				return err
			}
			return (*app).RunBenchmark(cmd.Context(), cases)
		},
	}

	cmd.Flags().StringVar(&problem, "problem", "", "engineering problem text")
	cmd.Flags().StringVar(&casesFile, "cases", "", "JSON file with a list of cases")
	cmd.Flags().StringVar(&meta.Segment, "segment", "", "segment (PDC|RDH|DTS|IDF)")
	cmd.Flags().StringVar(&meta.Summary, "summary", "", "short problem summary")
	cmd.Flags().StringVar(&meta.PriorArt, "prior-art", "", "prior art density (Low|Medium|High)")
	cmd.Flags().StringVar(&meta.Domain, "domain", "", "domain spread (Single|Cross)")
	cmd.Flags().StringVar(&meta.Contradiction, "contradiction", "", "contradiction clarity (Vague|Clear|Sharp)")
	cmd.Flags().StringVar(&meta.Sweetspot, "sweetspot", "", "sweetspot prediction (1-5)")
	cmd.Flags().StringVar(&meta.Expected, "expected", "", "expected grade (A-F)")
	return cmd
}

func watchCmd(app **App) *cobra.Command {
	var challenge string

	cmd := &cobra.Command{
		Use:   "watch [report-id]",
		Short: "Watch a report interactively, answering clarifications",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reportID := ""
			if len(args) == 1 {
				reportID = args[0]
			}
			if reportID == "" && challenge == "" {
				return fmt.Errorf("pass a report id or --challenge to start a new analysis")
			}
			return (*app).WatchReport(cmd.Context(), reportID, challenge)
		},
	}
	cmd.Flags().StringVar(&challenge, "challenge", "", "submit this design challenge and watch it")
	return cmd
}

func chatCmd(app **App) *cobra.Command {
	return &cobra.Command{
		Use:   "chat <report-id>",
		Short: "Ask follow-up questions about a finished report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*app).Chat(cmd.Context(), args[0])
		},
	}
}

func exportCmd(app **App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export all results as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*app).Export(cmd.Context(), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func statusCmd(app **App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Summarize benchmark results so far",
		RunE: func(cmd *cobra.Command, args []string) error {
			return (*app).Status(cmd.Context())
		},
	}
}
