package main

import (
	"strings"

	"github.com/iwvelando/billet-recovery/internal/export"
	"github.com/iwvelando/billet-recovery/pkg/output"
	"github.com/iwvelando/billet-recovery/pkg/validation"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newOptimizeCmd(a *app) *cobra.Command {
	var (
		cutLength    float64
		holes        int
		kgPerMeter   float64
		etching      bool
		buttWeight   float64
		outputFormat string
		exportPath   string
	)

	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "Score the stocked billet lengths for one die and cut setup",
		Long: "Evaluates every stocked billet length for the process parameters in the configuration " +
			"file, with any flag taking precedence, and prints the ranked table and the optimum.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()

			params := a.conf.Process
			if flags.Changed("cut-length") {
				params.CutLength = cutLength
			}
			if flags.Changed("holes") {
				params.NumHoles = holes
			}
			if flags.Changed("kg-per-m") {
				params.KgPerMeter = kgPerMeter
			}
			if flags.Changed("etching") {
				params.CausticEtching = etching
			}
			if flags.Changed("butt-weight") {
				params.ButtWeight = buttWeight
			}

			format := a.conf.Output.Format
			if flags.Changed("output-format") {
				format = strings.ToLower(strings.TrimSpace(outputFormat))
			}
			if err := validation.ValidateOutputFormat(format); err != nil {
				return err
			}
			if exportPath != "" {
				if _, err := validation.ExportFormatFromPath(exportPath); err != nil {
					return err
				}
			}

			effective := *a.conf
			effective.Process = params
			a.warn(&effective, "main.optimize")

			runner, err := a.newRunner()
			if err != nil {
				return err
			}
			run, err := runner.Run(params)
			if err != nil {
				return err
			}

			if err := output.Write(cmd.OutOrStdout(), format, run); err != nil {
				return eris.Wrap(err, "failed to write results")
			}

			if exportPath != "" {
				if err := export.WriteFile(exportPath, run); err != nil {
					return err
				}
				a.logger.Info("report written",
					zap.String("op", "main.optimize"),
					zap.String("runId", run.ID),
					zap.String("path", exportPath),
				)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.Float64Var(&cutLength, "cut-length", 0, "finished piece length in meters")
	flags.IntVar(&holes, "holes", 1, "number of die holes")
	flags.Float64Var(&kgPerMeter, "kg-per-m", 0, "profile mass per meter of one strand")
	flags.BoolVar(&etching, "etching", false, "caustic etching (rounds pieces down one further)")
	flags.Float64Var(&buttWeight, "butt-weight", 0, "butt weight in kg (at least 1)")
	flags.StringVarP(&outputFormat, "output-format", "o", "", "output format override: pretty, csv, json")
	flags.StringVarP(&exportPath, "export", "e", "", "also write a report to this .xlsx, .pdf or .csv file")

	return cmd
}
