package main

import (
	"encoding/json"
	"fmt"

	"github.com/iwvelando/billet-recovery/pkg/constants"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

type candidateInfo struct {
	BilletLength float64 `json:"billetLength"`
	BilletWeight float64 `json:"billetWeight"`
}

func newCandidatesCmd(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "candidates",
		Short: "List the stocked billet lengths and the process constants",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lengths := constants.DefaultCandidates()
			infos := make([]candidateInfo, len(lengths))
			for i, b := range lengths {
				infos[i] = candidateInfo{BilletLength: b, BilletWeight: b * constants.ConversionFactor}
			}

			out := cmd.OutOrStdout()
			if asJSON || a.conf.Output.Format == constants.OutputFormatJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(infos)
			}

			p := message.NewPrinter(language.English)
			_, _ = fmt.Fprintf(out, "Billet (cm) | Weight (kg)\n")
			_, _ = fmt.Fprintf(out, "___________ | ___________\n")
			for _, info := range infos {
				_, _ = p.Fprintf(out, "%11.0f | %11.3f\n", info.BilletLength, info.BilletWeight)
			}
			_, err := p.Fprintf(out, "\n%.4f kg per cm of billet, extrusion limit %.0f m, margin above %.0f%% of the extrusion\n",
				constants.ConversionFactor, constants.MaxExtrusionLength, constants.MarginThreshold*constants.PercentageMultiplier)
			return err
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")
	return cmd
}
