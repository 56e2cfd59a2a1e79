package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/tethersim/internal/automation"
	"github.com/san-kum/tethersim/internal/viz"
)

func scenarioCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "scenario <file>",
		Short: "run the steps of a yaml scenario in order",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := automation.LoadScenario(args[0])
			if err != nil {
				return err
			}
			outcomes, err := automation.Run(cmd.Context(), s, logger)
			if err != nil {
				return err
			}

			if s.Description != "" {
				fmt.Printf("%s: %s\n\n", s.Name, s.Description)
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			fmt.Fprint(w, "step\tsamples")
			for _, m := range compareMetrics {
				fmt.Fprintf(w, "\t%s", m)
			}
			fmt.Fprintln(w)
			failed := 0
			for _, o := range outcomes {
				if o.Err != nil {
					failed++
					fmt.Fprintf(w, "%s\terror: %v\n", o.Name, o.Err)
					continue
				}
				fmt.Fprintf(w, "%s\t%d", o.Name, o.Result.Len())
				for _, m := range compareMetrics {
					fmt.Fprintf(w, "\t%s", viz.FormatMetric(m, o.Result.Metrics[m]))
				}
				fmt.Fprintln(w)
			}
			if err := w.Flush(); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d steps failed", failed, len(outcomes))
			}
			return nil
		},
	}
}
