package main

import (
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/san-kum/tethersim/internal/thrust"
	"github.com/san-kum/tethersim/internal/viz"
)

var (
	recordStep  float64
	outPath     string
	description string
)

func thrustCommand() *cobra.Command {
	thrustCmd := &cobra.Command{
		Use:   "thrust",
		Short: "inspect and prepare measured thrust data",
	}
	thrustCmd.PersistentFlags().Float64Var(&recordStep, "step", thrust.DefaultStepMs, "record spacing (ms)")

	inspectCmd := &cobra.Command{
		Use:   "inspect <location>",
		Short: "summarize a thrust document (file or URL)",
		Args:  cobra.ExactArgs(1),
		RunE:  inspectThrust,
	}

	convertCmd := &cobra.Command{
		Use:   "convert <csv>",
		Short: "convert an attempts CSV into a thrust document",
		Args:  cobra.ExactArgs(1),
		RunE:  convertThrust,
	}
	convertCmd.Flags().StringVar(&outPath, "out", "", "output file (default stdout)")
	convertCmd.Flags().StringVar(&description, "description", "Thrust decay data with integrated values", "document description")

	analyzeCmd := &cobra.Command{
		Use:   "analyze <csv>",
		Short: "report repeatability across the attempts in a CSV",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeThrust,
	}

	thrustCmd.AddCommand(inspectCmd, convertCmd, analyzeCmd)
	return thrustCmd
}

func inspectThrust(cmd *cobra.Command, args []string) error {
	s, err := thrust.NewLoader(recordStep, logger).Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	sum := thrust.Summarize(s)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "samples\t%d\n", sum.Samples)
	fmt.Fprintf(w, "duration\t%.2f s\n", sum.DurationMs/1000)
	fmt.Fprintf(w, "peak thrust\t%.4f N at %.0f ms\n", sum.Peak, sum.PeakTimeMs)
	fmt.Fprintf(w, "final thrust\t%.4f N\n", sum.Final)
	fmt.Fprintf(w, "total decay\t%.4f N\n", sum.Decay)
	fmt.Fprintf(w, "total impulse\t%.4f N·s\n", sum.TotalImpulse)
	if sum.HalfDecayMs >= 0 {
		fmt.Fprintf(w, "50%% decay\t%.2f s\n", sum.HalfDecayMs/1000)
	} else {
		fmt.Fprintf(w, "50%% decay\tnot reached\n")
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(viz.PlotSeries(s.ThrustValues(), viz.DefaultPlotWidth, viz.DefaultPlotHeight, "thrust [N] / t"))
	return nil
}

func convertThrust(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	var out io.Writer = os.Stdout
	if outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	doc, err := thrust.Convert(in, out, recordStep, description)
	if err != nil {
		return err
	}
	if outPath != "" {
		fmt.Fprintf(os.Stderr, "wrote %d records (%.4f N·s) to %s\n", len(doc.Data), doc.TotalImpulse, outPath)
	}
	return nil
}

func analyzeThrust(cmd *cobra.Command, args []string) error {
	in, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer in.Close()

	a, err := thrust.ReadAttempts(in, recordStep)
	if err != nil {
		return err
	}
	rep, err := thrust.Analyze(a)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "attempt\tpeak [N]\tmin [N]\timpulse [N·s]\tmean [N]\tstd dev [N]")
	for i, at := range rep.Attempts {
		fmt.Fprintf(w, "%d\t%.3f\t%.3f\t%.3f\t%.3f\t%.3f\n", i+1, at.Peak, at.Min, at.Impulse, at.Mean, at.StdDev)
	}
	fmt.Fprintln(w)
	fmt.Fprintf(w, "peak thrust CV\t%.2f%%\t%s\n", rep.PeakCV, thrust.GradeCV(rep.PeakCV))
	fmt.Fprintf(w, "total impulse CV\t%.2f%%\t%s\n", rep.ImpulseCV, thrust.GradeCV(rep.ImpulseCV))
	fmt.Fprintf(w, "mean thrust CV\t%.2f%%\t%s\n", rep.MeanCV, thrust.GradeCV(rep.MeanCV))
	fmt.Fprintf(w, "avg correlation\t%.4f\t%s\n", rep.AvgCorrelation, thrust.GradeCorrelation(rep.AvgCorrelation))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Printf("\nvalidity score: %d/4\nassessment: %s\n", rep.Score, rep.Assessment)
	return nil
}
