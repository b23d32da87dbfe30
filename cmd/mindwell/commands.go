package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"mindwell/internal/config"
	"mindwell/internal/model"
	"mindwell/internal/screening"

	"github.com/spf13/cobra"
)

type rootFlags struct {
	instrument string
}

func newRootCmd() *cobra.Command {
	f := &rootFlags{}

	root := &cobra.Command{
		Use:           "mindwell",
		Short:         "Score and inspect mental health screening instruments",
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	root.PersistentFlags().StringVar(&f.instrument, "instrument", "", "Instrument YAML file (default: built-in assessment)")

	root.AddCommand(newQuestionsCmd(f), newScoreCmd(f), newValidateCmd(f))
	return root
}

func newQuestionsCmd(f *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "questions",
		Short: "Print the question bank with answer values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			inst, sc, err := loadScreener(f.instrument)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s (max score %d)\n", inst.Name, sc.Bank().MaxScore())
			for _, q := range sc.Bank().Questions() {
				fmt.Fprintf(out, "\n%d. %s\n", q.ID, q.Prompt)
				for _, o := range q.Options {
					fmt.Fprintf(out, "   [%d] %s\n", o.Value, o.Text)
				}
			}
			return nil
		},
	}
}

type scoreFlags struct {
	json bool
}

func newScoreCmd(root *rootFlags) *cobra.Command {
	f := &scoreFlags{}

	cmd := &cobra.Command{
		Use:   "score <answer>...",
		Short: "Evaluate one answer value per question, in question order",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := parseAnswers(args)
			if err != nil {
				return err
			}
			inst, sc, err := loadScreener(root.instrument)
			if err != nil {
				return err
			}
			res, err := sc.Evaluate(answers)
			if err != nil {
				return err
			}

			view := model.ResultView{Result: res}
			if res.Level == screening.LevelSevere {
				view.CrisisContacts = inst.CrisisContacts
			}
			if f.json {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(view)
			}
			printResult(cmd.OutOrStdout(), view)
			return nil
		},
	}
	cmd.Flags().BoolVar(&f.json, "json", false, "Print the result as JSON")
	return cmd
}

func newValidateCmd(root *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check an instrument file and print its resolved severity bands",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := root.instrument
			if len(args) == 1 {
				path = args[0]
			}
			inst, sc, err := loadScreener(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s: %d questions, max score %d (%s thresholds)\n",
				inst.Name, sc.Bank().Len(), sc.Bank().MaxScore(), inst.Thresholds.Mode)

			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "LEVEL\tSCORES\tTITLE")
			for _, b := range sc.Scale().Bands() {
				g, _ := sc.Scale().Guidance(b.Level)
				fmt.Fprintf(tw, "%s\t%d-%d\t%s\n", b.Level, b.Min, b.Max, g.Title)
			}
			return tw.Flush()
		},
	}
}

func loadScreener(path string) (*config.Instrument, *screening.Screener, error) {
	inst, err := config.LoadInstrument(path)
	if err != nil {
		return nil, nil, err
	}
	sc, err := inst.Build()
	if err != nil {
		return nil, nil, fmt.Errorf("invalid instrument: %w", err)
	}
	return inst, sc, nil
}

func parseAnswers(args []string) ([]int, error) {
	answers := make([]int, len(args))
	for i, a := range args {
		v, err := strconv.Atoi(a)
		if err != nil {
			return nil, fmt.Errorf("answer %d: %q is not a number", i+1, a)
		}
		answers[i] = v
	}
	return answers, nil
}

func printResult(w io.Writer, v model.ResultView) {
	fmt.Fprintf(w, "Score: %d/%d\n", v.Score, v.MaxScore)
	fmt.Fprintf(w, "Level: %s (%s)\n", v.Level, v.Title)
	if v.Description != "" {
		fmt.Fprintf(w, "\n%s\n", v.Description)
	}
	if len(v.Recommendations) > 0 {
		fmt.Fprintln(w, "\nRecommendations:")
		for _, r := range v.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
	if len(v.CrisisContacts) > 0 {
		fmt.Fprintln(w, "\nIf you are in crisis, reach out now:")
		for _, c := range v.CrisisContacts {
			fmt.Fprintf(w, "  %s: %s\n", c.Name, c.Contact)
		}
	}
}
