package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trilang/internal/scoring"
)

func newSimilarityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "similarity [language [language]]",
		Short: "Compare language profiles with each other",
		Long: `With two languages, print their similarity.
With one, score every other active language against it.
Without arguments, print the similarity matrix of all active languages.`,
		Args: cobra.MaximumNArgs(2),
		RunE: similarityExecution,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func similarityExecution(cmd *cobra.Command, args []string) (err error) {
	format, _ := cmd.Flags().GetString("format")
	if format, err = checkFormat(format); err != nil {
		return err
	}

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	d, err := s.openDetector()
	if err != nil {
		return err
	}
	mode := d.Mode()
	idx := s.timer.Begin("similarity")
	defer func() { s.timer.End(idx, 0, "") }()

	switch len(args) {
	case 2:
		score, ok, err := d.Similarity(s.ctx, args[0], args[1])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unknown or inactive language: %s or %s", args[0], args[1])
		}
		if format == "json" {
			return writeJSON(s.out(), map[string]any{"a": args[0], "b": args[1], "score": score})
		}
		fmt.Fprintln(s.out(), formatScore(score, mode))
		return nil

	case 1:
		results, ok, err := d.SimilarityTo(s.ctx, args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("unknown or inactive language: %s", args[0])
		}
		if format == "json" {
			return writeJSON(s.out(), results)
		}
		renderResults(s.out(), results, mode)
		return nil
	}

	m, err := d.SimilarityMatrix(s.ctx)
	if err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(s.out(), m)
	}
	renderMatrix(s.out(), m, mode)
	return nil
}

func renderMatrix(out io.Writer, m *scoring.Matrix, mode scoring.Mode) {
	names := m.Names()
	width := 6
	for _, n := range names {
		width = max(width, len(n))
	}
	fmt.Fprintf(out, "%-*s", width, "")
	for _, n := range names {
		fmt.Fprintf(out, " %s", labelColor.Sprint(fmt.Sprintf("%*s", width, n)))
	}
	fmt.Fprintln(out)
	for i, row := range names {
		fmt.Fprintf(out, "%-*s", width, row)
		for j := range names {
			cell := "-"
			if i != j {
				cell = formatScore(m.At(i, j), mode)
			}
			fmt.Fprintf(out, " %*s", width, cell)
		}
		fmt.Fprintln(out)
	}
}
