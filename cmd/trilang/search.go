package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search [text...]",
		Short: "Classify a text through the language dendrogram and show the descent",
		RunE:  searchExecution,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	return cmd
}

func searchExecution(cmd *cobra.Command, args []string) (err error) {
	format, _ := cmd.Flags().GetString("format")
	if format, err = checkFormat(format); err != nil {
		return err
	}
	sample, err := readSample(cmd, args)
	if err != nil {
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
	idx := s.timer.Begin("search")
	res, err := d.ClusteredSearch(s.ctx, sample)
	if err != nil {
		return err
	}
	s.timer.End(idx, res.Comparisons, "comparisons")

	payload := searchPayload(res, true)
	if format == "json" {
		return writeJSON(s.out(), payload)
	}

	out := s.out()
	fmt.Fprintf(out, "%s %s\n", colorLanguage(res.Language), formatScore(res.Score, d.Mode()))
	if len(payload.Path) > 0 {
		fmt.Fprintln(out, "path:")
		for depth, key := range payload.Path {
			fmt.Fprintf(out, "  %*s%s\n", depth*2, "", labelColor.Sprint(key))
		}
	}
	fmt.Fprintf(out, "%d of %d languages scored\n", res.Comparisons, mustCount(d.LanguageCount()))
	return nil
}

func mustCount(n int, err error) int {
	if err != nil {
		return 0
	}
	return n
}
