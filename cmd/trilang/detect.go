package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"trilang/internal/cluster"
	"trilang/internal/detect"
	"trilang/internal/scoring"
)

var (
	bestColor  = color.New(color.FgGreen, color.Bold)
	noneColor  = color.New(color.FgYellow)
	labelColor = color.New(color.FgCyan)
)

func newDetectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "detect [text...]",
		Short: "Guess the language of a text",
		Long:  "Score the text against every active language. The text is read from stdin when no argument is given.",
		RunE:  detectExecution,
	}
	cmd.Flags().Int("limit", 0, "show at most this many languages (0: all)")
	cmd.Flags().Bool("simple", false, "print only the best language")
	cmd.Flags().Bool("confidence", false, "print the best language with its lead over the runner-up")
	cmd.Flags().Bool("clustered", false, "search the language dendrogram instead of scoring every language")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.MarkFlagsMutuallyExclusive("simple", "confidence", "clustered")
	return cmd
}

func detectExecution(cmd *cobra.Command, args []string) (err error) {
	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return err
	}
	if format, err = checkFormat(format); err != nil {
		return err
	}
	limit, _ := cmd.Flags().GetInt("limit")
	simple, _ := cmd.Flags().GetBool("simple")
	withConfidence, _ := cmd.Flags().GetBool("confidence")
	clustered, _ := cmd.Flags().GetBool("clustered")

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
	if !cmd.Flags().Changed("limit") {
		limit = s.cfg.Detect.Limit
	}

	idx := s.timer.Begin("detect")
	defer func() { s.timer.End(idx, len(sample), "") }()

	switch {
	case simple:
		lang, err := d.DetectSimple(s.ctx, sample)
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(s.out(), map[string]string{"language": lang})
		}
		fmt.Fprintln(s.out(), colorLanguage(lang))
		return nil

	case withConfidence:
		c, ok, err := d.DetectConfidence(s.ctx, sample)
		if err != nil {
			return err
		}
		if !ok {
			c = detect.Confidence{Language: detect.None}
		}
		if format == "json" {
			return writeJSON(s.out(), c)
		}
		renderConfidence(s.out(), c, d.Mode())
		return nil

	case clustered:
		res, err := d.ClusteredSearch(s.ctx, sample)
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(s.out(), searchPayload(res, false))
		}
		fmt.Fprintf(s.out(), "%s %s (%d comparisons)\n",
			colorLanguage(res.Language), formatScore(res.Score, d.Mode()), res.Comparisons)
		return nil
	}

	results, err := d.Detect(s.ctx, sample, limit)
	if err != nil {
		return err
	}
	if format == "json" {
		return writeJSON(s.out(), results)
	}
	renderResults(s.out(), results, d.Mode())
	return nil
}

func renderResults(out io.Writer, results []scoring.Result, mode scoring.Mode) {
	if len(results) == 0 {
		fmt.Fprintln(out, noneColor.Sprint(detect.None))
		return
	}
	width := 0
	for _, r := range results {
		width = max(width, len(r.Language))
	}
	for i, r := range results {
		name := fmt.Sprintf("%-*s", width, r.Language)
		if i == 0 {
			name = bestColor.Sprint(name)
		}
		fmt.Fprintf(out, "%3d. %s  %s\n", i+1, name, formatScore(r.Score, mode))
	}
}

func renderConfidence(out io.Writer, c detect.Confidence, mode scoring.Mode) {
	if c.Language == detect.None {
		fmt.Fprintln(out, noneColor.Sprint(detect.None))
		return
	}
	fmt.Fprintf(out, "%s  similarity %s", bestColor.Sprint(c.Language), formatScore(c.Similarity, mode))
	if c.HasConfidence {
		fmt.Fprintf(out, "  confidence %.4f", c.Confidence)
	}
	fmt.Fprintln(out)
}

func colorLanguage(lang string) string {
	if lang == detect.None {
		return noneColor.Sprint(lang)
	}
	return bestColor.Sprint(lang)
}

// formatScore prints compat scores as the integers they are.
func formatScore(score float64, mode scoring.Mode) string {
	if mode == scoring.ModeCompat {
		return strconv.FormatFloat(score, 'f', 0, 64)
	}
	return strconv.FormatFloat(score, 'f', 4, 64)
}

type searchStep struct {
	Key   string  `json:"key"`
	Score float64 `json:"score"`
}

type searchJSON struct {
	Language    string       `json:"language"`
	Score       float64      `json:"score"`
	Comparisons int          `json:"comparisons"`
	Path        []string     `json:"path,omitempty"`
	Scores      []searchStep `json:"scores,omitempty"`
}

func searchPayload(res cluster.SearchResult, verbose bool) searchJSON {
	out := searchJSON{Language: res.Language, Score: res.Score, Comparisons: res.Comparisons}
	if !verbose {
		return out
	}
	byNode := make(map[cluster.NodeID]string, len(res.Scores))
	for _, sc := range res.Scores {
		byNode[sc.Node] = sc.Key
		out.Scores = append(out.Scores, searchStep{Key: sc.Key, Score: sc.Score})
	}
	for _, id := range res.Path {
		out.Path = append(out.Path, byNode[id])
	}
	return out
}

func writeJSON(out io.Writer, v any) error {
	enc := json.NewEncoder(out)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
