package main

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"trilang/internal/detect"
	"trilang/internal/iso639"
)

func newLanguagesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "languages [--exists language...]",
		Short: "List the active languages",
		RunE:  languagesExecution,
	}
	cmd.Flags().Bool("count", false, "print only the number of active languages")
	cmd.Flags().Bool("exists", false, "report whether every argument is an active language")
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.MarkFlagsMutuallyExclusive("count", "exists")
	return cmd
}

type languageJSON struct {
	Label string `json:"label"`
	Name  string `json:"name"`
	ISO2  string `json:"iso2,omitempty"`
	ISO3  string `json:"iso3,omitempty"`
	Tag   string `json:"tag,omitempty"`
}

func languagesExecution(cmd *cobra.Command, args []string) (err error) {
	format, _ := cmd.Flags().GetString("format")
	if format, err = checkFormat(format); err != nil {
		return err
	}
	count, _ := cmd.Flags().GetBool("count")
	exists, _ := cmd.Flags().GetBool("exists")
	if len(args) > 0 && !exists {
		return fmt.Errorf("unexpected arguments; did you mean --exists?")
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

	switch {
	case count:
		n, err := d.LanguageCount()
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(s.out(), map[string]int{"count": n})
		}
		fmt.Fprintln(s.out(), n)
		return nil
	case exists:
		ok, err := d.LanguageExists(args...)
		if err != nil {
			return err
		}
		if format == "json" {
			return writeJSON(s.out(), map[string]bool{"exists": ok})
		}
		fmt.Fprintln(s.out(), strconv.FormatBool(ok))
		return nil
	}

	labels, err := d.Languages()
	if err != nil {
		return err
	}
	rows := make([]languageJSON, len(labels))
	for i, label := range labels {
		rows[i] = describeLanguage(label, d.NameMode())
	}
	if format == "json" {
		return writeJSON(s.out(), rows)
	}

	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderRow(false).
		Headers("NAME", "ISO 639-1", "ISO 639-2", "TAG")
	for _, r := range rows {
		t.Row(r.Name, dash(r.ISO2), dash(r.ISO3), dash(r.Tag))
	}
	fmt.Fprintln(s.out(), t.Render())
	s.info("%d languages", len(rows))
	return nil
}

// describeLanguage maps a label of the current name mode back to the
// database name and its codes.
func describeLanguage(label string, names detect.NameMode) languageJSON {
	out := languageJSON{Label: label, Name: label}
	if names != detect.NameModeName {
		if name, ok := iso639.NameForCode(label); ok {
			out.Name = name
		}
	}
	out.ISO2, _ = iso639.Code2(out.Name)
	out.ISO3, _ = iso639.Code3(out.Name)
	if tag, ok := iso639.Tag(out.Name); ok {
		out.Tag = tag.String()
	}
	return out
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
