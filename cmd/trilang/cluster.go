package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"trilang/internal/cluster"
	"trilang/internal/scoring"
)

func newClusterCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster",
		Short: "Group the active languages into a similarity dendrogram",
		Args:  cobra.NoArgs,
		RunE:  clusterExecution,
	}
	cmd.Flags().String("format", "pretty", "output format (pretty|json)")
	cmd.Flags().Bool("merges", false, "list the merges in build order instead of the tree")
	return cmd
}

func clusterExecution(cmd *cobra.Command, _ []string) (err error) {
	format, _ := cmd.Flags().GetString("format")
	if format, err = checkFormat(format); err != nil {
		return err
	}
	listMerges, _ := cmd.Flags().GetBool("merges")

	s, err := startSession(cmd)
	if err != nil {
		return err
	}
	defer func() { err = s.finish(err) }()

	d, err := s.openDetector()
	if err != nil {
		return err
	}
	idx := s.timer.Begin("cluster")
	dg, err := d.ClusterLanguages(s.ctx)
	if err != nil {
		return err
	}
	s.timer.End(idx, len(dg.Merges()), "merges")

	if format == "json" {
		return writeJSON(s.out(), clusterPayload(dg, d.Label))
	}
	if listMerges {
		renderMerges(s.out(), dg, d.Label)
		return nil
	}
	for _, root := range dg.Roots() {
		renderTree(s.out(), dg, root, "", "", d.Label)
	}
	return nil
}

type treeJSON struct {
	Key       string      `json:"key"`
	Iteration int         `json:"iteration,omitempty"`
	Score     *float64    `json:"score,omitempty"`
	Children  []*treeJSON `json:"children,omitempty"`
}

type mergeJSON struct {
	Iteration int     `json:"iteration"`
	Key       string  `json:"key"`
	Score     float64 `json:"score"`
	Diff      float64 `json:"diff"`
}

type clusterJSON struct {
	Mode   string      `json:"mode"`
	Merges []mergeJSON `json:"merges"`
	Roots  []*treeJSON `json:"roots"`
}

func clusterPayload(dg *cluster.Dendrogram, label func(string) string) clusterJSON {
	out := clusterJSON{Mode: dg.Mode().String(), Merges: []mergeJSON{}}
	for _, id := range dg.Merges() {
		n := dg.Node(id)
		out.Merges = append(out.Merges, mergeJSON{
			Iteration: n.Iteration,
			Key:       dg.Label(id, label),
			Score:     n.Score,
			Diff:      n.Diff,
		})
	}
	var build func(id cluster.NodeID) *treeJSON
	build = func(id cluster.NodeID) *treeJSON {
		n := dg.Node(id)
		t := &treeJSON{Key: dg.Label(id, label)}
		if !n.IsLeaf() {
			score := n.Score
			t.Iteration, t.Score = n.Iteration, &score
			t.Children = []*treeJSON{build(n.Rep), build(n.Abs)}
		}
		return t
	}
	for _, root := range dg.Roots() {
		out.Roots = append(out.Roots, build(root))
	}
	return out
}

func renderMerges(out io.Writer, dg *cluster.Dendrogram, label func(string) string) {
	mode := dg.Mode()
	for _, id := range dg.Merges() {
		n := dg.Node(id)
		fmt.Fprintf(out, "#%-3d %s  score %s  diff %s\n",
			n.Iteration, labelColor.Sprint(dg.Label(id, label)), formatScore(n.Score, mode), formatDiff(n.Diff, mode))
	}
}

func formatDiff(diff float64, mode scoring.Mode) string {
	if mode == scoring.ModeCompat {
		return fmt.Sprintf("%.0f", diff)
	}
	return fmt.Sprintf("%.4f", diff)
}

// renderTree prints the fork under id, representative child first.
func renderTree(out io.Writer, dg *cluster.Dendrogram, id cluster.NodeID, prefix, branch string, label func(string) string) {
	n := dg.Node(id)
	key := dg.Label(id, label)
	if n.IsLeaf() {
		fmt.Fprintf(out, "%s%s%s\n", prefix, branch, key)
		return
	}
	fmt.Fprintf(out, "%s%s%s  %s\n", prefix, branch, labelColor.Sprint(key), formatScore(n.Score, dg.Mode()))

	childPrefix := prefix
	switch branch {
	case "├─ ":
		childPrefix += "│  "
	case "└─ ":
		childPrefix += "   "
	}
	renderTree(out, dg, n.Rep, childPrefix, "├─ ", label)
	renderTree(out, dg, n.Abs, childPrefix, "└─ ", label)
}
