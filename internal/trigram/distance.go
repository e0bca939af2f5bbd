package trigram

// Distance sums, over every trigram of target, the rank difference to ref, or
// threshold when ref lacks the trigram. Distance(a, b) != Distance(b, a) in
// general: it measures how well ref explains the features of target.
func Distance(ref, target RankTable, threshold int) int {
	sum := 0
	for tri, rank := range target {
		refRank, ok := ref[tri]
		if !ok {
			sum += threshold
			continue
		}
		if d := rank - refRank; d < 0 {
			sum -= d
		} else {
			sum += d
		}
	}
	return sum
}
