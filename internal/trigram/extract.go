package trigram

// Edges selects which synthetic word-boundary trigrams Extract adds at the
// start and the end of the text.
type Edges uint8

const (
	// EdgeLeading adds " "+u0+u1 unless u0 is a space.
	EdgeLeading Edges = 1 << iota
	// EdgeTrailing adds uN-2+uN-1+" " unless uN-1 is a space.
	EdgeTrailing

	EdgesNone Edges = 0
	EdgesAll        = EdgeLeading | EdgeTrailing
)

// Frequencies maps a trigram to the number of times it occurs in one text.
type Frequencies map[string]int

// Extract counts the trigrams of text. Texts shorter than three units yield
// an empty map. Windows with two adjacent spaces are skipped.
func Extract(text string, edges Edges) (Frequencies, error) {
	units, err := Units(text)
	if err != nil {
		return nil, err
	}

	freqs := make(Frequencies)
	if len(units) < 3 {
		return freqs, nil
	}

	a, b := units[0], units[1]
	if edges&EdgeLeading != 0 && a != space {
		freqs[space+a+b]++
	}

	for _, c := range units[2:] {
		if !(b == space && (a == space || c == space)) {
			freqs[a+b+c]++
		}
		a, b = b, c
	}

	if edges&EdgeTrailing != 0 && b != space {
		freqs[a+b+space]++
	}
	return freqs, nil
}

// Profile extracts and ranks text in one step.
func Profile(text string, threshold int, edges Edges) (RankTable, error) {
	freqs, err := Extract(text, edges)
	if err != nil {
		return nil, err
	}
	return Rank(freqs, threshold), nil
}
