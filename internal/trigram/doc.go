// Package trigram turns text into character-trigram features.
//
// The pipeline has three pure steps:
//
//   - Extract decodes the text into units (one codepoint each, ASCII letters and
//     Latin-1 accented capitals folded to lower case, ASCII punctuation collapsed
//     to a space) and counts every three-unit window.
//   - Rank orders the counts (count descending, trigram ascending byte-wise) and
//     keeps the first threshold entries as a RankTable.
//   - Distance compares two rank tables. It is asymmetric: only the trigrams of
//     the target are visited.
//
// No function in this package keeps state between calls.
package trigram
