package translate

import "unicode/utf8"

// Stats summarizes one translation run. A cell counts as translated iff its
// output differs from its input, regardless of whether a provider call was
// made; a call that returns identical text counts as skipped.
type Stats struct {
	TotalCells       int
	TranslatedCells  int
	SkippedCells     int
	OriginalChars    int
	TranslatedChars  int
	AvgOriginalLen   float64
	AvgTranslatedLen float64
}

// ComputeStats compares originals with their translations pairwise. Lengths
// are measured in runes. If the slices differ in length, the extra tail is
// ignored.
func ComputeStats(originals, translateds []string) Stats {
	n := min(len(originals), len(translateds))

	s := Stats{TotalCells: n}
	for i := 0; i < n; i++ {
		s.OriginalChars += utf8.RuneCountInString(originals[i])
		s.TranslatedChars += utf8.RuneCountInString(translateds[i])
		if originals[i] != translateds[i] {
			s.TranslatedCells++
		} else {
			s.SkippedCells++
		}
	}
	if n > 0 {
		s.AvgOriginalLen = float64(s.OriginalChars) / float64(n)
		s.AvgTranslatedLen = float64(s.TranslatedChars) / float64(n)
	}
	return s
}
