package translate

import "testing"

func TestComputeStats(t *testing.T) {
	originals := []string{"Hello world", "x = 1", "Goodbye"}
	translateds := []string{"안녕하세요 세계", "x = 1", "안녕히 가세요"}

	s := ComputeStats(originals, translateds)

	if s.TotalCells != 3 {
		t.Errorf("TotalCells = %d, want 3", s.TotalCells)
	}
	if s.TranslatedCells != 2 {
		t.Errorf("TranslatedCells = %d, want 2", s.TranslatedCells)
	}
	if s.SkippedCells != 1 {
		t.Errorf("SkippedCells = %d, want 1", s.SkippedCells)
	}
	// Rune counts: 11 + 5 + 7 = 23 original, 8 + 5 + 7 = 20 translated.
	if s.OriginalChars != 23 {
		t.Errorf("OriginalChars = %d, want 23", s.OriginalChars)
	}
	if s.TranslatedChars != 20 {
		t.Errorf("TranslatedChars = %d, want 20", s.TranslatedChars)
	}
	if s.AvgOriginalLen == 0 || s.AvgTranslatedLen == 0 {
		t.Errorf("averages not computed: %+v", s)
	}
}

func TestComputeStats_Empty(t *testing.T) {
	s := ComputeStats(nil, nil)
	if s.TotalCells != 0 || s.AvgOriginalLen != 0 {
		t.Errorf("zero-input stats = %+v, want zeros", s)
	}
}

func TestComputeStats_MismatchedLengths(t *testing.T) {
	s := ComputeStats([]string{"a", "b", "c"}, []string{"x"})
	if s.TotalCells != 1 {
		t.Errorf("TotalCells = %d, want 1 (shorter list)", s.TotalCells)
	}
	if s.TranslatedCells != 1 {
		t.Errorf("TranslatedCells = %d, want 1", s.TranslatedCells)
	}
}
