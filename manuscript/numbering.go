package manuscript

// Renumber walks chapters in logical reading order and assigns 1-based,
// contiguous numbers to numbered body chapters. Every other entry gets its
// number cleared. The traversal is deterministic and idempotent: running it
// twice over the same sequence is a no-op.
func Renumber(seq []*Chapter) {
	n := 0
	for _, ch := range seq {
		if ch.Type == TypeChapter && ch.Numbered {
			n++
			ch.Number = n
		} else {
			ch.Number = 0
		}
	}
}
