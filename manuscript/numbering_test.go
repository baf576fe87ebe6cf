package manuscript

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenumberIdempotent(t *testing.T) {
	seq := []*Chapter{
		{Type: TypeFrontMatter},
		{Type: TypeChapter, Numbered: true},
		{Type: TypeChapter, Numbered: false, Number: 9}, // stale number must clear
		{Type: TypeChapter, Numbered: true},
		{Type: TypeBackMatter, Number: 4},
	}

	for i := 0; i < 2; i++ {
		Renumber(seq)
		assert.Equal(t, 0, seq[0].Number)
		assert.Equal(t, 1, seq[1].Number)
		assert.Equal(t, 0, seq[2].Number)
		assert.Equal(t, 2, seq[3].Number)
		assert.Equal(t, 0, seq[4].Number)
	}
}
