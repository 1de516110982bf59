package services

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitText_SingleShortDocument(t *testing.T) {
	processor := NewDocumentProcessor(1000, 100)

	chunks, err := processor.SplitText("Diabetes is a chronic condition. It affects how the body processes glucose.")
	require.NoError(t, err)

	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "Diabetes is a chronic condition.")
	assert.Contains(t, chunks[0], "processes glucose.")
}

func TestSplitText_RespectsChunkSize(t *testing.T) {
	processor := NewDocumentProcessor(120, 0)

	var b strings.Builder
	for i := 0; i < 20; i++ {
		b.WriteString("Aspirin reduces fever and relieves mild pain. ")
	}

	chunks, err := processor.SplitText(b.String())
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 120, "chunk %d exceeds size limit", i)
	}
}

func TestSplitText_OverlapCarriesTrailingSentence(t *testing.T) {
	processor := NewDocumentProcessor(120, 60)

	text := "First sentence about insulin dosing. Second sentence about meal timing. " +
		"Third sentence about glucose monitoring. Fourth sentence about exercise."

	chunks, err := processor.SplitText(text)
	require.NoError(t, err)
	require.Greater(t, len(chunks), 1)

	// the chunk following a flush starts with the previous chunk's tail
	first := chunks[0]
	second := chunks[1]
	lastSentenceOfFirst := first[strings.LastIndex(first, ". ")+2:]
	assert.True(t, strings.HasPrefix(second, lastSentenceOfFirst),
		"expected %q to start with overlap %q", second, lastSentenceOfFirst)
}

func TestSplitText_EmptyInput(t *testing.T) {
	processor := NewDocumentProcessor(1000, 100)

	_, err := processor.SplitText("   \n\t  ")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty")
}

func TestSplitText_OversizedSentenceHardSplit(t *testing.T) {
	processor := NewDocumentProcessor(50, 10)

	long := strings.Repeat("x", 130)
	chunks, err := processor.SplitText(long)
	require.NoError(t, err)

	require.Len(t, chunks, 3)
	assert.Equal(t, 50, len(chunks[0]))
	assert.Equal(t, 50, len(chunks[1]))
	assert.Equal(t, 30, len(chunks[2]))
}

func TestHardSplit_ExactMultiple(t *testing.T) {
	pieces := hardSplit(strings.Repeat("a", 100), 50)
	assert.Len(t, pieces, 2)
}

func TestHardSplit_NeverCutsRunes(t *testing.T) {
	text := strings.Repeat("痛", 60) // 3 bytes per rune, no 50-byte boundary aligns
	pieces := hardSplit(text, 50)

	require.NotEmpty(t, pieces)
	var rejoined strings.Builder
	for i, piece := range pieces {
		assert.True(t, utf8.ValidString(piece), "piece %d holds a partial rune", i)
		assert.LessOrEqual(t, len(piece), 50)
		rejoined.WriteString(piece)
	}
	assert.Equal(t, text, rejoined.String())
}
