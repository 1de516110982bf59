package services

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jdkato/prose/v2"
)

// DocumentProcessor splits document text into overlapping chunks on
// sentence boundaries so chunks stay coherent for retrieval.
type DocumentProcessor struct {
	chunkSize    int
	chunkOverlap int
}

// NewDocumentProcessor creates a processor with the given character limit per chunk
func NewDocumentProcessor(chunkSize, chunkOverlap int) *DocumentProcessor {
	return &DocumentProcessor{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

// SplitText splits text into chunks of at most chunkSize characters,
// carrying roughly chunkOverlap characters of trailing sentences into
// the next chunk.
func (p *DocumentProcessor) SplitText(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("text is empty")
	}

	sentences, err := p.segment(text)
	if err != nil {
		return nil, err
	}

	var chunks []string
	var current []string
	currentLen := 0

	flush := func() {
		if len(current) == 0 {
			return
		}
		chunks = append(chunks, strings.Join(current, " "))

		// Seed the next chunk with trailing sentences as overlap
		var tail []string
		tailLen := 0
		for i := len(current) - 1; i >= 0 && p.chunkOverlap > 0; i-- {
			l := len(current[i])
			if tailLen+l > p.chunkOverlap {
				break
			}
			tail = append([]string{current[i]}, tail...)
			tailLen += l + 1
		}
		current = tail
		currentLen = tailLen
	}

	for _, sentence := range sentences {
		if len(sentence) > p.chunkSize {
			// A single oversized sentence gets hard-split
			flush()
			current = nil
			currentLen = 0
			for _, piece := range hardSplit(sentence, p.chunkSize) {
				chunks = append(chunks, piece)
			}
			continue
		}

		if currentLen+len(sentence)+1 > p.chunkSize {
			flush()
		}
		current = append(current, sentence)
		currentLen += len(sentence) + 1
	}

	if len(current) > 0 {
		// Avoid emitting a final chunk that is pure overlap
		joined := strings.Join(current, " ")
		if len(chunks) == 0 || !strings.HasSuffix(chunks[len(chunks)-1], joined) {
			chunks = append(chunks, joined)
		}
	}

	return chunks, nil
}

// segment splits text into sentences. Tagging and entity extraction
// are disabled since only segmentation is needed.
func (p *DocumentProcessor) segment(text string) ([]string, error) {
	doc, err := prose.NewDocument(text,
		prose.WithTagging(false),
		prose.WithExtraction(false),
	)
	if err != nil {
		return nil, fmt.Errorf("sentence segmentation failed: %w", err)
	}

	raw := doc.Sentences()
	sentences := make([]string, 0, len(raw))
	for _, s := range raw {
		if trimmed := strings.TrimSpace(s.Text); trimmed != "" {
			sentences = append(sentences, trimmed)
		}
	}

	if len(sentences) == 0 {
		sentences = []string{text}
	}

	return sentences, nil
}

// hardSplit cuts s into pieces of at most size bytes, backing cuts up
// to rune boundaries so no piece holds a partial rune.
func hardSplit(s string, size int) []string {
	var pieces []string
	for len(s) > size {
		cut := size
		for cut > 0 && !utf8.RuneStart(s[cut]) {
			cut--
		}
		if cut == 0 {
			// size is smaller than the first rune; emit it whole
			_, cut = utf8.DecodeRuneInString(s)
		}
		pieces = append(pieces, s[:cut])
		s = s[cut:]
	}
	if s != "" {
		pieces = append(pieces, s)
	}
	return pieces
}
