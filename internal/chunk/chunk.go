// Package chunk splits oversized digests into bounded parts and runs the
// map/reduce analysis: summarize each part, then combine the summaries.
package chunk

// EstimateTokens approximates the token count of text (~4 chars per token).
func EstimateTokens(text string) int {
	n := len(text) / 4
	if n < 1 {
		return 1
	}
	return n
}

// Split partitions blob into ordered contiguous chunks of at most maxChars
// bytes. Boundaries may fall mid-line; concatenating the chunks in order
// reproduces blob exactly.
func Split(blob string, maxChars int) []string {
	if maxChars <= 0 || blob == "" {
		return []string{blob}
	}

	chunks := make([]string, 0, len(blob)/maxChars+1)
	for len(blob) > maxChars {
		chunks = append(chunks, blob[:maxChars])
		blob = blob[maxChars:]
	}
	chunks = append(chunks, blob)
	return chunks
}
