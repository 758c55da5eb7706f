package chunk

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSplitLossless(t *testing.T) {
	cases := []struct {
		name     string
		blob     string
		maxChars int
	}{
		{"empty", "", 10},
		{"smaller than chunk", "hello", 10},
		{"exact multiple", strings.Repeat("x", 30), 10},
		{"remainder", strings.Repeat("x", 35), 10},
		{"boundary mid-line", "line one\nline two\nline three\n", 7},
		{"multibyte content split on byte boundary is still lossless", strings.Repeat("héllo wörld ", 100), 13},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			chunks := Split(tc.blob, tc.maxChars)
			if got := strings.Join(chunks, ""); got != tc.blob {
				t.Errorf("concatenated chunks differ from input:\n got %q\nwant %q", got, tc.blob)
			}
			for i, c := range chunks {
				if len(c) > tc.maxChars && tc.maxChars > 0 {
					t.Errorf("chunk %d exceeds max size: %d > %d", i, len(c), tc.maxChars)
				}
			}
		})
	}
}

func TestSplitTripleThreshold(t *testing.T) {
	// A blob of 3×T characters must produce at least 3 chunks of size T.
	const T = 4000
	blob := strings.Repeat("a", 3*T)

	chunks := Split(blob, T)
	if len(chunks) < 3 {
		t.Fatalf("expected at least 3 chunks, got %d", len(chunks))
	}

	want := []string{blob[:T], blob[T : 2*T], blob[2*T:]}
	if diff := cmp.Diff(want, chunks); diff != "" {
		t.Errorf("chunk mismatch (-want +got):\n%s", diff)
	}
}

func TestSplitNonPositiveMax(t *testing.T) {
	chunks := Split("content", 0)
	if len(chunks) != 1 || chunks[0] != "content" {
		t.Errorf("expected single chunk passthrough, got %v", chunks)
	}
}

func TestEstimateTokens(t *testing.T) {
	if got := EstimateTokens(""); got != 1 {
		t.Errorf("empty text should estimate 1 token, got %d", got)
	}
	if got := EstimateTokens(strings.Repeat("x", 400)); got != 100 {
		t.Errorf("400 chars should estimate 100 tokens, got %d", got)
	}
}
