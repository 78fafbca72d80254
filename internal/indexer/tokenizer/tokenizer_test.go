package tokenizer

import (
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	cases := []struct {
		name string
		text string
		want []string
	}{
		{
			name: "simple whitespace split",
			text: "the cat sat",
			want: []string{"the", "cat", "sat"},
		},
		{
			name: "lowercasing",
			text: "The CAT Sat",
			want: []string{"the", "cat", "sat"},
		},
		{
			name: "punctuation stripped from both ends",
			text: `"Hello," she said.`,
			want: []string{"hello", "she", "said"},
		},
		{
			name: "interior punctuation preserved",
			text: "it's a test-case",
			want: []string{"it's", "a", "test-case"},
		},
		{
			name: "digits kept",
			text: "error 404 occurred",
			want: []string{"error", "404", "occurred"},
		},
		{
			name: "pure punctuation tokens dropped",
			text: "a -- b !!! c",
			want: []string{"a", "b", "c"},
		},
		{
			name: "mixed whitespace",
			text: "one\ttwo\nthree   four",
			want: []string{"one", "two", "three", "four"},
		},
		{
			name: "empty input",
			text: "",
			want: []string{},
		},
		{
			name: "only punctuation",
			text: "... !!! ???",
			want: []string{},
		},
		{
			name: "unicode letters survive",
			text: "Łódź café",
			want: []string{"łódź", "café"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := Tokenize(tc.text)
			if len(got) == 0 && len(tc.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("Tokenize(%q) = %v, want %v", tc.text, got, tc.want)
			}
		})
	}
}

// TestTokenizeIdempotent verifies that re-tokenizing already normalised
// tokens is a no-op, which is what makes query-side and ingestion-side
// tokenisation interchangeable.
func TestTokenizeIdempotent(t *testing.T) {
	inputs := []string{
		"The Quick, Brown Fox!",
		"BM25 ranking (with length-normalisation).",
		"  spaced   out   text  ",
	}
	for _, text := range inputs {
		once := Tokenize(text)
		for _, token := range once {
			again := Tokenize(token)
			if len(again) != 1 || again[0] != token {
				t.Errorf("token %q not stable under re-tokenisation: got %v", token, again)
			}
		}
	}
}

func TestDistinct(t *testing.T) {
	got := Distinct([]string{"b", "a", "b", "c", "a"})
	want := []string{"b", "a", "c"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Distinct = %v, want %v (first-occurrence order)", got, want)
	}

	if d := Distinct(nil); len(d) != 0 {
		t.Errorf("Distinct(nil) = %v, want empty", d)
	}
}
