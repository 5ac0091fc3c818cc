package reflection

import (
	"strings"
	"testing"
)

func words(n int) string {
	// Distinct words so no trigram repeats.
	parts := make([]string, n)
	for i := range parts {
		parts[i] = "w" + strings.Repeat("x", i%7) + string(rune('a'+i%26))
	}
	return strings.Join(parts, " ")
}

func TestCountWords(t *testing.T) {
	cases := []struct {
		text string
		want int
	}{
		{"", 0},
		{"   ", 0},
		{"one", 1},
		{"one two three", 3},
		{"  one\t two \n three  ", 3},
	}
	for _, c := range cases {
		if got := CountWords(c.text); got != c.want {
			t.Fatalf("CountWords(%q) = %d, want %d", c.text, got, c.want)
		}
	}
}

func TestCountWordsWhitespaceInvariant(t *testing.T) {
	base := "reflection on how the assistant shaped my solution"
	padded := strings.ReplaceAll(base, " ", " \t  \n ")
	if CountWords(base) != CountWords(padded) {
		t.Fatalf("word count changed under extra whitespace: %d vs %d",
			CountWords(base), CountWords(padded))
	}
}

func TestHasRepetitionTrigram(t *testing.T) {
	cfg := DefaultConfig()
	text := "the quick brown fox jumped over the quick brown fox jumped over"
	if !HasRepetition(text, cfg) {
		t.Fatal("expected repetition for repeated trigram")
	}
}

func TestHasRepetitionShortText(t *testing.T) {
	cfg := DefaultConfig()
	// Fewer than NgramSize*MinRepetitions = 6 words never flags,
	// even when literally repeated.
	if HasRepetition("again again again again again", cfg) {
		t.Fatal("texts under 6 words must not flag repetition")
	}
}

func TestHasRepetitionVariedText(t *testing.T) {
	cfg := DefaultConfig()
	if HasRepetition(words(180), cfg) {
		t.Fatal("varied 180-word text should not flag repetition")
	}
}

func TestHasRepetitionCaseInsensitive(t *testing.T) {
	cfg := DefaultConfig()
	text := "The Quick Brown fence stood while the quick brown fence stood while"
	if !HasRepetition(text, cfg) {
		t.Fatal("repetition detection should lowercase before matching")
	}
}

func TestValidatePromptTooShort(t *testing.T) {
	cfg := DefaultConfig()
	res := ValidatePrompt(words(10), cfg)
	if res.Valid {
		t.Fatal("10 words should not be valid")
	}
	if res.MeetsMinWords {
		t.Fatal("10 words should not meet the minimum")
	}
	if len(res.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d: %v", len(res.Errors), res.Errors)
	}
}

func TestValidatePromptBothErrorsOrdered(t *testing.T) {
	cfg := DefaultConfig()
	// Short AND repetitive: both messages, word-count first.
	res := ValidatePrompt("so I used it so I used it", cfg)
	if res.Valid {
		t.Fatal("expected invalid")
	}
	if len(res.Errors) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(res.Errors), res.Errors)
	}
	if !strings.Contains(res.Errors[0], "words") {
		t.Fatalf("first error should be the word-count message, got %q", res.Errors[0])
	}
	if !strings.Contains(res.Errors[1], "repeated") {
		t.Fatalf("second error should be the repetition message, got %q", res.Errors[1])
	}
}

func TestValidatePromptValid(t *testing.T) {
	cfg := DefaultConfig()
	res := ValidatePrompt(words(30), cfg)
	if !res.Valid {
		t.Fatalf("30 varied words should be valid, errors: %v", res.Errors)
	}
	if res.WordCount != 30 {
		t.Fatalf("expected word count 30, got %d", res.WordCount)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("expected no errors, got %v", res.Errors)
	}
}

func TestValidateBothPrompts(t *testing.T) {
	cfg := DefaultConfig()
	good := words(40)

	res := Validate(good, good, cfg)
	if !res.Valid {
		t.Fatal("two valid prompts should combine to valid")
	}

	res = Validate(good, words(5), cfg)
	if res.Valid {
		t.Fatal("one invalid prompt should make the combination invalid")
	}
	if !res.Prompt1.Valid || res.Prompt2.Valid {
		t.Fatal("per-prompt validity should be independent")
	}
}
