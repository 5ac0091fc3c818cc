package reflection

import (
	"fmt"
	"strings"
)

// #region config

// Config holds tuning knobs for prompt validation.
type Config struct {
	MinWords       int // minimum words per prompt
	NgramSize      int // trigram window for repetition detection
	MinRepetitions int // occurrences of an n-gram that count as repetition
}

// DefaultConfig returns the thresholds used at both the feedback and
// submission call sites. The two sites must share this exact logic.
func DefaultConfig() Config {
	return Config{
		MinWords:       25,
		NgramSize:      3,
		MinRepetitions: 2,
	}
}

// #endregion config

// #region results

// PromptResult is the validation output for a single prompt.
type PromptResult struct {
	WordCount     int
	MeetsMinWords bool
	HasRepetition bool
	Valid         bool
	Errors        []string
}

// Result combines both prompts. Valid iff each prompt is individually valid.
type Result struct {
	Prompt1 PromptResult
	Prompt2 PromptResult
	Valid   bool
}

// #endregion results

// #region word-count

// CountWords counts whitespace-delimited tokens, ignoring empty runs.
// Invariant under arbitrary interior whitespace insertion.
func CountWords(text string) int {
	return len(strings.Fields(text))
}

// #endregion word-count

// #region repetition

// HasRepetition reports whether any n-gram of cfg.NgramSize consecutive
// lowercase words occurs cfg.MinRepetitions or more times. Texts shorter
// than NgramSize*MinRepetitions words never flag (insufficient signal).
func HasRepetition(text string, cfg Config) bool {
	words := strings.Fields(strings.ToLower(text))
	if len(words) < cfg.NgramSize*cfg.MinRepetitions {
		return false
	}
	seen := make(map[string]int)
	for i := 0; i+cfg.NgramSize <= len(words); i++ {
		ngram := strings.Join(words[i:i+cfg.NgramSize], " ")
		seen[ngram]++
		if seen[ngram] >= cfg.MinRepetitions {
			return true
		}
	}
	return false
}

// #endregion repetition

// #region validate

// ValidatePrompt scores a single prompt. Pure, so it is safe to run on
// every text-change event.
func ValidatePrompt(text string, cfg Config) PromptResult {
	wc := CountWords(text)
	meetsMin := wc >= cfg.MinWords
	rep := HasRepetition(text, cfg)

	var errs []string
	if !meetsMin {
		errs = append(errs, fmt.Sprintf("Please write at least %d words (currently %d).", cfg.MinWords, wc))
	}
	if rep {
		errs = append(errs, "Your response appears to contain repeated phrases. Please write a genuine reflection.")
	}

	return PromptResult{
		WordCount:     wc,
		MeetsMinWords: meetsMin,
		HasRepetition: rep,
		Valid:         meetsMin && !rep,
		Errors:        errs,
	}
}

// Validate scores both reflection prompts. This is the single source of
// truth for reflection validity: interactive feedback and the submission
// gate both call it.
func Validate(prompt1, prompt2 string, cfg Config) Result {
	v1 := ValidatePrompt(prompt1, cfg)
	v2 := ValidatePrompt(prompt2, cfg)
	return Result{
		Prompt1: v1,
		Prompt2: v2,
		Valid:   v1.Valid && v2.Valid,
	}
}

// #endregion validate
