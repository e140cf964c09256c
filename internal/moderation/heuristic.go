package moderation

import (
	"context"
	"regexp"
	"strings"
)

// HeuristicGate is the deterministic reference implementation of Gate: a fixed
// denylist plus a creativity scorer. It exists so the platform is safe and
// testable without a hosted classifier; a learned model can replace it behind
// the same interface.
type HeuristicGate struct{}

// NewHeuristicGate returns the built-in deterministic gate.
func NewHeuristicGate() *HeuristicGate {
	return &HeuristicGate{}
}

// blockedPatterns match content that is never acceptable at any roast level:
// slurs, threats, harassment, sexual content.
var blockedPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bkill (?:your|ur)self\b`),
	regexp.MustCompile(`(?i)\bkys\b`),
	regexp.MustCompile(`(?i)\bi(?:'ll| will)? (?:kill|hurt|find) you\b`),
	regexp.MustCompile(`(?i)\bgo die\b`),
	regexp.MustCompile(`(?i)\byou (?:should|deserve to) die\b`),
	regexp.MustCompile(`(?i)\b(?:nude|naked|nsfw|porn)\b`),
	regexp.MustCompile(`(?i)\brape\b`),
	regexp.MustCompile(`(?i)\b(?:retard|retarded)\b`),
	regexp.MustCompile(`(?i)\bf[a4]g(?:got)?\b`),
	regexp.MustCompile(`(?i)\bn[i1]gg`),
	regexp.MustCompile(`(?i)\btr[a4]nn(?:y|ie)\b`),
	regexp.MustCompile(`(?i)\bwh[o0]re\b`),
	regexp.MustCompile(`(?i)\bslut\b`),
}

// lazyInsults are generic low-effort phrases. Matching the entire (normalized)
// submission against one of these is a rejection: the product promises
// "creative, not cruel" and lazy insults are neither.
var lazyInsults = map[string]struct{}{
	"youre ugly":       {},
	"you are ugly":     {},
	"ur ugly":          {},
	"u ugly":           {},
	"ugly":             {},
	"you suck":         {},
	"u suck":           {},
	"this sucks":       {},
	"you stink":        {},
	"trash":            {},
	"youre trash":      {},
	"you are trash":    {},
	"garbage":          {},
	"youre stupid":     {},
	"you are stupid":   {},
	"ur stupid":        {},
	"stupid":           {},
	"youre dumb":       {},
	"you are dumb":     {},
	"dumb":             {},
	"idiot":            {},
	"youre an idiot":   {},
	"you are an idiot": {},
	"loser":            {},
	"youre a loser":    {},
	"you are a loser":  {},
	"lol":              {},
	"lmao":             {},
	"bad":              {},
	"cringe":           {},
	"fat":              {},
	"youre fat":        {},
	"you are fat":      {},
}

var nonAlnum = regexp.MustCompile(`[^a-z0-9 ]+`)

// normalize lowercases, strips punctuation and collapses whitespace so
// "You're UGLY!!!" and "youre ugly" land on the same key.
func normalize(text string) string {
	s := strings.ToLower(text)
	s = strings.ReplaceAll(s, "'", "")
	s = nonAlnum.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

func (g *HeuristicGate) EvaluateText(ctx context.Context, text, roastLevel string) (TextResult, error) {
	if err := ctx.Err(); err != nil {
		return TextResult{}, err
	}

	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return TextResult{Accepted: false, Reason: "Roast text is empty"}, nil
	}
	if len(trimmed) > 500 {
		return TextResult{Accepted: false, Reason: "Roast too long (max 500 characters)"}, nil
	}

	for _, pattern := range blockedPatterns {
		if pattern.MatchString(trimmed) {
			return TextResult{Accepted: false, Reason: "Your roast violates the community guidelines"}, nil
		}
	}

	norm := normalize(trimmed)
	if _, lazy := lazyInsults[norm]; lazy {
		return TextResult{Accepted: false, Reason: "Too generic. Be creative, not cruel."}, nil
	}
	words := strings.Fields(norm)
	if len(words) < 3 {
		return TextResult{Accepted: false, Reason: "Too short. Give it some effort."}, nil
	}

	return TextResult{Accepted: true, Score: scoreText(words, roastLevel)}, nil
}

// scoreText rates accepted text on a 0-100 scale. The function is a pure
// computation over the normalized words and the roast level, so identical
// input always yields an identical score.
func scoreText(words []string, roastLevel string) int {
	total := len(words)

	unique := make(map[string]struct{}, total)
	letterCount := 0
	longWords := 0
	for _, w := range words {
		unique[w] = struct{}{}
		letterCount += len(w)
		if len(w) >= 7 {
			longWords++
		}
	}

	// Vocabulary diversity: all-distinct words score full marks.
	diversity := float64(len(unique)) / float64(total) // (0,1]

	// Length shaping: reward the 6-25 word sweet spot, taper outside it.
	var lengthFactor float64
	switch {
	case total < 6:
		lengthFactor = float64(total) / 6.0
	case total <= 25:
		lengthFactor = 1.0
	default:
		lengthFactor = 25.0 / float64(total)
	}

	// Word sophistication: average word length and share of long words.
	avgLen := float64(letterCount) / float64(total)
	sophistication := avgLen/8.0 + float64(longWords)/float64(total)
	if sophistication > 1.0 {
		sophistication = 1.0
	}

	raw := 45*diversity + 30*lengthFactor + 25*sophistication

	switch roastLevel {
	case "soft":
		raw *= 0.9
	case "savage":
		raw *= 1.1
	}

	score := int(raw + 0.5)
	if score > 100 {
		score = 100
	}
	if score < 1 {
		score = 1
	}
	return score
}

func (g *HeuristicGate) EvaluateImage(ctx context.Context, data []byte, mimeType string) (ImageResult, error) {
	if err := ctx.Err(); err != nil {
		return ImageResult{}, err
	}

	if len(data) == 0 {
		return ImageResult{Accepted: false, Reason: "Empty image"}, nil
	}
	switch mimeType {
	case "image/jpeg", "image/png", "image/gif", "image/webp":
		return ImageResult{Accepted: true}, nil
	}
	return ImageResult{Accepted: false, Reason: "Unsupported image type"}, nil
}
