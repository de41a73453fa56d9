package enrich

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/genai"

	"okapiq/pkg/okapiq/config"
	"okapiq/pkg/okapiq/model"
)

var (
	ownerRoleRE    = regexp.MustCompile(`(?i)\b(owner|ceo|president|founder)\b[\s:–-]*([A-Z][a-z]+(?:\s[A-Z][a-z]+)?)?`)
	successionCues = []string{"retire", "succession", "selling", "exit", "family business"}

	positiveWords = []string{"great", "excellent", "friendly", "professional", "amazing", "love", "best", "reliable", "recommend"}
	negativeWords = []string{"terrible", "rude", "awful", "worst", "overpriced", "disappointed", "unprofessional", "avoid"}
)

// TextAnalysisPass gathers the description/review/bio/about text fields
// of a Business's source-record raw payloads and computes sentiment, key themes, owner
// mentions, and succession cues (spec §4.4 "text analysis"). It uses a
// genai-backed sentiment model when a key is configured, and always has
// a deterministic keyword/regex fallback available.
type TextAnalysisPass struct {
	llmAPIKey string
	llmModel  string
}

func NewTextAnalysisPass(cfg *config.Config) *TextAnalysisPass {
	return &TextAnalysisPass{llmAPIKey: cfg.TextAnalysisLLMAPIKey, llmModel: "gemini-2.0-flash-exp"}
}

func (p *TextAnalysisPass) Apply(ctx context.Context, b *model.Business) bool {
	text := gatherText(b)
	if text == "" {
		return false
	}

	sentiment, provider := p.sentiment(ctx, text)
	themes := keyThemes(text)
	ownerMentions := extractOwnerMentions(text)
	cues := extractSuccessionCues(text)

	b.NLPAnalysis = &model.NLPAnalysis{
		Sentiment:      sentiment,
		KeyThemes:      themes,
		OwnerMentions:  ownerMentions,
		SuccessionCues: cues,
		Confidence:     0.8,
		Provider:       provider,
	}
	if b.Owner == nil && len(ownerMentions) > 0 {
		b.Owner = &model.OwnerInfo{
			Name:            ownerMentions[0],
			DetectionSource: "text_analysis",
			Confidence:      0.6,
		}
	}
	b.AddTag("enriched_with_text_analysis")
	return true
}

// gatherText concatenates the non-empty description, review_text, bio
// and about string values of every attached source record's raw
// payload, a stand-in for "descriptions, reviews".
func gatherText(b *model.Business) string {
	var parts []string
	for _, rec := range b.SourceRecords {
		for _, key := range []string{"description", "review_text", "bio", "about"} {
			if v, ok := rec.RawPayload[key]; ok {
				if s, ok := v.(string); ok && s != "" {
					parts = append(parts, s)
				}
			}
		}
	}
	return strings.Join(parts, ". ")
}

// sentiment returns a polarity in [-1,1]. When an LLM key is
// configured it is tried first; any error falls back to the
// deterministic keyword analyzer so enrichment never blocks on an
// external dependency.
func (p *TextAnalysisPass) sentiment(ctx context.Context, text string) (float64, string) {
	if p.llmAPIKey != "" {
		if v, err := p.llmSentiment(ctx, text); err == nil {
			return v, "llm"
		}
	}
	return keywordSentiment(text), "fallback"
}

func (p *TextAnalysisPass) llmSentiment(ctx context.Context, text string) (float64, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  p.llmAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return 0, fmt.Errorf("genai client: %w", err)
	}
	prompt := "Rate the sentiment of the following business review text on a scale from -1.0 (very negative) " +
		"to 1.0 (very positive). Respond with only the number.\n\n" + text
	result, err := client.Models.GenerateContent(ctx, p.llmModel, genai.Text(prompt), &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(0.0)),
	})
	if err != nil {
		return 0, fmt.Errorf("genai generate: %w", err)
	}
	raw := strings.TrimSpace(result.Text())
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable sentiment response %q: %w", raw, err)
	}
	if v < -1 || v > 1 {
		return 0, fmt.Errorf("sentiment out of range: %v", v)
	}
	return v, nil
}

// keywordSentiment is the deterministic fallback: a simple bag-of-words
// polarity count normalized to [-1,1].
func keywordSentiment(text string) float64 {
	lower := strings.ToLower(text)
	pos, neg := 0, 0
	for _, w := range positiveWords {
		pos += strings.Count(lower, w)
	}
	for _, w := range negativeWords {
		neg += strings.Count(lower, w)
	}
	total := pos + neg
	if total == 0 {
		return 0
	}
	return float64(pos-neg) / float64(total)
}

// keyThemes returns the most frequent non-trivial words as a
// frequency-based theme list, capped at five.
func keyThemes(text string) []string {
	words := strings.Fields(strings.ToLower(regexp.MustCompile(`[^a-z0-9\s]`).ReplaceAllString(text, " ")))
	counts := make(map[string]int)
	for _, w := range words {
		if len(w) < 5 || isStopword(w) {
			continue
		}
		counts[w]++
	}
	type kv struct {
		word  string
		count int
	}
	list := make([]kv, 0, len(counts))
	for w, c := range counts {
		if c >= 2 {
			list = append(list, kv{w, c})
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].count != list[j].count {
			return list[i].count > list[j].count
		}
		return list[i].word < list[j].word
	})
	out := make([]string, 0, 5)
	for i := 0; i < len(list) && i < 5; i++ {
		out = append(out, list[i].word)
	}
	return out
}

var stopwords = map[string]bool{
	"about": true, "there": true, "their": true, "which": true, "would": true, "should": true, "could": true,
}

func isStopword(w string) bool { return stopwords[w] }

// extractOwnerMentions applies the fixed role-token regex (spec §4.4)
// over role tokens owner/CEO/president/founder.
func extractOwnerMentions(text string) []string {
	matches := ownerRoleRE.FindAllStringSubmatch(text, -1)
	seen := make(map[string]bool)
	var out []string
	for _, m := range matches {
		if len(m) < 3 || m[2] == "" {
			continue
		}
		if seen[m[2]] {
			continue
		}
		seen[m[2]] = true
		out = append(out, m[2])
	}
	return out
}

// extractSuccessionCues checks the closed keyword set from spec §4.4.
func extractSuccessionCues(text string) []string {
	lower := strings.ToLower(text)
	var out []string
	for _, cue := range successionCues {
		if strings.Contains(lower, cue) {
			out = append(out, cue)
		}
	}
	return out
}
