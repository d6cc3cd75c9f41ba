package sse

import (
	"encoding/json"
	"regexp"

	"painscout/internal/models"
)

// DefaultFrustrationScore is used when the agent's completed payload carries
// no recoverable JSON and the raw text is shown as the summary.
const DefaultFrustrationScore = 50

var (
	fencedBlockRe = regexp.MustCompile("(?s)```json\\s*(.*?)\\s*```")
	braceSpanRe   = regexp.MustCompile(`(?s)\{.*\}`)
)

// extractor attempts one extraction strategy against the raw result text.
type extractor func(string) (models.AnalysisResult, bool)

// extractors are tried in order; the first match wins. The upstream LLM's
// output format is not guaranteed, so a failed parse falls through to the
// next strategy instead of failing the analysis.
var extractors = []extractor{
	fromFencedBlock,
	fromBraceSpan,
}

// ExtractResult recovers a structured AnalysisResult from the free-text
// result field of a completed event. If no strategy yields valid JSON, the
// whole text becomes the summary with a neutral frustration score and no
// insights.
func ExtractResult(text string) models.AnalysisResult {
	for _, extract := range extractors {
		if result, ok := extract(text); ok {
			return normalize(result)
		}
	}
	return models.AnalysisResult{
		Summary:          text,
		FrustrationScore: DefaultFrustrationScore,
		Insights:         []models.Insight{},
	}
}

// fromFencedBlock parses JSON embedded in a ```json fenced code block.
func fromFencedBlock(text string) (models.AnalysisResult, bool) {
	m := fencedBlockRe.FindStringSubmatch(text)
	if m == nil {
		return models.AnalysisResult{}, false
	}
	return parseResult(m[1])
}

// fromBraceSpan parses the first bare {...} substring. The match is greedy
// from the first opening to the last closing brace, which tolerates nested
// objects in the insights array.
func fromBraceSpan(text string) (models.AnalysisResult, bool) {
	m := braceSpanRe.FindString(text)
	if m == "" {
		return models.AnalysisResult{}, false
	}
	return parseResult(m)
}

func parseResult(raw string) (models.AnalysisResult, bool) {
	var result models.AnalysisResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return models.AnalysisResult{}, false
	}
	return result, true
}

func normalize(result models.AnalysisResult) models.AnalysisResult {
	if result.Insights == nil {
		result.Insights = []models.Insight{}
	}
	return result
}
