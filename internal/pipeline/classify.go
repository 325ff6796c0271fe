package pipeline

import (
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// classifierFloor is the minimum taxonomy score below which a document falls
// back to the generic type. The pipeline proceeds either way.
const classifierFloor = 3

// fallbackConfidence is the confidence attached to the generic fallback type.
const fallbackConfidence = 30

// classifyContract scores the document against the contract-type taxonomy and
// detects whether it is an amendment to a parent contract.
func classifyContract(doc model.ContractDocument) model.ContractTypeInfo {
	textLower := strings.ToLower(doc.Text)
	fileLower := strings.ToLower(doc.Filename)

	var best registry.ContractType
	bestScore, secondScore := 0, 0
	for _, t := range registry.ContractTypes {
		if t.Tag == registry.FallbackType {
			continue
		}
		s := scoreContractType(t, textLower, fileLower)
		if s > bestScore {
			best, secondScore, bestScore = t, bestScore, s
		} else if s > secondScore {
			secondScore = s
		}
	}

	var info model.ContractTypeInfo
	if bestScore < classifierFloor {
		fb := registry.TypeByTag(registry.FallbackType)
		info.Type = fb.Tag
		info.Label = fb.Label
		info.Confidence = fallbackConfidence
		info.LegalFrameworks = fb.LegalFrameworks
	} else {
		info.Type = best.Tag
		info.Label = best.Label
		info.Confidence = deriveConfidence(bestScore, secondScore)
		info.LegalFrameworks = best.LegalFrameworks
	}

	if indicator, phrase, ok := detectAmendment(doc.Text); ok {
		info.IsAmendment = true
		info.AmendmentIndicator = phrase
		info.ChangedTopics = detectChangedTopics(textLower)
		info.ParentType = parentType(doc, info.Type)
		zap.L().Debug("amendment detected",
			zap.String("indicator", indicator),
			zap.Strings("changed_topics", info.ChangedTopics),
		)
	}

	info.DetectedClauses = detectClauses(doc.Text, info.Type)

	return info
}

// scoreContractType computes the taxonomy score: keyword occurrences (capped
// per keyword), an exact-phrase bonus, and a filename-hint bonus.
func scoreContractType(t registry.ContractType, textLower, fileLower string) int {
	score := 0

	for _, kw := range t.Keywords {
		n := strings.Count(textLower, kw)
		if n > 5 {
			n = 5
		}
		score += n
	}

	for _, phrase := range t.Phrases {
		if strings.Contains(textLower, phrase) {
			score += 4
		}
	}

	for _, hint := range t.FilenameHints {
		if strings.Contains(fileLower, hint) {
			score += 6
		}
	}

	return score
}

// deriveConfidence maps the winning score and its margin over the runner-up
// onto a 0-100 confidence.
func deriveConfidence(best, second int) int {
	conf := 40 + 3*best + 2*(best-second)
	if conf > 95 {
		conf = 95
	}
	return conf
}

// parentType re-scores the taxonomy with the amendment phrases blanked out,
// so the amendment boilerplate cannot skew the detection of the contract
// being changed. Below the floor the full-text classification stands.
func parentType(doc model.ContractDocument, fallback string) string {
	masked := doc.Text
	for _, ind := range registry.AmendmentIndicators {
		masked = ind.Pattern.ReplaceAllString(masked, " ")
	}

	textLower := strings.ToLower(masked)
	fileLower := strings.ToLower(doc.Filename)

	best, bestScore := "", 0
	for _, t := range registry.ContractTypes {
		if t.Tag == registry.FallbackType {
			continue
		}
		if s := scoreContractType(t, textLower, fileLower); s > bestScore {
			best, bestScore = t.Tag, s
		}
	}
	if bestScore < classifierFloor {
		return fallback
	}
	return best
}

// detectAmendment returns the first matching amendment indicator and the
// verbatim matched phrase.
func detectAmendment(text string) (id, phrase string, ok bool) {
	for _, ind := range registry.AmendmentIndicators {
		if m := ind.Pattern.FindString(text); m != "" {
			return ind.ID, m, true
		}
	}
	return "", "", false
}

// detectChangedTopics scans for the topics an amendment actually changes.
// The result is sorted so classification stays deterministic.
func detectChangedTopics(textLower string) []string {
	var topics []string
	for topic, pattern := range registry.ChangedTopicPatterns {
		if pattern.MatchString(textLower) {
			topics = append(topics, topic)
		}
	}
	sort.Strings(topics)
	return topics
}

// detectClauses records which checklist anchors already match the text.
func detectClauses(text, typeTag string) []string {
	var found []string
	for _, check := range registry.ChecksFor(typeTag, false) {
		if check.Anchor.MatchString(text) {
			found = append(found, check.ID)
		}
	}
	return found
}
