package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/config"
	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
	"github.com/noah04091/contract-ai-sub004/internal/resilience"
	"github.com/noah04091/contract-ai-sub004/pkg/anthropic"
)

// fallbackState is one node of the explicit fallback chain. The chain only
// moves forward: TryPrimary → TrySecondary → RuleEngineOnly → Done.
type fallbackState int

const (
	tryPrimary fallbackState = iota
	trySecondary
	ruleEngineOnly
	done
)

func (s fallbackState) next() fallbackState {
	if s >= done {
		return done
	}
	return s + 1
}

// reducedTextLen truncates the document for narrow-scope and secondary-tier
// requests.
const reducedTextLen = 30000

// llmPayload is the declared output schema of the analysis service.
type llmPayload struct {
	Meta       llmMeta       `json:"meta"`
	Assessment string        `json:"assessment"`
	Categories []llmCategory `json:"categories"`
}

type llmMeta struct {
	Type         string `json:"type"`
	Jurisdiction string `json:"jurisdiction"`
	Language     string `json:"language"`
	Confidence   int    `json:"confidence"`
}

type llmCategory struct {
	Tag    string     `json:"tag"`
	Label  string     `json:"label"`
	Issues []llmIssue `json:"issues"`
}

type llmIssue struct {
	Summary        string            `json:"summary"`
	OriginalText   string            `json:"originalText"`
	ImprovedText   string            `json:"improvedText"`
	LegalReasoning string            `json:"legalReasoning"`
	Category       string            `json:"category"`
	Risk           int               `json:"risk"`
	Impact         int               `json:"impact"`
	Confidence     int               `json:"confidence"`
	Difficulty     string            `json:"difficulty"`
	Evidence       []string          `json:"evidence"`
	Classification llmClassification `json:"classification"`
}

type llmClassification struct {
	Existence   string `json:"existence"`
	Sufficiency string `json:"sufficiency"`
	Necessity   string `json:"necessity"`
	Perspective string `json:"perspective"`
}

// analysisOutcome is what the orchestrator hands back to the pipeline.
type analysisOutcome struct {
	Findings     []model.Finding
	Assessment   string
	Jurisdiction string
	Language     string
	Tier         model.FallbackTier
}

// orchestrator drives the tiered analysis calls.
type orchestrator struct {
	client anthropic.Client
	cfg    config.AnthropicConfig
}

// analyze obtains the model's findings with the full fallback chain. It never
// returns an error: exhaustion of both model tiers degrades to the rule
// engine only, which is the guaranteed last resort.
func (o *orchestrator) analyze(ctx context.Context, doc model.ContractDocument, info model.ContractTypeInfo, gaps []model.Gap, hints []string) analysisOutcome {
	categories := requestableCategories(info.IsAmendment)

	for state := tryPrimary; state != done; state = state.next() {
		switch state {
		case tryPrimary:
			payload, err := o.callTier(ctx, doc, info, gaps, hints, tierRequest{
				model:      o.cfg.PrimaryModel,
				timeout:    o.cfg.PrimaryTimeout(),
				maxTokens:  o.cfg.MaxTokens,
				categories: categories,
				stage:      "analysis_primary",
			})
			if err != nil {
				zap.L().Warn("primary analysis tier failed", zap.Error(err))
				continue
			}
			return o.outcome(payload, model.OriginAI, model.TierPrimary)

		case trySecondary:
			payload, err := o.callTier(ctx, doc, info, gaps, hints, tierRequest{
				model:      o.cfg.FallbackModel,
				timeout:    o.cfg.FallbackTimeout(),
				maxTokens:  o.cfg.MaxTokens / 2,
				categories: categories,
				maxTextLen: reducedTextLen,
				stage:      "analysis_secondary",
			})
			if err != nil {
				zap.L().Warn("secondary analysis tier failed", zap.Error(err))
				continue
			}
			return o.outcome(payload, model.OriginAI, model.TierSecondary)

		case ruleEngineOnly:
			zap.L().Warn("all model tiers exhausted, continuing with rule engine only")
			return analysisOutcome{Tier: model.TierRuleOnly}
		}
	}

	return analysisOutcome{Tier: model.TierRuleOnly}
}

// tierRequest bundles the per-tier call parameters.
type tierRequest struct {
	model      string
	timeout    time.Duration
	maxTokens  int64
	categories []string
	maxTextLen int
	stage      string
}

// callTier issues one schema-constrained request with retry. A ParseError is
// given one narrow-scope retry (fewer categories, smaller budget, truncated
// text) before the tier is declared failed.
func (o *orchestrator) callTier(ctx context.Context, doc model.ContractDocument, info model.ContractTypeInfo, gaps []model.Gap, hints []string, req tierRequest) (*llmPayload, error) {
	payload, err := o.request(ctx, doc, info, gaps, hints, req)
	if err == nil {
		return payload, nil
	}

	var pe *ParseError
	if !errors.As(err, &pe) {
		return nil, err
	}

	// Narrow retry: halve the category list and the token budget.
	narrow := req
	narrow.categories = req.categories[:(len(req.categories)+1)/2]
	narrow.maxTokens = req.maxTokens / 2
	narrow.maxTextLen = reducedTextLen
	narrow.stage = req.stage + "_narrow"
	zap.L().Warn("schema parse failed, retrying with narrow scope",
		zap.String("stage", req.stage),
		zap.Int("categories", len(narrow.categories)),
	)

	return o.request(ctx, doc, info, gaps, hints, narrow)
}

// request performs the HTTP call (with transient retry) and parses the result
// against the schema.
func (o *orchestrator) request(ctx context.Context, doc model.ContractDocument, info model.ContractTypeInfo, gaps []model.Gap, hints []string, req tierRequest) (*llmPayload, error) {
	prompt, err := buildPrompt(doc, info, gaps, req.categories, hints, req.maxTextLen)
	if err != nil {
		return nil, err
	}

	tierCtx, cancel := context.WithTimeout(ctx, req.timeout)
	defer cancel()

	temperature := 0.0
	resp, err := resilience.DoVal(tierCtx, resilience.TierRetryConfig(o.cfg.MaxAttempts, req.stage),
		func(ctx context.Context) (*anthropic.MessageResponse, error) {
			return o.client.CreateMessage(ctx, anthropic.MessageRequest{
				Model:       req.model,
				MaxTokens:   req.maxTokens,
				System:      analysisSystemPrompt,
				Messages:    []anthropic.Message{{Role: "user", Content: prompt}},
				Temperature: &temperature,
			})
		})
	if err != nil {
		return nil, &ExternalServiceError{Service: req.model, Err: err}
	}

	resp.Usage.LogCost(req.model, req.stage)

	payload, err := parseAnalysis(extractText(resp))
	if err != nil {
		return nil, &ParseError{Stage: req.stage, Err: err}
	}
	return payload, nil
}

// parseAnalysis validates a raw response against the declared schema.
func parseAnalysis(raw string) (*llmPayload, error) {
	cleaned := cleanJSON(raw)
	if cleaned == "" {
		return nil, eris.New("empty response")
	}

	var payload llmPayload
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, eris.Wrap(err, "unmarshal analysis payload")
	}
	if len(payload.Categories) == 0 {
		return nil, eris.New("payload contains no categories")
	}
	return &payload, nil
}

// outcome converts a parsed payload into findings with the given origin.
func (o *orchestrator) outcome(payload *llmPayload, origin model.Origin, tier model.FallbackTier) analysisOutcome {
	findings := convertIssues(payload, origin)
	zap.L().Info("model analysis complete",
		zap.String("tier", string(tier)),
		zap.Int("findings", len(findings)),
	)
	return analysisOutcome{
		Findings:     findings,
		Assessment:   payload.Assessment,
		Jurisdiction: registry.NormalizeJurisdiction(payload.Meta.Jurisdiction),
		Language:     registry.NormalizeLanguage(payload.Meta.Language),
		Tier:         tier,
	}
}

// convertIssues flattens payload categories into findings. Field values are
// clamped here; semantic filtering is the quality gate's job.
func convertIssues(payload *llmPayload, origin model.Origin) []model.Finding {
	var findings []model.Finding
	for _, cat := range payload.Categories {
		for _, issue := range cat.Issues {
			category := issue.Category
			if category == "" {
				category = cat.Tag
			} else if _, ok := registry.NormalizeCategoryTag(category); !ok {
				// An unresolvable issue tag inherits the enclosing
				// category's tag when that one resolves.
				if _, ok := registry.NormalizeCategoryTag(cat.Tag); ok {
					category = cat.Tag
				}
			}
			findings = append(findings, model.Finding{
				ID:             string(origin) + "_" + uuid.New().String()[:8],
				Origin:         origin,
				Summary:        issue.Summary,
				OriginalText:   issue.OriginalText,
				ImprovedText:   issue.ImprovedText,
				LegalReasoning: issue.LegalReasoning,
				Category:       category,
				Risk:           clampInt(issue.Risk, 1, 10),
				Impact:         clampInt(issue.Impact, 1, 10),
				Confidence:     clampInt(issue.Confidence, 0, 100),
				Difficulty:     registry.NormalizeDifficulty(issue.Difficulty),
				Evidence:       issue.Evidence,
				Classification: convertClassification(issue.Classification),
			})
		}
	}
	return findings
}

func convertClassification(c llmClassification) model.Classification {
	out := model.Classification{
		Existence:   model.Existence(c.Existence),
		Sufficiency: model.Sufficiency(c.Sufficiency),
		Necessity:   model.Necessity(c.Necessity),
		Perspective: model.Perspective(c.Perspective),
	}
	switch out.Existence {
	case model.ExistenceMissing, model.ExistencePresent, model.ExistencePartial:
	default:
		out.Existence = model.ExistencePartial
	}
	switch out.Sufficiency {
	case model.SufficiencySufficient, model.SufficiencyWeak, model.SufficiencyOutdated:
	default:
		out.Sufficiency = model.SufficiencyWeak
	}
	switch out.Necessity {
	case model.NecessityMandatory, model.NecessityRiskBased, model.NecessityBestPractice:
	default:
		out.Necessity = model.NecessityBestPractice
	}
	switch out.Perspective {
	case model.PerspectivePartyA, model.PerspectivePartyB, model.PerspectiveNeutral:
	default:
		out.Perspective = model.PerspectiveNeutral
	}
	return out
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
