package pipeline

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah04091/contract-ai-sub004/internal/config"
	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
	"github.com/noah04091/contract-ai-sub004/pkg/anthropic"
)

// Pipeline runs the full contract analysis: classification, deterministic gap
// analysis, clause synthesis, tiered model analysis, quality gating, scope
// enforcement, coverage top-up, scoring, and the legal integrity audit.
type Pipeline struct {
	cfg       *config.Config
	orch      *orchestrator
	templates map[string]string
	mandatory []registry.MandatoryTopic
}

// New creates a Pipeline. Optional clause-template and mandatory-topic files
// from the config are loaded here, once, so Run stays deterministic and cheap.
func New(cfg *config.Config, client anthropic.Client) (*Pipeline, error) {
	templates := registry.ClauseTemplates
	if cfg.Pipeline.TemplatesFile != "" {
		loaded, err := registry.LoadTemplatesFromFile(cfg.Pipeline.TemplatesFile)
		if err != nil {
			return nil, err
		}
		templates = loaded
	}

	mandatory := registry.MandatoryTopics
	if cfg.Pipeline.MandatoryTopicFile != "" {
		loaded, err := registry.LoadMandatoryTopicsFromFile(cfg.Pipeline.MandatoryTopicFile)
		if err != nil {
			return nil, err
		}
		mandatory = loaded
	}

	return &Pipeline{
		cfg:       cfg,
		orch:      &orchestrator{client: client, cfg: cfg.Anthropic},
		templates: templates,
		mandatory: mandatory,
	}, nil
}

// Run analyzes a single document and returns the atomic report. The returned
// error is always a *Failure; partial reports are never emitted.
func (p *Pipeline) Run(ctx context.Context, doc model.ContractDocument) (*model.AnalysisReport, error) {
	log := zap.L().With(zap.String("filename", doc.Filename))
	start := time.Now()
	log.Info("analysis started", zap.Int("text_len", len(doc.Text)))

	trackStage := func(name string, fn func() error) error {
		stageStart := time.Now()
		err := fn()
		if err != nil {
			log.Error("stage failed",
				zap.String("stage", name),
				zap.Duration("elapsed", time.Since(stageStart)),
				zap.Error(err),
			)
			return err
		}
		log.Debug("stage complete",
			zap.String("stage", name),
			zap.Duration("elapsed", time.Since(stageStart)),
		)
		return nil
	}

	if err := validateDocument(doc, p.cfg.Pipeline.MinTextLength); err != nil {
		return nil, newFailure(err)
	}

	// Classification and gap analysis are pure text work; they cannot fail.
	var info model.ContractTypeInfo
	_ = trackStage("classify", func() error {
		info = classifyContract(doc)
		return nil
	})

	var gaps []model.Gap
	_ = trackStage("gaps", func() error {
		gaps = analyzeGaps(doc.Text, info)
		return nil
	})

	var findings []model.Finding
	_ = trackStage("synthesize", func() error {
		clauses := synthesizeClauses(gaps, info, p.templates)
		findings = ruleFindings(gaps, clauses, info)
		return nil
	})

	// Model analysis never fails the pipeline: exhaustion of both tiers
	// degrades to the rule findings alone.
	var outcome analysisOutcome
	_ = trackStage("analyze", func() error {
		outcome = p.orch.analyze(ctx, doc, info, gaps, hintsFor(info))
		return nil
	})
	findings = append(findings, outcome.Findings...)

	_ = trackStage("gate", func() error {
		findings = applyQualityGate(findings, info)
		return nil
	})

	_ = trackStage("scope", func() error {
		findings = enforceAmendmentScope(findings, info)
		return nil
	})

	_ = trackStage("topup", func() error {
		findings = p.orch.topUpCoverage(ctx, doc, info, findings, p.cfg.Pipeline.TopUpFloor)
		return nil
	})

	score := computeHealthScore(findings, p.cfg.Pipeline.ScoreCeiling)
	summary := summarize(findings)

	integrity := auditIntegrity(doc, info, findings, p.mandatory)
	score = applyIntegrityCap(score, integrity)
	summary.CriticalLegalRisks = len(integrity.RedFlags) + len(integrity.MandatoryViolations)

	report := &model.AnalysisReport{
		Meta: model.ReportMeta{
			TypeInfo:     info,
			Language:     language(outcome, doc),
			Jurisdiction: jurisdiction(outcome, doc),
			FallbackTier: outcome.Tier,
			Version:      AnalysisVersion,
			Timestamp:    time.Now().UTC(),
		},
		Assessment:     outcome.Assessment,
		Categories:     buildCategories(findings),
		Score:          score,
		Summary:        summary,
		LegalIntegrity: integrity,
	}

	log.Info("analysis complete",
		zap.String("contract_type", info.Type),
		zap.String("tier", string(outcome.Tier)),
		zap.Int("findings", summary.TotalIssues),
		zap.Int("health", score.Health),
		zap.String("integrity", string(integrity.Level)),
		zap.Duration("elapsed", time.Since(start)),
	)

	return report, nil
}

// validateDocument rejects input the analysis cannot work with.
func validateDocument(doc model.ContractDocument, minLen int) error {
	text := strings.TrimSpace(doc.Text)
	if text == "" {
		return &ValidationError{Reason: "document text is empty"}
	}
	if len(text) < minLen {
		return &ValidationError{Reason: "document text too short for analysis"}
	}
	return nil
}

// hintsFor passes the classifier's clause detections to the model as
// non-authoritative context.
func hintsFor(info model.ContractTypeInfo) []string {
	if len(info.DetectedClauses) == 0 {
		return nil
	}
	return []string{"vorhandene Klauselthemen: " + strings.Join(info.DetectedClauses, ", ")}
}

// language resolves the report language: the model's verdict when available,
// otherwise the caller's hint, defaulting to German.
func language(o analysisOutcome, doc model.ContractDocument) string {
	if o.Language != "" {
		return o.Language
	}
	if doc.LanguageHint != "" {
		return registry.NormalizeLanguage(doc.LanguageHint)
	}
	return "de"
}

func jurisdiction(o analysisOutcome, doc model.ContractDocument) string {
	if o.Jurisdiction != "" {
		return o.Jurisdiction
	}
	if doc.JurisdictionHint != "" {
		return registry.NormalizeJurisdiction(doc.JurisdictionHint)
	}
	return "DE"
}
