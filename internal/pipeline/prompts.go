package pipeline

import (
	"sort"
	"strings"
	"text/template"

	"github.com/rotisserie/eris"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// analysisSystemPrompt constrains the model to the declared output schema.
// Temperature is pinned to 0 by the orchestrator; the schema is enforced
// again at parse time, so prompt drift degrades to a ParseError, never to a
// malformed report.
const analysisSystemPrompt = `Du bist ein deutscher Vertragsanalyst. Du analysierst Vertragstexte und lieferst strukturierte Optimierungsvorschläge.

Antworte AUSSCHLIESSLICH mit einem JSON-Objekt nach diesem Schema, ohne Markdown und ohne Begleittext:
{
  "meta": {"type": string, "jurisdiction": string, "language": string, "confidence": number},
  "assessment": string,
  "categories": [
    {
      "tag": string,
      "label": string,
      "issues": [
        {
          "summary": string,
          "originalText": string,
          "improvedText": string,
          "legalReasoning": string,
          "category": string,
          "risk": number,
          "impact": number,
          "confidence": number,
          "difficulty": "easy"|"medium"|"complex",
          "evidence": [string],
          "classification": {
            "existence": "missing"|"present"|"partial",
            "sufficiency": "sufficient"|"weak"|"outdated",
            "necessity": "mandatory"|"risk_based"|"best_practice",
            "perspective": "partyA"|"partyB"|"neutral"
          }
        }
      ]
    }
  ]
}

Regeln:
- "evidence" MUSS für jedes Issue mindestens ein wörtliches Zitat aus dem Vertragstext enthalten. Erfinde keine Zitate.
- "originalText" ist ein wörtliches Zitat oder exakt "FEHLT - Diese wichtige Regelung ist nicht im Vertrag vorhanden".
- "improvedText" ist eine vollständige, sofort verwendbare Ersatzklausel ohne Platzhalter in eckigen Klammern.
- Verwende nur die vorgegebenen Kategorie-Tags.`

// analysisUserPrompt is the per-document request.
var analysisUserPrompt = template.Must(template.New("analysis").Parse(`Vertragstyp: {{.TypeLabel}} ({{.TypeTag}}){{if .IsAmendment}}
Dokumentart: Nachtrag/Änderungsvereinbarung. Prüfe NUR die geänderten Themen und die Nachtragsform selbst, nicht den Ursprungsvertrag.{{end}}
Zulässige Kategorie-Tags: {{.Categories}}
{{if .Gaps}}Die deterministische Prüfung hat bereits folgende Lücken erkannt (nicht erneut melden): {{.Gaps}}
{{end}}{{if .ContextHints}}Zusätzlicher Kontext aus Voranalysen (nicht autoritativ): {{.ContextHints}}
{{end}}Analysiere den folgenden Vertragstext:

---
{{.Text}}
---`))

type promptParams struct {
	TypeTag      string
	TypeLabel    string
	IsAmendment  bool
	Categories   string
	Gaps         string
	ContextHints string
	Text         string
}

// buildPrompt renders the user prompt for one tier. categories limits the
// tags the model may use; reduced requests pass a shorter list and a
// truncated document.
func buildPrompt(doc model.ContractDocument, info model.ContractTypeInfo, gaps []model.Gap, categories []string, hints []string, maxTextLen int) (string, error) {
	text := doc.Text
	if maxTextLen > 0 && len(text) > maxTextLen {
		text = text[:maxTextLen]
	}

	gapIDs := make([]string, 0, len(gaps))
	for _, g := range gaps {
		gapIDs = append(gapIDs, g.ClauseID)
	}

	var b strings.Builder
	err := analysisUserPrompt.Execute(&b, promptParams{
		TypeTag:      info.Type,
		TypeLabel:    info.Label,
		IsAmendment:  info.IsAmendment,
		Categories:   strings.Join(categories, ", "),
		Gaps:         strings.Join(gapIDs, ", "),
		ContextHints: strings.Join(hints, " | "),
		Text:         text,
	})
	if err != nil {
		return "", eris.Wrap(err, "pipeline: render analysis prompt")
	}
	return b.String(), nil
}

// requestableCategories returns the canonical tags offered to the model,
// sorted for prompt determinism. Amendment-core tags are excluded for full
// contracts.
func requestableCategories(isAmendment bool) []string {
	var tags []string
	for tag := range registry.Categories {
		if !isAmendment && registry.AmendmentCoreTopics[tag] {
			continue
		}
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}
