package pipeline

import (
	"fmt"
	"sort"
	"strings"

	"github.com/noah04091/contract-ai-sub004/internal/model"
	"github.com/noah04091/contract-ai-sub004/internal/registry"
)

// AnalysisVersion is stamped into every report.
const AnalysisVersion = "2.1"

// priorityRank orders priorities for within-category sorting.
var priorityRank = map[model.Priority]int{
	model.PriorityCritical: 0,
	model.PriorityHigh:     1,
	model.PriorityMedium:   2,
	model.PriorityLow:      3,
}

// buildCategories groups findings by normalized tag. Categories are ordered by
// their highest-priority finding, then alphabetically; within a category,
// findings are ordered by priority then descending risk. The ordering is fully
// deterministic so identical finding sets render identically.
func buildCategories(findings []model.Finding) []model.Category {
	grouped := make(map[string][]model.Finding)
	for _, f := range findings {
		grouped[f.Category] = append(grouped[f.Category], f)
	}

	categories := make([]model.Category, 0, len(grouped))
	for tag, issues := range grouped {
		sort.SliceStable(issues, func(i, j int) bool {
			if priorityRank[issues[i].Priority] != priorityRank[issues[j].Priority] {
				return priorityRank[issues[i].Priority] < priorityRank[issues[j].Priority]
			}
			return issues[i].Risk > issues[j].Risk
		})
		categories = append(categories, model.Category{
			Tag:    tag,
			Label:  registry.CategoryLabel(tag),
			Issues: issues,
		})
	}

	sort.SliceStable(categories, func(i, j int) bool {
		ri := priorityRank[categories[i].Issues[0].Priority]
		rj := priorityRank[categories[j].Issues[0].Priority]
		if ri != rj {
			return ri < rj
		}
		return categories[i].Tag < categories[j].Tag
	})

	return categories
}

// FormatReport renders a report for terminal output.
func FormatReport(r *model.AnalysisReport) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Vertragsanalyse: %s\n", r.Meta.TypeInfo.Label)
	if r.Meta.TypeInfo.IsAmendment {
		fmt.Fprintf(&b, "Dokumentart: Nachtrag (%s)\n", r.Meta.TypeInfo.AmendmentIndicator)
		if len(r.Meta.TypeInfo.ChangedTopics) > 0 {
			fmt.Fprintf(&b, "Geänderte Themen: %s\n", strings.Join(r.Meta.TypeInfo.ChangedTopics, ", "))
		}
	}
	fmt.Fprintf(&b, "Analysestand: %s, Stufe %s, %s\n",
		r.Meta.Version, r.Meta.FallbackTier, r.Meta.Timestamp.Format("2006-01-02 15:04"))
	b.WriteString(strings.Repeat("=", 60) + "\n\n")

	fmt.Fprintf(&b, "Gesundheitsscore: %d/100\n", r.Score.Health)
	fmt.Fprintf(&b, "Rechtliche Einordnung: %s\n", r.LegalIntegrity.Label)
	fmt.Fprintf(&b, "Befunde: %d gesamt, %d Red Flags, %d Quick Wins\n\n",
		r.Summary.TotalIssues, r.Summary.RedFlags, r.Summary.QuickWins)

	if len(r.LegalIntegrity.RedFlags) > 0 {
		b.WriteString("Red Flags:\n")
		for _, f := range r.LegalIntegrity.RedFlags {
			fmt.Fprintf(&b, "  ! %s\n", f)
		}
		b.WriteString("\n")
	}
	if len(r.LegalIntegrity.MandatoryViolations) > 0 {
		b.WriteString("Verstöße gegen zwingendes Recht:\n")
		for _, v := range r.LegalIntegrity.MandatoryViolations {
			fmt.Fprintf(&b, "  ! %s\n", v)
		}
		b.WriteString("\n")
	}
	if len(r.LegalIntegrity.MissingEssentialia) > 0 {
		b.WriteString("Fehlende wesentliche Vertragsbestandteile:\n")
		for _, m := range r.LegalIntegrity.MissingEssentialia {
			fmt.Fprintf(&b, "  ! %s\n", m)
		}
		b.WriteString("\n")
	}

	if r.Assessment != "" {
		fmt.Fprintf(&b, "Gesamteinschätzung:\n%s\n\n", r.Assessment)
	}

	for _, cat := range r.Categories {
		fmt.Fprintf(&b, "[%s] %s (%d)\n", cat.Tag, cat.Label, len(cat.Issues))
		for _, f := range cat.Issues {
			fmt.Fprintf(&b, "  • (%s, Risiko %d/10) %s\n", f.Priority, f.Risk, f.Summary)
			if f.OriginalText == model.MissingClauseMarker {
				b.WriteString("    Status: Klausel fehlt vollständig\n")
			}
			fmt.Fprintf(&b, "    Vorschlag: %s\n", f.ImprovedText)
			if f.LegalReasoning != "" {
				fmt.Fprintf(&b, "    Begründung: %s\n", f.LegalReasoning)
			}
		}
		b.WriteString("\n")
	}

	return b.String()
}
