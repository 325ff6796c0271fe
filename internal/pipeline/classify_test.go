package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

const employmentContract = `Arbeitsvertrag

zwischen der Beispiel GmbH (Arbeitgeber) und Frau Mustermann (Arbeitnehmer).

§ 1 Beginn des Arbeitsverhältnisses
Das Arbeitsverhältnis beginnt am 01.03.2026. Die Probezeit beträgt sechs Monate.

§ 2 Tätigkeit
Der Arbeitnehmer verpflichtet sich, die Tätigkeit einer Softwareentwicklerin auszuüben.

§ 3 Vergütung
Der Arbeitnehmer erhält ein monatliches Gehalt von 5.200 Euro brutto.

§ 4 Arbeitszeit und Urlaub
Die regelmäßige Arbeitszeit beträgt 40 Wochenstunden. Der Urlaub beträgt 30 Arbeitstage.`

func TestClassifyContract_Employment(t *testing.T) {
	doc := model.ContractDocument{Text: employmentContract, Filename: "arbeitsvertrag_mustermann.txt"}

	info := classifyContract(doc)

	assert.Equal(t, "arbeitsvertrag", info.Type)
	assert.Equal(t, "Arbeitsvertrag", info.Label)
	assert.False(t, info.IsAmendment)
	assert.Greater(t, info.Confidence, 40)
	assert.LessOrEqual(t, info.Confidence, 95)
	assert.Contains(t, info.LegalFrameworks, "§ 611a BGB")
}

func TestClassifyContract_FallbackBelowFloor(t *testing.T) {
	doc := model.ContractDocument{
		Text:     "Kurze Notiz über ein Treffen nächste Woche im Büro.",
		Filename: "notiz.txt",
	}

	info := classifyContract(doc)

	assert.Equal(t, "sonstiges", info.Type)
	assert.Equal(t, fallbackConfidence, info.Confidence)
	assert.Equal(t, "Sonstiger Vertrag", info.Label)
}

func TestClassifyContract_AmendmentDetection(t *testing.T) {
	doc := model.ContractDocument{
		Text: `Nachtrag Nr. 2 zum Arbeitsvertrag vom 01.03.2020

Der Arbeitgeber und der Arbeitnehmer vereinbaren: Das monatliche Gehalt wird
mit Wirkung zum 01.01.2026 auf 5.800 Euro brutto erhöht.

Alle übrigen Regelungen des Arbeitsvertrags bleiben unberührt.`,
		Filename: "nachtrag_gehalt.txt",
	}

	info := classifyContract(doc)

	require.True(t, info.IsAmendment)
	assert.NotEmpty(t, info.AmendmentIndicator)
	assert.Contains(t, info.ChangedTopics, "compensation")
	assert.Equal(t, info.Type, info.ParentType)
}

func TestParentType_MaskedReclassification(t *testing.T) {
	// With the amendment phrase blanked out, the body still identifies the
	// contract being changed.
	doc := model.ContractDocument{
		Text: `Änderungsvereinbarung

Die Parteien vereinbaren: Die monatliche Miete beträgt ab dem 01.01.2026 950 Euro.
Der Vermieter und der Mieter sind sich über die Anpassung einig.`,
		Filename: "aenderung.txt",
	}

	assert.Equal(t, "mietvertrag", parentType(doc, "sonstiges"))
}

func TestParentType_BelowFloorKeepsFullTextType(t *testing.T) {
	doc := model.ContractDocument{
		Text:     "Nachtrag Nr. 1 zum Vertrag vom 01.05.2021. Die Vergütung wird angepasst.",
		Filename: "nachtrag.txt",
	}

	assert.Equal(t, "dienstvertrag", parentType(doc, "dienstvertrag"))
}

func TestClassifyContract_DetectedClauses(t *testing.T) {
	doc := model.ContractDocument{Text: employmentContract + "\n§ 5 Kündigung\nDie Kündigungsfrist beträgt 3 Monate zum Monatsende.", Filename: "arbeitsvertrag.txt"}

	info := classifyContract(doc)

	assert.Contains(t, info.DetectedClauses, "termination")
	assert.Contains(t, info.DetectedClauses, "compensation")
}

func TestDeriveConfidence(t *testing.T) {
	assert.Equal(t, 55, deriveConfidence(3, 0))
	assert.Equal(t, 49, deriveConfidence(3, 3)) // no margin over the runner-up
	assert.Equal(t, 95, deriveConfidence(40, 0))
}

func TestDetectChangedTopics_Sorted(t *testing.T) {
	topics := detectChangedTopics("die arbeitszeit wird angepasst und das gehalt erhöht")
	assert.Equal(t, []string{"compensation", "working_hours"}, topics)
}

func TestDetectChangedTopics_UnlocksForbiddenParentTopic(t *testing.T) {
	// A parent-contract topic is in scope when it is exactly what the
	// amendment changes.
	doc := model.ContractDocument{
		Text: `Nachtrag Nr. 1 zum Arbeitsvertrag vom 01.06.2022

Der Arbeitgeber und der Arbeitnehmer vereinbaren: Die Kündigungsfrist wird
für beide Seiten auf sechs Monate zum Quartalsende festgelegt.`,
		Filename: "nachtrag_kuendigungsfrist.txt",
	}

	info := classifyContract(doc)

	require.True(t, info.IsAmendment)
	assert.Contains(t, info.ChangedTopics, "termination")

	out := enforceAmendmentScope([]model.Finding{
		categoryFinding("termination"),
		categoryFinding("liability"),
	}, info)
	require.Len(t, out, 1)
	assert.Equal(t, "termination", out[0].Category)
}

func TestDetectAmendment_NoMatch(t *testing.T) {
	_, _, ok := detectAmendment("Ein gewöhnlicher Vertrag ohne Änderungsbezug.")
	assert.False(t, ok)
}
