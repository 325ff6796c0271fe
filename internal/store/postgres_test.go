package store

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah04091/contract-ai-sub004/internal/model"
)

// newMockPostgresStore creates a PostgresStore backed by pgxmock for unit testing.
func newMockPostgresStore(t *testing.T) (*PostgresStore, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(func() { mock.Close() })

	return NewPostgresWithPool(mock), mock
}

func TestPostgresStore_CreateRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`INSERT INTO runs`).
		WithArgs(pgxmock.AnyArg(), "vertrag.pdf", "queued", pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))

	run, err := s.CreateRun(context.Background(), "vertrag.pdf")
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusQueued, run.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectQuery(`SELECT id, filename, contract_type, status, report, error, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("nonexistent-run").
		WillReturnError(pgx.ErrNoRows)

	_, err := s.GetRun(context.Background(), "nonexistent-run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_GetRun_WithReport(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()
	ct := "mietvertrag"

	reportJSON := []byte(`{"meta":{"type_info":{"type":"mietvertrag","label":"Mietvertrag","confidence":80}},"score":{"health":71,"risk":5,"impact":6},"summary":{"totalIssues":3,"redFlags":0,"quickWins":2,"criticalLegalRisks":0},"legalIntegrity":{"level":"valid","label":"Rechtlich unbedenklich","scoreCap":0}}`)

	rows := pgxmock.NewRows([]string{"id", "filename", "contract_type", "status", "report", "error", "created_at", "updated_at"}).
		AddRow("run-1", "miete.pdf", &ct, model.RunStatusComplete, reportJSON, (*string)(nil), now, now)

	mock.ExpectQuery(`SELECT id, filename, contract_type, status, report, error, created_at, updated_at FROM runs WHERE id = \$1`).
		WithArgs("run-1").
		WillReturnRows(rows)

	run, err := s.GetRun(context.Background(), "run-1")
	require.NoError(t, err)
	assert.Equal(t, "mietvertrag", run.ContractType)
	require.NotNil(t, run.Report)
	assert.Equal(t, 71, run.Report.Score.Health)
	assert.Equal(t, model.IntegrityValid, run.Report.LegalIntegrity.Level)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_CompleteRun_NotFound(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET report = \$1`).
		WithArgs(pgxmock.AnyArg(), "arbeitsvertrag", "complete", pgxmock.AnyArg(), "missing-run").
		WillReturnResult(pgxmock.NewResult("UPDATE", 0))

	report := &model.AnalysisReport{
		Meta: model.ReportMeta{TypeInfo: model.ContractTypeInfo{Type: "arbeitsvertrag"}},
	}
	err := s.CompleteRun(context.Background(), "missing-run", report)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_FailRun(t *testing.T) {
	s, mock := newMockPostgresStore(t)

	mock.ExpectExec(`UPDATE runs SET error = \$1`).
		WithArgs("analysis failed, please retry", "failed", pgxmock.AnyArg(), "run-2").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))

	err := s.FailRun(context.Background(), "run-2", "analysis failed, please retry")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_ListRuns_StatusFilter(t *testing.T) {
	s, mock := newMockPostgresStore(t)
	now := time.Now().UTC()

	rows := pgxmock.NewRows([]string{"id", "filename", "contract_type", "status", "report", "error", "created_at", "updated_at"}).
		AddRow("run-1", "a.pdf", (*string)(nil), model.RunStatusQueued, []byte(nil), (*string)(nil), now, now)

	mock.ExpectQuery(`SELECT .+ FROM runs WHERE true AND status = \$1 ORDER BY created_at DESC LIMIT \$2`).
		WithArgs("queued", 100).
		WillReturnRows(rows)

	runs, err := s.ListRuns(context.Background(), RunFilter{Status: model.RunStatusQueued})
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, "a.pdf", runs[0].Filename)
	assert.Nil(t, runs[0].Report)
	assert.NoError(t, mock.ExpectationsWereMet())
}
