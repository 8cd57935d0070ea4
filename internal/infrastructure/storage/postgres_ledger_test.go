package storage

import (
	"context"
	"testing"

	sq "github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/require"
)

func TestNilDBIsTolerated(t *testing.T) {
	t.Parallel()

	ledger := NewPostgresLedger(nil)
	require.NoError(t, ledger.RecordAnalysis(context.Background(), "p1"))
	require.NoError(t, ledger.RecordExport(context.Background(), "p1", "matriz_p1.pdf"))
	require.NoError(t, ledger.Close())
}

func TestInsertUsesDollarPlaceholders(t *testing.T) {
	t.Parallel()

	query, args, err := sq.StatementBuilder.PlaceholderFormat(sq.Dollar).
		Insert("gapdesk_ledger").
		Columns("project_id", "kind", "filename").
		Values("p1", KindExport, "dashboard_p1.pdf").
		ToSql()

	require.NoError(t, err)
	require.Equal(t, "INSERT INTO gapdesk_ledger (project_id,kind,filename) VALUES ($1,$2,$3)", query)
	require.Equal(t, []any{"p1", KindExport, "dashboard_p1.pdf"}, args)
}
