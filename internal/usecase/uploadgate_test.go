package usecase

import (
	"testing"

	"github.com/stretchr/testify/require"

	"GapDesk/internal/domain"
)

func articles(n int) []domain.Article {
	out := make([]domain.Article, n)
	for i := range out {
		out[i] = domain.Article{ID: string(rune('a' + i))}
	}
	return out
}

func TestUploadGateQuota(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name       string
		target     int
		current    int
		pending    int
		canAnalyze bool
	}{
		{"empty", 5, 0, 5, false},
		{"partial", 5, 3, 2, false},
		{"exact", 5, 5, 0, true},
		{"over quota", 5, 7, 0, true},
		{"max target", 10, 10, 0, true},
		{"zero target zero uploads", 0, 0, 0, false},
		{"zero target with uploads", 0, 2, 0, true},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			gate := UploadGate{Target: tc.target, Articles: articles(tc.current)}
			require.Equal(t, tc.pending, gate.PendingSlots())
			require.Equal(t, tc.canAnalyze, gate.CanAnalyze())
		})
	}
}

func TestUploadGateRows(t *testing.T) {
	t.Parallel()

	gate := UploadGate{Target: 5, Articles: articles(3)}
	rows := gate.Rows()

	require.Len(t, rows, 5)
	for i := 0; i < 3; i++ {
		require.NotNil(t, rows[i])
	}
	require.Nil(t, rows[3])
	require.Nil(t, rows[4])
}

func TestUploadGateRowsNoPlaceholdersPastTarget(t *testing.T) {
	t.Parallel()

	gate := UploadGate{Target: 5, Articles: articles(6)}
	rows := gate.Rows()

	require.Len(t, rows, 6)
	for _, row := range rows {
		require.NotNil(t, row)
	}
}
