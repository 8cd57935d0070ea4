package usecase

import "GapDesk/internal/domain"

// UploadGate tracks how many of a project's required document slots are
// filled. It holds no network state; callers refresh Articles from the
// backend after each upload so extracted titles/DOIs stay authoritative.
type UploadGate struct {
	Target   int
	Articles []domain.Article
}

// PendingSlots returns how many placeholder rows remain, never negative.
func (g UploadGate) PendingSlots() int {
	pending := g.Target - len(g.Articles)
	if pending < 0 {
		return 0
	}
	return pending
}

// CanAnalyze reports whether the quota is met with at least one document.
func (g UploadGate) CanAnalyze() bool {
	return len(g.Articles) >= g.Target && len(g.Articles) > 0
}

// Rows returns the uploaded articles followed by nil placeholders, one per
// pending slot, for direct table rendering.
func (g UploadGate) Rows() []*domain.Article {
	rows := make([]*domain.Article, 0, len(g.Articles)+g.PendingSlots())
	for i := range g.Articles {
		rows = append(rows, &g.Articles[i])
	}
	for i := 0; i < g.PendingSlots(); i++ {
		rows = append(rows, nil)
	}
	return rows
}
