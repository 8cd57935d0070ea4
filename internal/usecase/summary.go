package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"GapDesk/internal/domain"
	"GapDesk/internal/ports"
)

// SummaryDeps wires the backend sources into the aggregator.
type SummaryDeps struct {
	Projects ports.ProjectDirectory
	Articles ports.ArticleSource
	Results  ports.ResultSource
	Logger   *slog.Logger
}

// Summary builds the project list rows. Per-project enrichment failures are
// isolated: a failed article fetch degrades that row's count to 0 and a
// failed result check degrades HasResult to false, without touching other
// rows. Only the initial project-list fetch can fail the whole load.
type Summary struct {
	projects ports.ProjectDirectory
	articles ports.ArticleSource
	results  ports.ResultSource
	logger   *slog.Logger
}

// NewSummary constructs the aggregator.
func NewSummary(deps SummaryDeps) *Summary {
	return &Summary{
		projects: deps.Projects,
		articles: deps.Articles,
		results:  deps.Results,
		logger:   deps.Logger,
	}
}

// Load fetches all projects and enriches each row concurrently. Row order
// matches the backend's project order.
func (s *Summary) Load(ctx context.Context) ([]domain.ProjectSummaryRow, error) {
	if s.projects == nil {
		return nil, fmt.Errorf("project directory is not configured")
	}

	projects, err := s.projects.Projects(ctx)
	if err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}

	rows := make([]domain.ProjectSummaryRow, len(projects))

	var wg sync.WaitGroup
	for i, p := range projects {
		rows[i] = domain.ProjectSummaryRow{Project: p}

		wg.Add(2)
		go func(i int, id string) {
			defer wg.Done()
			if s.articles == nil {
				return
			}
			arts, err := s.articles.Articles(ctx, id)
			if err != nil {
				s.debug("article count unavailable", "project", id, "error", err)
				return
			}
			rows[i].ArticleCount = len(arts)
		}(i, p.ID)

		go func(i int, id string) {
			defer wg.Done()
			if s.results == nil {
				return
			}
			_, found, err := s.results.LatestResult(ctx, id)
			if err != nil {
				s.debug("result check unavailable", "project", id, "error", err)
				return
			}
			rows[i].HasResult = found
		}(i, p.ID)
	}
	wg.Wait()

	return rows, nil
}

func (s *Summary) debug(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Debug(msg, args...)
	}
}
