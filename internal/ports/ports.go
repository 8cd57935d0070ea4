package ports

import (
	"context"

	"GapDesk/internal/domain"
)

// ProjectDirectory lists and creates projects.
type ProjectDirectory interface {
	Projects(ctx context.Context) ([]domain.Project, error)
	CreateProject(ctx context.Context, draft domain.ProjectDraft) (domain.Project, error)
}

// ArticleSource reads and ingests a project's documents.
type ArticleSource interface {
	Articles(ctx context.Context, projectID string) ([]domain.Article, error)
	UploadArticle(ctx context.Context, projectID, path string) error
}

// ResultSource exposes a project's latest analysis result. The boolean
// reports existence; a not-found backend response is (zero, false, nil),
// never an error.
type ResultSource interface {
	LatestResult(ctx context.Context, projectID string) (domain.AnalysisResult, bool, error)
	AnalyzeAll(ctx context.Context, projectID string) error
}

// GapSource reads derived gap data and aggregate metrics. The metrics
// boolean mirrors ResultSource: absence is not an error.
type GapSource interface {
	ArticleGaps(ctx context.Context, articleID string) ([]domain.GapRecord, error)
	MetricsSummary(ctx context.Context, projectID string) (domain.MetricsSummary, bool, error)
	MatrixRows(ctx context.Context, projectID string) ([]domain.MatrixRow, error)
}

// Exporter saves rendered backend artifacts as local files and returns the
// written path.
type Exporter interface {
	DownloadMetricsArchive(ctx context.Context, projectID string) (string, error)
	DownloadMatrixDocument(ctx context.Context, projectID string) (string, error)
	DownloadDashboard(ctx context.Context, projectID string) (string, error)
}

// Ledger records completed analyses and saved export files for local audit.
type Ledger interface {
	RecordAnalysis(ctx context.Context, projectID string) error
	RecordExport(ctx context.Context, projectID, filename string) error
}
