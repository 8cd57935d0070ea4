package domain

// Project is a research topic under investigation, owned by the backend.
// Field names on the wire are the backend's own (Spanish) identifiers.
type Project struct {
	ID             string `json:"id"`
	Topic          string `json:"tema_principal"`
	Methodology    string `json:"metodologia_txt"`
	Sector         string `json:"sector_txt"`
	Objective      string `json:"objetivo"`
	TargetArticles int    `json:"n_articulos_objetivo"`
}

// ProjectDraft carries the creation payload for POST /proyectos.
type ProjectDraft struct {
	Topic          string `json:"tema_principal"`
	Methodology    string `json:"metodologia_txt"`
	Sector         string `json:"sector_txt"`
	Objective      string `json:"objetivo"`
	TargetArticles int    `json:"n_articulos_objetivo"`
}

// Article is one ingested source document. Title and DOI are extracted by
// the backend and stay empty until extraction completes.
type Article struct {
	ID    string `json:"id"`
	Title string `json:"titulo"`
	DOI   string `json:"doi"`
}

// AnalysisResult is the latest "state of the art" synthesis for a project.
// CreatedAt stays a string: the backend serializes naive timestamps without
// a zone, which time.Time refuses to parse.
type AnalysisResult struct {
	Version   int    `json:"version"`
	Text      string `json:"texto"`
	CreatedAt string `json:"creado_en"`
}

// GapRecord is one detected research gap tied to an article.
type GapRecord struct {
	ID               string  `json:"id"`
	GapType          string  `json:"tipo_brecha"`
	Gap              string  `json:"brecha"`
	Opportunity      string  `json:"oportunidad"`
	AvgSimilarity    float64 `json:"sim_promedio"`
	Entropy          float64 `json:"entropia"`
	ValidationScore  float64 `json:"val_score"`
	ValidationStatus string  `json:"estado_validacion"`
	ValidationReason string  `json:"val_reason"`
}

// MetricsSummary aggregates gap-quality averages for a project.
type MetricsSummary struct {
	AvgEntropy         float64 `json:"avg_entropia"`
	AvgSimilarity      float64 `json:"avg_sim_promedio"`
	AvgValidationScore float64 `json:"avg_val_score"`
}

// MatrixRow is a flattened (article, gap) projection used for review/export.
type MatrixRow struct {
	Title       string `json:"titulo"`
	DOI         string `json:"doi"`
	Gap         string `json:"brecha"`
	Opportunity string `json:"oportunidad"`
}

// ProjectSummaryRow is the client-only projection shown on the project list.
// ArticleCount degrades to 0 and HasResult to false on partial fetch failure.
type ProjectSummaryRow struct {
	Project      Project
	ArticleCount int
	HasResult    bool
}
