package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"GapDesk/internal/config"
	"GapDesk/internal/domain"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, string) {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	dir := t.TempDir()
	return NewClient(config.APIConfig{BaseURL: srv.URL}, dir, nil), dir
}

func TestProjectsDecodesWireFields(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodGet, r.Method)
		require.Equal(t, "/proyectos", r.URL.Path)
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"p1","tema_principal":"LLMs","n_articulos_objetivo":5}]`))
	}))

	projects, err := client.Projects(context.Background())
	require.NoError(t, err)
	require.Len(t, projects, 1)
	require.Equal(t, "p1", projects[0].ID)
	require.Equal(t, "LLMs", projects[0].Topic)
	require.Equal(t, 5, projects[0].TargetArticles)
}

func TestRequestErrorCarriesParsedDetail(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"detail":"tema_principal is required"}`))
	}))

	_, err := client.CreateProject(context.Background(), domain.ProjectDraft{})
	require.Error(t, err)

	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, http.StatusUnprocessableEntity, reqErr.Status)
	require.Equal(t, http.MethodPost, reqErr.Method)
	require.Equal(t, "/proyectos", reqErr.URL)
	require.Equal(t, map[string]any{"detail": "tema_principal is required"}, reqErr.Detail)
}

func TestRequestErrorFallsBackToRawText(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream exploded"))
	}))

	_, err := client.Projects(context.Background())
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, http.StatusBadGateway, reqErr.Status)
	require.Equal(t, "upstream exploded", reqErr.Detail)
}

func TestAnalyzeAllAcceptsEmptyBody(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/proyectos/p1/analizar_todo", r.URL.Path)
		w.WriteHeader(http.StatusOK)
	}))

	require.NoError(t, client.AnalyzeAll(context.Background(), "p1"))
}

func TestLatestResultNotFoundIsNotAnError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"detail":"Not Found"}`))
	}))

	result, found, err := client.LatestResult(context.Background(), "p1")
	require.NoError(t, err)
	require.False(t, found)
	require.Zero(t, result)
}

func TestLatestResultFound(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/proyectos/p1/estado_arte/latest", r.URL.Path)
		_, _ = w.Write([]byte(`{"version":3,"texto":"synthesis","creado_en":"2025-09-01T10:00:00"}`))
	}))

	result, found, err := client.LatestResult(context.Background(), "p1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 3, result.Version)
	require.Equal(t, "synthesis", result.Text)
}

func TestLatestResultServerFailureIsAnError(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	_, found, err := client.LatestResult(context.Background(), "p1")
	require.Error(t, err)
	require.False(t, found)
}

func TestUploadArticleSendsMultipartPDF(t *testing.T) {
	t.Parallel()

	doc := filepath.Join(t.TempDir(), "paper.pdf")
	require.NoError(t, os.WriteFile(doc, []byte("%PDF-1.4 fake"), 0o644))

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/proyectos/p1/archivos", r.URL.Path)
		file, header, err := r.FormFile("pdf")
		require.NoError(t, err)
		defer file.Close()
		require.Equal(t, "paper.pdf", header.Filename)
		_, _ = w.Write([]byte(`{"id":"a1"}`))
	}))

	require.NoError(t, client.UploadArticle(context.Background(), "p1", doc))
}

func TestDownloadMetricsArchiveSavesFile(t *testing.T) {
	t.Parallel()

	payload := []byte("zip-bytes")
	client, dir := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/proyectos/p7/metrics/plots", r.URL.Path)
		_, _ = w.Write(payload)
	}))

	path, err := client.DownloadMetricsArchive(context.Background(), "p7")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "metricas_p7.zip"), path)

	saved, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, payload, saved)
}

func TestDownloadFailureSurfacesRequestErrorAndWritesNothing(t *testing.T) {
	t.Parallel()

	client, dir := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"detail":"plot generation failed"}`))
	}))

	_, err := client.DownloadMetricsArchive(context.Background(), "p7")
	var reqErr *RequestError
	require.True(t, errors.As(err, &reqErr))
	require.Equal(t, http.StatusInternalServerError, reqErr.Status)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestDownloadFilenamesPerExport(t *testing.T) {
	t.Parallel()

	client, dir := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("pdf"))
	}))

	matrix, err := client.DownloadMatrixDocument(context.Background(), "p2")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "matriz_p2.pdf"), matrix)

	dashboard, err := client.DownloadDashboard(context.Background(), "p2")
	require.NoError(t, err)
	require.Equal(t, filepath.Join(dir, "dashboard_p2.pdf"), dashboard)
}

func TestArticleGapsDecodesScores(t *testing.T) {
	t.Parallel()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/articulos/a1/brechas", r.URL.Path)
		_, _ = w.Write([]byte(`[{"id":"g1","tipo_brecha":"methodological","brecha":"no baselines",
            "oportunidad":"benchmark suite","sim_promedio":0.42,"entropia":1.7,
            "val_score":0.8,"estado_validacion":"accepted","val_reason":"strong"}]`))
	}))

	records, err := client.ArticleGaps(context.Background(), "a1")
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "methodological", records[0].GapType)
	require.InDelta(t, 0.42, records[0].AvgSimilarity, 1e-9)
	require.InDelta(t, 1.7, records[0].Entropy, 1e-9)
	require.Equal(t, "accepted", records[0].ValidationStatus)
}
