package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"GapDesk/internal/config"
	"GapDesk/internal/domain"
	"GapDesk/internal/ports"
)

// RequestError is the single failure kind surfaced to the user. Detail holds
// the backend's JSON error body when it parses, otherwise the raw text.
type RequestError struct {
	Method string
	URL    string
	Status int
	Detail any
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("%s %s → %d", e.Method, e.URL, e.Status)
}

// Client talks to the gap-analysis backend. It performs no retries and
// enforces no timeout of its own; callers own both policies.
type Client struct {
	baseURL     string
	downloadDir string
	http        *http.Client
	logger      *slog.Logger
}

var _ ports.ProjectDirectory = (*Client)(nil)
var _ ports.ArticleSource = (*Client)(nil)
var _ ports.ResultSource = (*Client)(nil)
var _ ports.GapSource = (*Client)(nil)
var _ ports.Exporter = (*Client)(nil)

// NewClient creates a reusable backend client.
func NewClient(cfg config.APIConfig, downloadDir string, logger *slog.Logger) *Client {
	return &Client{
		baseURL:     cfg.BaseURL,
		downloadDir: downloadDir,
		http:        &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

// Projects lists all projects.
func (c *Client) Projects(ctx context.Context) ([]domain.Project, error) {
	var out []domain.Project
	if err := c.getJSON(ctx, "/proyectos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateProject submits a creation payload and returns the stored project.
func (c *Client) CreateProject(ctx context.Context, draft domain.ProjectDraft) (domain.Project, error) {
	var out domain.Project
	if err := c.postJSON(ctx, "/proyectos", draft, &out); err != nil {
		return domain.Project{}, err
	}
	return out, nil
}

// Articles lists the documents ingested for one project.
func (c *Client) Articles(ctx context.Context, projectID string) ([]domain.Article, error) {
	var out []domain.Article
	if err := c.getJSON(ctx, "/proyectos/"+projectID+"/articulos", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// UploadArticle submits one PDF for ingestion as multipart form data.
func (c *Client) UploadArticle(ctx context.Context, projectID, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open document: %w", err)
	}
	defer f.Close()

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("pdf", filepath.Base(path))
	if err != nil {
		return fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return fmt.Errorf("copy document: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("close multipart writer: %w", err)
	}

	url := c.baseURL + "/proyectos/" + projectID + "/archivos"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	if _, err := c.do(req); err != nil {
		return err
	}
	return nil
}

// AnalyzeAll triggers batch analysis for a project with an empty payload.
func (c *Client) AnalyzeAll(ctx context.Context, projectID string) error {
	return c.postJSON(ctx, "/proyectos/"+projectID+"/analizar_todo", struct{}{}, nil)
}

// LatestResult fetches the newest analysis result. A not-found response is
// reported through the boolean, not as an error.
func (c *Client) LatestResult(ctx context.Context, projectID string) (domain.AnalysisResult, bool, error) {
	var out domain.AnalysisResult
	err := c.getJSON(ctx, "/proyectos/"+projectID+"/estado_arte/latest", &out)
	if err != nil {
		if isNotFound(err) {
			return domain.AnalysisResult{}, false, nil
		}
		return domain.AnalysisResult{}, false, err
	}
	return out, true, nil
}

// MetricsSummary fetches aggregate gap metrics; absence is not an error.
func (c *Client) MetricsSummary(ctx context.Context, projectID string) (domain.MetricsSummary, bool, error) {
	var out domain.MetricsSummary
	err := c.getJSON(ctx, "/proyectos/"+projectID+"/metrics/resumen", &out)
	if err != nil {
		if isNotFound(err) {
			return domain.MetricsSummary{}, false, nil
		}
		return domain.MetricsSummary{}, false, err
	}
	return out, true, nil
}

// ArticleGaps lists the gap records detected for one article.
func (c *Client) ArticleGaps(ctx context.Context, articleID string) ([]domain.GapRecord, error) {
	var out []domain.GapRecord
	if err := c.getJSON(ctx, "/articulos/"+articleID+"/brechas", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// MatrixRows fetches the flattened gap matrix for a project.
func (c *Client) MatrixRows(ctx context.Context, projectID string) ([]domain.MatrixRow, error) {
	var out []domain.MatrixRow
	if err := c.getJSON(ctx, "/export/proyectos/"+projectID+"/matriz.json", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DownloadMetricsArchive saves the metrics plot archive locally.
func (c *Client) DownloadMetricsArchive(ctx context.Context, projectID string) (string, error) {
	return c.download(ctx, "/proyectos/"+projectID+"/metrics/plots", fmt.Sprintf("metricas_%s.zip", projectID))
}

// DownloadMatrixDocument saves the rendered matrix PDF locally.
func (c *Client) DownloadMatrixDocument(ctx context.Context, projectID string) (string, error) {
	return c.download(ctx, "/export/proyectos/"+projectID+"/matriz.pdf", fmt.Sprintf("matriz_%s.pdf", projectID))
}

// DownloadDashboard saves the rendered dashboard PDF locally.
func (c *Client) DownloadDashboard(ctx context.Context, projectID string) (string, error) {
	return c.download(ctx, "/export/proyectos/"+projectID+"/dashboard.pdf", fmt.Sprintf("dashboard_%s.pdf", projectID))
}

func (c *Client) getJSON(ctx context.Context, path string, v any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeBody(raw, v)
}

func (c *Client) postJSON(ctx context.Context, path string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	raw, err := c.do(req)
	if err != nil {
		return err
	}
	return decodeBody(raw, v)
}

func (c *Client) download(ctx context.Context, path, filename string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("new request: %w", err)
	}

	raw, err := c.do(req)
	if err != nil {
		return "", err
	}

	if err := os.MkdirAll(c.downloadDir, 0o755); err != nil {
		return "", fmt.Errorf("create download dir: %w", err)
	}

	dest := filepath.Join(c.downloadDir, filename)
	if err := os.WriteFile(dest, raw, 0o644); err != nil {
		return "", fmt.Errorf("save %s: %w", filename, err)
	}
	return dest, nil
}

// do executes the request, logs it under a correlation id, and normalizes a
// non-success status into a RequestError with parsed-or-raw detail.
func (c *Client) do(req *http.Request) ([]byte, error) {
	rid := uuid.NewString()
	req.Header.Set("X-Request-ID", rid)
	c.debug("request", "id", rid, "method", req.Method, "url", req.URL.String())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		c.debug("request failed", "id", rid, "status", resp.StatusCode)
		return nil, &RequestError{
			Method: req.Method,
			URL:    req.URL.Path,
			Status: resp.StatusCode,
			Detail: parseDetail(raw),
		}
	}

	c.debug("request done", "id", rid, "status", resp.StatusCode, "bytes", len(raw))
	return raw, nil
}

// decodeBody unmarshals into v, treating an empty body as an empty structure.
func decodeBody(raw []byte, v any) error {
	if v == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func parseDetail(raw []byte) any {
	var detail any
	if err := json.Unmarshal(raw, &detail); err != nil {
		return string(raw)
	}
	return detail
}

func isNotFound(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.Status == http.StatusNotFound
}

func (c *Client) debug(msg string, args ...any) {
	if c.logger != nil {
		c.logger.Debug(msg, args...)
	}
}
