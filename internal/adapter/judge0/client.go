package judge0

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"gitlab.com/fcv-2025.net/grader/internal/config"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/primary"
	"gitlab.com/fcv-2025.net/grader/internal/core/ports/secondary"
	"gitlab.com/fcv-2025.net/grader/internal/domain"
	"gitlab.com/fcv-2025.net/grader/internal/static/errs"
)

const resultFields = "token,stdout,stderr,compile_output,message,status,time,memory"

var _ secondary.JudgeClient = (*Client)(nil)

// Client talks to a Judge0 compatible execution service. Each call is a
// single request; retries belong to the caller.
type Client struct {
	cfg        *config.JudgeConfig
	httpClient *http.Client
	logger     primary.Logger
}

func NewClient(cfg *config.JudgeConfig, logger primary.Logger) *Client {
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.RequestTimeout},
		logger:     logger,
	}
}

func (c *Client) Submit(ctx context.Context, req domain.JudgeRequest) (domain.ExecutionToken, error) {
	payload := submitRequest{
		SourceCode: encodeText(req.SourceCode),
		LanguageID: int(req.LanguageID),
		Stdin:      encodeText(req.Stdin),
	}
	// the judge takes limits as decimal strings
	if req.Limits.CPUTimeLimit > 0 {
		payload.CPUTimeLimit = strconv.FormatFloat(req.Limits.CPUTimeLimit, 'f', -1, 64)
	}
	if req.Limits.MemoryLimit > 0 {
		payload.MemoryLimit = strconv.Itoa(req.Limits.MemoryLimit)
	}
	if req.ExpectedOutput != nil {
		expected := encodeText(*req.ExpectedOutput)
		payload.ExpectedOutput = &expected
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to marshal submission: %w", err)
	}

	query := url.Values{"base64_encoded": {"true"}, "wait": {"false"}}
	status, respBody, err := c.do(ctx, http.MethodPost, "/submissions", query, body)
	if err != nil {
		return "", err
	}

	switch {
	case status == http.StatusUnprocessableEntity && strings.Contains(string(respBody), "language_id"):
		return "", fmt.Errorf("%w: judge rejected language id %d", errs.ErrUnsupportedLanguage, req.LanguageID)
	case status < 200 || status > 299:
		return "", c.statusError(status, respBody)
	}

	var created submitResponse
	if err := json.Unmarshal(respBody, &created); err != nil {
		return "", fmt.Errorf("%w: %v", errs.ErrMalformedResult, err)
	}
	if created.Token == "" {
		return "", fmt.Errorf("%w: submission response has no token", errs.ErrMalformedResult)
	}

	c.logger.Debug("Submitted run to judge", "token", created.Token, "languageId", req.LanguageID)
	return domain.ExecutionToken(created.Token), nil
}

func (c *Client) FetchResult(ctx context.Context, token domain.ExecutionToken) (domain.ExecutionOutcome, error) {
	query := url.Values{"base64_encoded": {"true"}, "fields": {resultFields}}
	status, body, err := c.do(ctx, http.MethodGet, "/submissions/"+url.PathEscape(string(token)), query, nil)
	if err != nil {
		return domain.ExecutionOutcome{}, err
	}
	if status < 200 || status > 299 {
		return domain.ExecutionOutcome{}, c.statusError(status, body)
	}
	return Normalize(body)
}

// Languages lists the languages the judge itself advertises
func (c *Client) Languages(ctx context.Context) ([]domain.Language, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/languages", nil, nil)
	if err != nil {
		return nil, err
	}
	if status < 200 || status > 299 {
		return nil, c.statusError(status, body)
	}

	var raw []rawLanguage
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", errs.ErrMalformedResult, err)
	}
	languages := make([]domain.Language, 0, len(raw))
	for _, l := range raw {
		languages = append(languages, domain.Language{Name: l.Name, ID: domain.LanguageID(l.ID)})
	}
	return languages, nil
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) (int, []byte, error) {
	if c.cfg.RequireCredentials && c.cfg.APIKey == "" && c.cfg.AuthToken == "" {
		return 0, nil, errs.ErrMissingCredentials
	}

	endpoint := c.cfg.BaseURL + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to build judge request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.cfg.APIKey != "" {
		req.Header.Set("X-RapidAPI-Key", c.cfg.APIKey)
		req.Header.Set("X-RapidAPI-Host", c.cfg.APIHost)
	}
	if c.cfg.AuthToken != "" {
		req.Header.Set("X-Auth-Token", c.cfg.AuthToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, nil, ctxErr
		}
		return 0, nil, fmt.Errorf("%w: %s %s: %v", errs.ErrJudgeTransport, method, path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, fmt.Errorf("%w: reading response: %v", errs.ErrJudgeTransport, err)
	}
	return resp.StatusCode, respBody, nil
}

func (c *Client) statusError(status int, body []byte) error {
	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		return fmt.Errorf("%w: status %d", errs.ErrInvalidCredentials, status)
	}
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	c.logger.Warn("Judge returned an error status", "status", status, "body", snippet)
	return fmt.Errorf("%w: status %d: %s", errs.ErrJudgeTransport, status, snippet)
}
