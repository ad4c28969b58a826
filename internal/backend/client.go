package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"strings"
	"time"

	platformerrors "github.com/jmgilman/go/errors"

	"github.com/daniilsolovey/havaasa/internal/newsportal"
)

const (
	DefaultTimeout = 10 * time.Second

	apiSuffix    = "/api"
	maxErrorBody = 4 << 10
)

type Config struct {
	URL     string
	Timeout time.Duration
	// Token is used for mutations when the caller does not supply one.
	Token string
}

// Client talks to the articles REST backend. It implements newsportal.Source
// and newsportal.Mutator.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *slog.Logger
}

func NewClient(cfg Config, logger *slog.Logger) (*Client, error) {
	baseURL, err := NormalizeBaseURL(cfg.URL)
	if err != nil {
		return nil, err
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		baseURL: baseURL,
		token:   cfg.Token,
		http:    &http.Client{Timeout: timeout},
		log:     logger,
	}, nil
}

// NormalizeBaseURL makes sure the base URL ends with a single /api segment.
func NormalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimRight(strings.TrimSpace(raw), "/")
	if raw == "" {
		return "", platformerrors.New(platformerrors.CodeInvalidConfig, "backend url is empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "parse backend url")
	} else if u.Scheme != "http" && u.Scheme != "https" {
		return "", platformerrors.Newf(platformerrors.CodeInvalidConfig, "backend url %q must be http or https", raw)
	} else if u.Host == "" {
		return "", platformerrors.Newf(platformerrors.CodeInvalidConfig, "backend url %q has no host", raw)
	}

	if !strings.HasSuffix(raw, apiSuffix) {
		raw += apiSuffix
	}

	return raw, nil
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

// Articles returns the whole collection in backend order.
func (c *Client) Articles(ctx context.Context) ([]newsportal.Article, error) {
	var articles []newsportal.Article
	if err := c.do(ctx, http.MethodGet, "/articles", "", nil, &articles); err != nil {
		return nil, err
	} else if articles == nil {
		return nil, newsportal.FormatError(nil, "GET /articles: body is not an array")
	}

	return articles, nil
}

// ArticleByID returns nil, nil when the backend answers 404.
func (c *Client) ArticleByID(ctx context.Context, id string) (*newsportal.Article, error) {
	var article newsportal.Article
	err := c.do(ctx, http.MethodGet, "/articles/"+url.PathEscape(id), "", nil, &article)
	if platformerrors.GetCode(err) == platformerrors.CodeNotFound {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	return &article, nil
}

func (c *Client) CreateArticle(ctx context.Context, token string, in newsportal.ArticleInput) (*newsportal.Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var article newsportal.Article
	if err := c.do(ctx, http.MethodPost, "/articles", c.credential(token), in, &article); err != nil {
		return nil, err
	}

	return &article, nil
}

func (c *Client) UpdateArticle(ctx context.Context, token, id string, in newsportal.ArticleInput) (*newsportal.Article, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	var article newsportal.Article
	if err := c.do(ctx, http.MethodPut, "/articles/"+url.PathEscape(id), c.credential(token), in, &article); err != nil {
		return nil, err
	}

	return &article, nil
}

func (c *Client) DeleteArticle(ctx context.Context, token, id string) error {
	return c.do(ctx, http.MethodDelete, "/articles/"+url.PathEscape(id), c.credential(token), nil, nil)
}

func (c *Client) credential(token string) string {
	if token != "" {
		return token
	}

	return c.token
}

// do sends one request and decodes a 2xx JSON body into out when out is not nil.
func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidInput, "build request")
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return transportError(ctx, method, path, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "backend request",
		"method", method,
		"path", path,
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		err := statusError(method, path, resp)
		if method == http.MethodGet {
			// Reads retry on any non-2xx answer, the code is kept for status mapping.
			return platformerrors.WithClassification(err, platformerrors.ClassificationRetryable)
		}
		return err
	}
	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("read %s %s: %w", method, path, ctx.Err())
		}
		return newsportal.FormatError(err, "decode %s %s", method, path)
	}

	return nil
}

func transportError(ctx context.Context, method, path string, err error) error {
	if ctxErr := ctx.Err(); errors.Is(ctxErr, context.Canceled) {
		return fmt.Errorf("%s %s: %w", method, path, ctxErr)
	}

	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return platformerrors.Wrapf(err, platformerrors.CodeTimeout, "%s %s", method, path)
	}

	return platformerrors.Wrapf(err, platformerrors.CodeNetwork, "%s %s", method, path)
}

type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Details string `json:"details"`
}

func statusError(method, path string, resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	msg := strings.TrimSpace(string(raw))
	var eb errorBody
	if json.Unmarshal(raw, &eb) == nil {
		switch {
		case eb.Error != "" && eb.Details != "":
			msg = eb.Error + ": " + eb.Details
		case eb.Error != "":
			msg = eb.Error
		case eb.Message != "":
			msg = eb.Message
		}
	}
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}

	err := platformerrors.Newf(statusCode(resp.StatusCode), "%s %s: status %d: %s", method, path, resp.StatusCode, msg)

	return platformerrors.WithContext(err, "status", resp.StatusCode)
}

func statusCode(status int) platformerrors.ErrorCode {
	switch {
	case status == http.StatusNotFound:
		return platformerrors.CodeNotFound
	case status == http.StatusUnauthorized:
		return platformerrors.CodeUnauthorized
	case status == http.StatusForbidden:
		return platformerrors.CodeForbidden
	case status == http.StatusConflict:
		return platformerrors.CodeConflict
	case status == http.StatusTooManyRequests:
		return platformerrors.CodeRateLimit
	case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
		return platformerrors.CodeTimeout
	case status >= 500:
		return platformerrors.CodeUnavailable
	case status >= 400:
		return platformerrors.CodeInvalidInput
	default:
		return platformerrors.CodeNetwork
	}
}
