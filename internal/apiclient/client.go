package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"expense-backoffice/internal/logger"

	"github.com/rs/zerolog"
)

// Client upstream expense API'si için tiplenmiş istemci.
// Token'sız client paylaşılır; her istek için WithToken ile kopyası alınır.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
	log     zerolog.Logger
}

func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		log:     logger.WithComponent("apiclient"),
	}
}

// WithToken her isteğe "Authorization: Bearer <token>" ekleyen bir kopya döner.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

type errorBody struct {
	ErrorCode string          `json:"error_code"`
	Detail    json.RawMessage `json:"detail"`
}

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	return c.do(ctx, http.MethodGet, path, query, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPost, path, nil, body, out)
}

func (c *Client) put(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPut, path, nil, body, out)
}

func (c *Client) patch(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, http.MethodPatch, path, nil, body, out)
}

func (c *Client) delete(ctx context.Context, path string) error {
	return c.do(ctx, http.MethodDelete, path, nil, nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("istek gövdesi hazırlanamadı: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reader)
	if err != nil {
		return fmt.Errorf("HTTP isteği oluşturulamadı: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("upstream isteği başarısız")
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &APIError{
			Status:    http.StatusBadGateway,
			Code:      CodeUpstreamUnavailable,
			Message:   "Sunucuya ulaşılamadı",
			Retryable: true,
		}
	}
	defer resp.Body.Close()

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Int("status", resp.StatusCode).
		Dur("took", time.Since(start)).
		Msg("upstream")

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("cevap okunamadı: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeError(resp.StatusCode, raw)
	}

	if out == nil || len(bytes.TrimSpace(raw)) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s %s cevabı çözümlenemedi: %w", method, path, err)
	}
	return nil
}

// decodeError non-2xx cevabı APIError'a çevirir. detail string değilse
// (ör. alan bazlı doğrulama listesi) ham metin mesaj olarak kullanılır.
func decodeError(status int, raw []byte) *APIError {
	apiErr := &APIError{Status: status}

	var body errorBody
	if err := json.Unmarshal(raw, &body); err == nil {
		apiErr.Code = body.ErrorCode
		if len(body.Detail) > 0 {
			var s string
			if err := json.Unmarshal(body.Detail, &s); err == nil {
				apiErr.Message = s
			} else {
				apiErr.Message = string(body.Detail)
			}
		}
	}

	if apiErr.Code == "" {
		apiErr.Code = codeForStatus(status)
	}
	if apiErr.Message == "" {
		apiErr.Message = genericMessage
	}
	apiErr.Retryable = apiErr.Code == CodeUpstreamUnavailable
	return apiErr
}

func idPath(format string, ids ...uint) string {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return fmt.Sprintf(format, args...)
}

func businessQuery(businessID uint) url.Values {
	q := url.Values{}
	q.Set("business_id", fmt.Sprint(businessID))
	return q
}
