package relay

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"strings"
	"time"

	"github.com/adamavenir/dispatch/internal/types"
	"github.com/rs/zerolog"
)

const (
	sendPath         = "/send"
	autocompletePath = "/autocomplete"

	messageField = "message"
	fileField    = "file"
)

// APIError is a non-2xx relay response whose body is not the JSON envelope.
type APIError struct {
	Status int
	Body   string
}

func (e *APIError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("relay error (%d): %s", e.Status, e.Body)
	}
	return fmt.Sprintf("relay error (%d)", e.Status)
}

// Client talks to the relay's /send and /autocomplete endpoints.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient constructs a relay client. A zero timeout leaves requests bounded
// only by their context.
func NewClient(baseURL string, timeout time.Duration, logger zerolog.Logger) (*Client, error) {
	normalized, err := NormalizeBaseURL(baseURL)
	if err != nil {
		return nil, err
	}
	return &Client{
		baseURL:    normalized,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger.With().Str("component", "relay").Logger(),
	}, nil
}

// NormalizeBaseURL trims a relay URL and ensures it has a scheme.
func NormalizeBaseURL(raw string) (string, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", fmt.Errorf("relay url cannot be empty")
	}
	parsed, err := url.Parse(value)
	if err != nil {
		return "", fmt.Errorf("invalid relay url: %w", err)
	}
	if parsed.Scheme == "" || parsed.Host == "" {
		return "", fmt.Errorf("relay url must include scheme and host (http://host:port)")
	}
	return strings.TrimRight(value, "/"), nil
}

// BaseURL returns the normalized relay address.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Send posts one message with its attachments as multipart form data: a
// "message" field followed by one "file" part per attachment, in order.
func (c *Client) Send(ctx context.Context, message string, files []types.Attachment) (types.SendResponse, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	if err := writer.WriteField(messageField, message); err != nil {
		return types.SendResponse{}, err
	}
	for _, file := range files {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="%s"; filename="%s"`, fileField, escapeQuotes(file.Name)))
		contentType := file.MIMEType
		if contentType == "" {
			contentType = "application/octet-stream"
		}
		h.Set("Content-Type", contentType)
		part, err := writer.CreatePart(h)
		if err != nil {
			return types.SendResponse{}, err
		}
		if _, err := part.Write(file.Data); err != nil {
			return types.SendResponse{}, err
		}
	}
	if err := writer.Close(); err != nil {
		return types.SendResponse{}, err
	}

	endpoint, err := c.buildURL(sendPath, nil)
	if err != nil {
		return types.SendResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &body)
	if err != nil {
		return types.SendResponse{}, err
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().Int("files", len(files)).Int("chars", len(message)).Msg("send")

	var resp types.SendResponse
	if err := c.do(req, &resp); err != nil {
		c.logger.Warn().Err(err).Msg("send failed")
		return types.SendResponse{}, err
	}
	c.logger.Debug().Bool("success", resp.Success).Msg("send complete")
	return resp, nil
}

// Autocomplete looks up mention targets of kind whose names match query.
func (c *Client) Autocomplete(ctx context.Context, kind types.MentionKind, query string) (types.AutocompleteResponse, error) {
	values := url.Values{}
	values.Set("type", string(kind))
	values.Set("q", query)
	endpoint, err := c.buildURL(autocompletePath, values)
	if err != nil {
		return types.AutocompleteResponse{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.AutocompleteResponse{}, err
	}
	req.Header.Set("Accept", "application/json")

	var resp types.AutocompleteResponse
	if err := c.do(req, &resp); err != nil {
		return types.AutocompleteResponse{}, err
	}
	c.logger.Debug().Str("type", string(kind)).Str("q", query).Int("results", len(resp.Results)).Msg("autocomplete")
	return resp, nil
}

// do executes req and decodes the JSON envelope into out. The relay answers
// application failures with 4xx/5xx plus the envelope, so any status whose
// body decodes is a result rather than an error.
func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	decodeErr := json.Unmarshal(data, out)
	if decodeErr == nil {
		return nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(data))}
	}
	return fmt.Errorf("decode relay response: %w", decodeErr)
}

func (c *Client) buildURL(path string, query url.Values) (string, error) {
	base, err := url.Parse(c.baseURL)
	if err != nil {
		return "", err
	}
	endpoint := base.JoinPath(path)
	if len(query) > 0 {
		endpoint.RawQuery = query.Encode()
	}
	return endpoint.String(), nil
}

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

func escapeQuotes(s string) string {
	return quoteEscaper.Replace(s)
}
