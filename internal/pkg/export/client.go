package export

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

	"github.com/google/uuid"

	"github.com/endorses/pcapview/internal/pkg/filtering"
	"github.com/endorses/pcapview/internal/pkg/logger"
	"github.com/endorses/pcapview/internal/pkg/version"
)

// maxResponseSize bounds how much of an export response is read
const maxResponseSize = 1 << 20

// ClientConfig holds configuration for the export client
type ClientConfig struct {
	// BaseURL of the analysis server (scheme://host[:port])
	BaseURL string

	// Timeout for a single export request (default: 30s)
	Timeout time.Duration

	// HTTPClient overrides the transport (optional)
	HTTPClient *http.Client
}

// Request is one export action. It is built from a criteria snapshot,
// sent once and discarded.
type Request struct {
	Kind     Kind
	TargetID string
	Criteria filtering.Criteria
}

// Validate checks that the request can be sent
func (r Request) Validate() error {
	if !r.Kind.Valid() {
		return fmt.Errorf("unknown export kind: %q", r.Kind)
	}
	if strings.TrimSpace(r.TargetID) == "" {
		return fmt.Errorf("target ID is required")
	}
	return nil
}

// Response is the JSON answer of both export endpoints
type Response struct {
	Success      bool   `json:"success"`
	Error        string `json:"error,omitempty"`
	ReportURL    string `json:"report_url,omitempty"`
	CSVURL       string `json:"csv_url,omitempty"`
	TotalPackets *int   `json:"total_packets,omitempty"`

	// RequestID is the X-Request-ID sent with the request (not part of the body)
	RequestID string `json:"-"`
}

// ArtifactURL returns the location of the produced artifact for k
func (r *Response) ArtifactURL(k Kind) string {
	if k == KindCSV {
		return r.CSVURL
	}
	return r.ReportURL
}

// Poster sends an export request
type Poster interface {
	Post(ctx context.Context, req Request) (*Response, error)
}

// Client sends filtered export requests to the analysis server
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
	timeout    time.Duration
}

// NewClient creates a new export client
func NewClient(config ClientConfig) (*Client, error) {
	if config.BaseURL == "" {
		return nil, fmt.Errorf("server URL is required")
	}

	base, err := url.Parse(config.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid server URL %q: %w", config.BaseURL, err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", config.BaseURL)
	}
	if base.Host == "" {
		return nil, fmt.Errorf("invalid server URL %q: missing host", config.BaseURL)
	}

	// Set default timeout
	timeout := config.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	httpClient := config.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}

	return &Client{
		baseURL:    base,
		httpClient: httpClient,
		timeout:    timeout,
	}, nil
}

// UserAgent identifies pcapview to the analysis server
func UserAgent() string {
	return "pcapview/" + version.GetShortVersion()
}

// BaseURL returns the server address
func (c *Client) BaseURL() string {
	return c.baseURL.String()
}

// ResolveURL turns an artifact reference from a response into an absolute URL
func (c *Client) ResolveURL(ref string) string {
	u, err := url.Parse(ref)
	if err != nil {
		return ref
	}
	return c.baseURL.ResolveReference(u).String()
}

// Post sends req once. Failures are never retried.
//
// The returned error is a *TransportError, *ApplicationError or
// *MalformedResponseError. For the last two the decoded response is
// returned as well.
func (c *Client) Post(ctx context.Context, req Request) (*Response, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	body, err := filtering.CriteriaToJSON(req.Criteria)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ref, err := url.Parse(req.Kind.Path(req.TargetID))
	if err != nil {
		return nil, fmt.Errorf("invalid target ID %q: %w", req.TargetID, err)
	}
	endpoint := c.baseURL.ResolveReference(ref)
	requestID := uuid.NewString()
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint.String(), bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Kind: req.Kind, RequestID: requestID, Err: err}
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("X-Request-ID", requestID)
	httpReq.Header.Set("User-Agent", UserAgent())

	logger.DebugContext(ctx, "Sending filtered export",
		"kind", req.Kind,
		"target_id", req.TargetID,
		"endpoint", endpoint.String(),
		"request_id", requestID)

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Kind: req.Kind, RequestID: requestID, Err: err}
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		// Drain so the connection can be reused
		_, _ = io.Copy(io.Discard, io.LimitReader(httpResp.Body, maxResponseSize))
		return nil, &TransportError{
			Kind:       req.Kind,
			StatusCode: httpResp.StatusCode,
			RequestID:  requestID,
			Err:        fmt.Errorf("%s", httpResp.Status),
		}
	}

	var resp Response
	if err := json.NewDecoder(io.LimitReader(httpResp.Body, maxResponseSize)).Decode(&resp); err != nil {
		return nil, &TransportError{Kind: req.Kind, RequestID: requestID, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	resp.RequestID = requestID

	if !resp.Success {
		return &resp, &ApplicationError{Kind: req.Kind, Message: resp.Error}
	}
	if resp.ArtifactURL(req.Kind) == "" {
		return &resp, &MalformedResponseError{Kind: req.Kind, Field: req.Kind.URLField()}
	}

	return &resp, nil
}
