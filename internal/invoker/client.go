// Package invoker issues the remote analysis call and normalizes its
// result into the session error taxonomy.
package invoker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/abhis59060/Network-analyzer/internal/models"
)

// DefaultTimeout bounds one analysis call. Large captures can take a
// while to decode server-side.
const DefaultTimeout = 5 * time.Minute

// Result is a normalized successful analysis response.
type Result struct {
	Records        []models.PacketRecord
	Visualizations []models.VisualizationSpec
}

// Client performs analysis requests against the configured service.
type Client struct {
	baseURL string
	http    *http.Client
}

// New creates a client for the analysis service at baseURL.
func New(baseURL string, timeout time.Duration) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}
}

// BaseURL returns the configured service address.
func (c *Client) BaseURL() string { return c.baseURL }

// errorBody is the optional JSON error envelope on non-2xx responses.
type errorBody struct {
	Error string `json:"error"`
}

// responseBody is the raw analysis payload. AnalysisResults is kept as
// raw JSON so a present-but-non-array field can be told apart from an
// absent one.
type responseBody struct {
	AnalysisResults json.RawMessage            `json:"analysis_results"`
	Visualizations  []models.VisualizationSpec `json:"visualizations"`
}

// Analyze posts the capture bytes as the multipart field "pcap_file" and
// normalizes the response. All failures come back as *models.SessionError:
// network kind when the service is unreachable, server kind on non-2xx,
// schema kind when analysis_results is absent or not an array.
func (c *Client) Analyze(ctx context.Context, fileName string, file io.Reader) (*Result, *models.SessionError) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("pcap_file", fileName)
	if err != nil {
		return nil, &models.SessionError{Kind: models.ErrNetwork, Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, &models.SessionError{Kind: models.ErrNetwork, Message: fmt.Sprintf("failed to read capture file: %v", err)}
	}
	writer.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/analyze", &body)
	if err != nil {
		return nil, &models.SessionError{Kind: models.ErrNetwork, Message: fmt.Sprintf("failed to build request: %v", err)}
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &models.SessionError{
			Kind:    models.ErrNetwork,
			Message: fmt.Sprintf("could not reach analysis service at %s, retry once it is available: %v", c.baseURL, err),
		}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &models.SessionError{
			Kind:    models.ErrNetwork,
			Message: fmt.Sprintf("could not read response from %s, retry once it is available: %v", c.baseURL, err),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, serverError(resp.StatusCode, raw)
	}

	var payload responseBody
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, &models.SessionError{Kind: models.ErrSchema, Message: fmt.Sprintf("analysis response is not valid JSON: %v", err)}
	}
	if len(payload.AnalysisResults) == 0 {
		return nil, &models.SessionError{Kind: models.ErrSchema, Message: "analysis response has no analysis_results field"}
	}

	var records []models.PacketRecord
	if err := json.Unmarshal(payload.AnalysisResults, &records); err != nil {
		return nil, &models.SessionError{Kind: models.ErrSchema, Message: "analysis_results is not a record array"}
	}
	if records == nil {
		// analysis_results was JSON null, which is not a sequence.
		return nil, &models.SessionError{Kind: models.ErrSchema, Message: "analysis_results is not a record array"}
	}

	visualizations := payload.Visualizations
	if visualizations == nil {
		visualizations = []models.VisualizationSpec{}
	}

	return &Result{Records: records, Visualizations: visualizations}, nil
}

// serverError extracts the service's own message when the error body is
// JSON {error}, otherwise builds a generic one embedding the status code.
func serverError(status int, raw []byte) *models.SessionError {
	var eb errorBody
	if err := json.Unmarshal(raw, &eb); err == nil && eb.Error != "" {
		return &models.SessionError{Kind: models.ErrServer, StatusCode: status, Message: eb.Error}
	}
	return &models.SessionError{
		Kind:       models.ErrServer,
		StatusCode: status,
		Message:    fmt.Sprintf("analysis service returned status %d", status),
	}
}
