package recordsclient

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
	"strconv"
	"strings"
)

// HeaderDeviceID carries the opaque per-installation token.
const HeaderDeviceID = "x-device-id"

// APIError is a non-2xx response decoded from the server error envelope.
type APIError struct {
	Status  int
	Code    string
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d %s: %s", e.Status, e.Code, e.Message)
}

// Client is a thin HTTP client for the records API. It carries the device
// token on every request; unknown tokens are registered server-side on first
// sight, so there is no separate signup call.
type Client struct {
	baseURL string
	device  string
	http    *http.Client
}

func New(baseURL, deviceToken string) *Client {
	return NewWithHTTPClient(baseURL, deviceToken, http.DefaultClient)
}

func NewWithHTTPClient(baseURL, deviceToken string, hc *http.Client) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		device:  deviceToken,
		http:    hc,
	}
}

// ListParams mirrors the query parameters of GET /records. Zero values mean
// "omit and let the server default".
type ListParams struct {
	DefectTypes []string
	MinSeverity *int
	MaxSeverity *int
	HasLocation *bool
	Days        int
	SortBy      string
	Order       string
	Limit       int
	Offset      int
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	for _, dt := range p.DefectTypes {
		q.Add("defectType", dt)
	}
	if p.MinSeverity != nil {
		q.Set("minSeverity", strconv.Itoa(*p.MinSeverity))
	}
	if p.MaxSeverity != nil {
		q.Set("maxSeverity", strconv.Itoa(*p.MaxSeverity))
	}
	if p.HasLocation != nil {
		q.Set("hasLocation", strconv.FormatBool(*p.HasLocation))
	}
	if p.Days != 0 {
		q.Set("days", strconv.Itoa(p.Days))
	}
	if p.SortBy != "" {
		q.Set("sortBy", p.SortBy)
	}
	if p.Order != "" {
		q.Set("order", p.Order)
	}
	if p.Limit != 0 {
		q.Set("limit", strconv.Itoa(p.Limit))
	}
	q.Set("offset", strconv.Itoa(p.Offset))
	return q
}

func (c *Client) ListRecords(ctx context.Context, p ListParams) (*ListRecordsResponse, error) {
	var out ListRecordsResponse
	if err := c.do(ctx, http.MethodGet, "/api/records?"+p.query().Encode(), "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) GetRecord(ctx context.Context, id string) (*RecordDetail, error) {
	var out RecordDetail
	if err := c.do(ctx, http.MethodGet, "/api/records/"+id, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteRecord(ctx context.Context, id string) (*DeleteAck, error) {
	var out DeleteAck
	if err := c.do(ctx, http.MethodDelete, "/api/records/"+id, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) ListDefectTypes(ctx context.Context) ([]DefectTypeItem, error) {
	var out []DefectTypeItem
	if err := c.do(ctx, http.MethodGet, "/api/defect-types", "", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateParams carries the form fields of POST /records.
type CreateParams struct {
	DefectType       string
	Severity         int
	Note             string
	Lat              *float64
	Lng              *float64
	LocationAccuracy *float64
	RecordedAt       string // RFC3339, optional
}

// PhotoUpload is one photo part of a create request.
type PhotoUpload struct {
	Filename string
	MimeType string
	Data     io.Reader
}

func (c *Client) CreateRecord(ctx context.Context, p CreateParams, photos []PhotoUpload) (*RecordDetail, error) {
	var body bytes.Buffer
	w := multipart.NewWriter(&body)

	fields := map[string]string{
		"defectType": p.DefectType,
		"severity":   strconv.Itoa(p.Severity),
		"note":       p.Note,
		"recordedAt": p.RecordedAt,
	}
	if p.Lat != nil {
		fields["lat"] = strconv.FormatFloat(*p.Lat, 'f', -1, 64)
	}
	if p.Lng != nil {
		fields["lng"] = strconv.FormatFloat(*p.Lng, 'f', -1, 64)
	}
	if p.LocationAccuracy != nil {
		fields["locationAccuracy"] = strconv.FormatFloat(*p.LocationAccuracy, 'f', -1, 64)
	}
	for k, v := range fields {
		if v == "" {
			continue
		}
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}

	for _, ph := range photos {
		header := make(textproto.MIMEHeader)
		header.Set("Content-Disposition",
			fmt.Sprintf(`form-data; name="photos"; filename=%q`, ph.Filename))
		header.Set("Content-Type", ph.MimeType)
		part, err := w.CreatePart(header)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, ph.Data); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	var out RecordDetail
	if err := c.do(ctx, http.MethodPost, "/api/records", w.FormDataContentType(), &body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set(HeaderDeviceID, c.device)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp.StatusCode, data)
	}

	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

func decodeAPIError(status int, data []byte) error {
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	apiErr := &APIError{Status: status}
	if err := json.Unmarshal(data, &envelope); err == nil {
		apiErr.Code = envelope.Error.Code
		apiErr.Message = envelope.Error.Message
	}
	if apiErr.Message == "" {
		apiErr.Message = strings.TrimSpace(string(data))
	}
	return apiErr
}
