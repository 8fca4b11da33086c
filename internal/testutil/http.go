package testutil

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

// Envelope mirrors the JSON envelope every API response is wrapped in.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
	Meta *struct {
		Total      int64 `json:"total"`
		Page       int   `json:"page"`
		PageSize   int   `json:"page_size"`
		TotalPages int   `json:"total_pages"`
	} `json:"meta"`
}

// ErrorCode returns the error code of a failed response, or "" on success.
func (e Envelope) ErrorCode() string {
	if e.Error == nil {
		return ""
	}
	return e.Error.Code
}

// Response is a recorded HTTP response.
type Response struct {
	*httptest.ResponseRecorder
	t *testing.T
}

// Envelope decodes the response body as an API envelope.
func (r *Response) Envelope() Envelope {
	r.t.Helper()
	var env Envelope
	require.NoError(r.t, json.Unmarshal(r.Body.Bytes(), &env), "body: %s", r.Body.String())
	return env
}

// DecodeData decodes the envelope's data into T.
func DecodeData[T any](t *testing.T, r *Response) T {
	t.Helper()
	var v T
	env := r.Envelope()
	require.True(t, env.Success, "request failed: %s", r.Body.String())
	if len(env.Data) == 0 {
		return v
	}
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

// Client sends requests straight into a gin engine and carries cookies
// between calls the way a browser would.
type Client struct {
	t       *testing.T
	engine  *gin.Engine
	cookies map[string]*http.Cookie
	headers http.Header
}

// NewClient creates a client for engine.
func NewClient(t *testing.T, engine *gin.Engine) *Client {
	return &Client{
		t:       t,
		engine:  engine,
		cookies: make(map[string]*http.Cookie),
		headers: make(http.Header),
	}
}

// SetHeader adds a header to every following request.
func (c *Client) SetHeader(key, value string) {
	c.headers.Set(key, value)
}

// Cookie returns the current value of a cookie set by the server.
func (c *Client) Cookie(name string) string {
	if ck, ok := c.cookies[name]; ok {
		return ck.Value
	}
	return ""
}

// Do sends a request with body encoded as JSON when it is not nil.
func (c *Client) Do(method, path string, body any, headers ...string) *Response {
	c.t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(c.t, err, "Failed to marshal request body")
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return c.send(req, headers...)
}

// DoRaw sends a request with a prepared body and content type.
func (c *Client) DoRaw(method, path, contentType string, body io.Reader, headers ...string) *Response {
	c.t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", contentType)
	return c.send(req, headers...)
}

// Get is shorthand for Do with GET and no body.
func (c *Client) Get(path string) *Response {
	c.t.Helper()
	return c.Do(http.MethodGet, path, nil)
}

func (c *Client) send(req *http.Request, headers ...string) *Response {
	c.t.Helper()
	require.Zero(c.t, len(headers)%2, "headers come in key/value pairs")
	for k, vs := range c.headers {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	for i := 0; i < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}

	w := httptest.NewRecorder()
	c.engine.ServeHTTP(w, req)

	for _, ck := range w.Result().Cookies() {
		if ck.MaxAge < 0 || ck.Value == "" {
			delete(c.cookies, ck.Name)
			continue
		}
		c.cookies[ck.Name] = ck
	}
	return &Response{ResponseRecorder: w, t: c.t}
}
