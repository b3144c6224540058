package httpclient

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/kpcyrd/authoscope/scopeerr"
)

// Request describes a single HTTP call built by a script. Exactly one
// of JSON, Form or Raw should be set; precedence when more than one is
// present is JSON < Form < Raw, matching the last-write-wins order
// options are applied in by the runtime package.
type Request struct {
	Method    string
	URL       string
	Query     map[string]string
	Headers   map[string]string
	BasicUser string
	BasicPass string
	HasBasic  bool
	UserAgent string

	JSON interface{}
	Form map[string]string
	Raw  string
}

// Response is the decoded result of a sent request, shaped to match
// what scripts expect back: a status code, the body text, and any
// Set-Cookie values already folded into the session jar.
type Response struct {
	Status int
	Body   string
	Headers map[string][]string
}

// Client wraps a non-redirecting http.Client; scripts see raw
// redirects as 3xx responses rather than the client silently
// following them.
type Client struct {
	http *http.Client
}

func NewClient(timeout time.Duration) *Client {
	return &Client{
		http: &http.Client{
			Timeout: timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
	}
}

// Send executes req against sess, folding any Set-Cookie response
// headers back into the session's jar before returning.
func (c *Client) Send(sess *Session, req *Request) (*Response, error) {
	u, err := url.Parse(req.URL)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.BadArg, "invalid url %q", req.URL)
	}
	if len(req.Query) > 0 {
		q := u.Query()
		for k, v := range req.Query {
			q.Set(k, v)
		}
		u.RawQuery = q.Encode()
	}

	var bodyReader io.Reader
	contentType := ""
	switch {
	case req.Raw != "":
		bodyReader = strings.NewReader(req.Raw)
	case req.Form != nil:
		form := url.Values{}
		for k, v := range req.Form {
			form.Set(k, v)
		}
		bodyReader = strings.NewReader(form.Encode())
		contentType = "application/x-www-form-urlencoded"
	case req.JSON != nil:
		buf, err := json.Marshal(req.JSON)
		if err != nil {
			return nil, scopeerr.Annotatef(err, scopeerr.BadArg, "encoding json body")
		}
		bodyReader = bytes.NewReader(buf)
		contentType = "application/json"
	}

	httpReq, err := http.NewRequest(strings.ToUpper(req.Method), u.String(), bodyReader)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.BadArg, "building request")
	}
	if contentType != "" {
		httpReq.Header.Set("Content-Type", contentType)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}
	if req.UserAgent != "" {
		httpReq.Header.Set("User-Agent", req.UserAgent)
	}
	if req.HasBasic {
		httpReq.SetBasicAuth(req.BasicUser, req.BasicPass)
	}
	if cookies := Header(sess.Jar.Snapshot()); cookies != "" {
		httpReq.Header.Set("Cookie", cookies)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "sending request to %s", req.URL)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, scopeerr.Annotatef(err, scopeerr.Io, "reading response body")
	}

	var pairs [][2]string
	for _, raw := range resp.Header.Values("Set-Cookie") {
		name, value := ParseSetCookie(raw)
		if name != "" {
			pairs = append(pairs, [2]string{name, value})
		}
	}
	if len(pairs) > 0 {
		sess.Jar.Register(pairs)
	}

	return &Response{
		Status:  resp.StatusCode,
		Body:    string(body),
		Headers: map[string][]string(resp.Header),
	}, nil
}
