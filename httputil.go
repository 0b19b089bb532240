package pulse

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/PaesslerAG/jsonpath"
	"go.uber.org/zap"
)

// contains the http plumbing shared by all the endpoints.

// call performs one JSON request and classifies any failure into the error
// taxonomy. When business is true, a 2xx body that reports a failure in its
// "status" or "success" field is a *BusinessError. out may be nil.
func (a *API) call(ctx context.Context, method, path string, in, out any, business bool) error {
	data, err := a.send(ctx, method, path, in)
	if err != nil {
		return err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return &PayloadError{Path: path, Err: err}
	}
	if business {
		if err := businessStatus(path, doc); err != nil {
			return err
		}
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return &PayloadError{Path: path, Err: err}
	}
	return nil
}

// send performs one request and returns the body of a 2xx answer, whatever
// its content. Anything else is a *TransportError or an *HTTPError.
func (a *API) send(ctx context.Context, method, path string, in any) ([]byte, error) {
	if a.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, a.Timeout)
		defer cancel()
	}

	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, fmt.Errorf("cannot encode %s %s request: %w", method, path, err)
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, a.BaseURL+path, body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := a.httpClient().Do(req)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Method: method, Path: path, Err: err}
	}
	a.logger().Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var doc any
		_ = json.Unmarshal(data, &doc)
		return nil, &HTTPError{Method: method, Path: path, StatusCode: resp.StatusCode, Message: message(doc)}
	}
	return data, nil
}

// businessStatus applies the backend convention: a "status" other than
// "success", or a "success" set to false, is a failure.
func businessStatus(path string, doc any) error {
	if status, err := jsonpath.Get("$.status", doc); err == nil {
		if s, _ := status.(string); s != "success" {
			return &BusinessError{Path: path, Message: message(doc)}
		}
		return nil
	}
	if ok, err := jsonpath.Get("$.success", doc); err == nil {
		if b, isBool := ok.(bool); isBool && !b {
			return &BusinessError{Path: path, Message: message(doc)}
		}
	}
	return nil
}

// message extracts the human readable reason from a backend body, if any.
func message(doc any) string {
	for _, path := range []string{"$.message", "$.error"} {
		v, err := jsonpath.Get(path, doc)
		if err != nil {
			continue
		}
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	return ""
}

// require checks that every path resolves in doc.
func require(path string, doc any, fields ...string) error {
	for _, f := range fields {
		if _, err := jsonpath.Get(f, doc); err != nil {
			return &PayloadError{Path: path, Err: fmt.Errorf("missing field %s: %w", f, err)}
		}
	}
	return nil
}

// raw performs call and returns both the generic decoded document, for
// jsonpath inspection, and the body itself.
func (a *API) raw(ctx context.Context, method, path string, business bool) (any, json.RawMessage, error) {
	var msg json.RawMessage
	if err := a.call(ctx, method, path, nil, &msg, business); err != nil {
		return nil, nil, err
	}
	var doc any
	if err := json.Unmarshal(msg, &doc); err != nil {
		return nil, nil, &PayloadError{Path: path, Err: err}
	}
	return doc, msg, nil
}

func (a *API) httpClient() *http.Client {
	if a.HTTP != nil {
		return a.HTTP
	}
	return http.DefaultClient
}

func (a *API) logger() *zap.Logger {
	if a.Logger != nil {
		return a.Logger
	}
	return zap.NewNop()
}

// isNotFound reports whether err is an HTTP 404.
func isNotFound(err error) bool {
	var he *HTTPError
	return errors.As(err, &he) && he.StatusCode == http.StatusNotFound
}
