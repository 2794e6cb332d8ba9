package client

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
)

// httpClient wraps resty with the retry behaviour the entry service wants:
// back off on 429 honouring Retry-After. Bodies are passed pre-marshaled so
// the L2 signature covers the exact bytes sent.
type httpClient struct {
	rc *resty.Client
}

func newHTTPClient(host string) *httpClient {
	rc := resty.New().
		SetBaseURL(strings.TrimSuffix(host, "/")).
		SetTimeout(60 * time.Second).
		SetRetryCount(3).
		SetRetryWaitTime(1 * time.Second).
		SetRetryMaxWaitTime(10 * time.Second).
		AddRetryCondition(func(resp *resty.Response, err error) bool {
			return err == nil && resp.StatusCode() == http.StatusTooManyRequests
		}).
		SetRetryAfter(func(client *resty.Client, resp *resty.Response) (time.Duration, error) {
			if resp.StatusCode() == http.StatusTooManyRequests {
				if retryAfter := resp.Header().Get("Retry-After"); retryAfter != "" {
					if d, err := time.ParseDuration(retryAfter + "s"); err == nil {
						return d, nil
					}
				}
				return 10 * time.Second, nil
			}
			return 0, nil
		})
	return &httpClient{rc: rc}
}

func (h *httpClient) newRequest(ctx context.Context, headers map[string]string) *resty.Request {
	r := h.rc.R()
	if ctx != nil {
		r.SetContext(ctx)
	}
	r.SetHeader("Accept", "*/*")
	r.SetHeader("Connection", "keep-alive")
	r.SetHeader("User-Agent", "goprob-clob")
	for k, v := range headers {
		r.SetHeader(k, v)
	}
	return r
}

// do executes the request and decodes a 2xx response into out. Non-2xx
// responses come back as *APIError carrying the original body.
func (h *httpClient) do(ctx context.Context, method, path string, headers map[string]string, body []byte, out any) error {
	r := h.newRequest(ctx, headers)
	if body != nil {
		r.SetHeader("Content-Type", "application/json")
		r.SetBody(body)
	}

	var resp *resty.Response
	var err error
	switch method {
	case http.MethodGet:
		resp, err = r.Get(path)
	case http.MethodPost:
		resp, err = r.Post(path)
	case http.MethodDelete:
		resp, err = r.Delete(path)
	default:
		return errors.Errorf("unsupported method: %s", method)
	}
	if err != nil {
		return errors.Wrapf(err, "request %s %s", method, path)
	}
	if !resp.IsSuccess() {
		return newAPIError(resp.StatusCode(), resp.Body())
	}
	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return errors.Wrapf(err, "decode response of %s %s", method, path)
		}
	}
	return nil
}
