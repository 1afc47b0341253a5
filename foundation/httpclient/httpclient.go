// Package httpclient provides basic http functions
package httpclient

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// UserAgent is sent with every request, some store sites refuse requests without a browser like agent
const UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) " +
	"Chrome/120.0.0.0 Safari/537.36"

var client = &http.Client{
	Timeout: 30 * time.Second,
}

// StatusError is returned when the remote server responds with a non 2xx status
type StatusError struct {
	URL        string
	StatusCode int
}

func (s *StatusError) Error() string {
	return fmt.Sprintf("unexpected status %d from %s", s.StatusCode, s.URL)
}

// GetJSON retrieves endpoint with a GET request and decodes the json response body into result
func GetJSON(ctx context.Context, endpoint string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return err
	}
	return doJSON(req, result)
}

// PostFormJSON posts form to endpoint and decodes the json response body into result
func PostFormJSON(ctx context.Context, endpoint string, form url.Values, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded; charset=UTF-8")
	return doJSON(req, result)
}

// doJSON sends req and decodes the response body into result
func doJSON(req *http.Request, result interface{}) error {
	req.Header.Set("User-Agent", UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}

	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// drain so the connection can be reused
		_, _ = io.Copy(io.Discard, resp.Body)
		return &StatusError{URL: req.URL.String(), StatusCode: resp.StatusCode}
	}

	err = json.NewDecoder(resp.Body).Decode(result)
	if err != nil {
		return fmt.Errorf("unable to decode json from %s, error: %w", req.URL.String(), err)
	}
	return nil
}
