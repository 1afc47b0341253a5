package httpclient

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/matryer/is"
)

type testPayload struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestGetJSON(t *testing.T) {
	is := is.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.Header.Get("User-Agent") != UserAgent {
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		_, _ = fmt.Fprint(w, `{"name":"코스트코","count":2}`)
	}))
	defer server.Close()

	var got testPayload
	err := GetJSON(context.Background(), server.URL, &got)
	is.NoErr(err)
	is.Equal(got, testPayload{Name: "코스트코", Count: 2})
}

func TestPostFormJSON(t *testing.T) {
	is := is.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		_, _ = fmt.Fprintf(w, `{"name":%q,"count":1}`, r.FormValue("keyword"))
	}))
	defer server.Close()

	var got testPayload
	err := PostFormJSON(context.Background(), server.URL, url.Values{"keyword": {"이마트"}}, &got)
	is.NoErr(err)
	is.Equal(got.Name, "이마트")
}

func TestGetJSON_status(t *testing.T) {
	is := is.New(t)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	var got testPayload
	err := GetJSON(context.Background(), server.URL, &got)
	var statusError *StatusError
	is.True(errors.As(err, &statusError))
	is.Equal(statusError.StatusCode, http.StatusServiceUnavailable)
}
