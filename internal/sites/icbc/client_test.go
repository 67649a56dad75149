package icbc

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"netval/internal/httpclient"
)

func testClient(retries int) *Client {
	return NewClient(httpclient.New(httpclient.Config{
		Timeout: 5 * time.Second,
		Retries: retries,
	}), zerolog.Nop())
}

func TestFetchPage(t *testing.T) {
	var gotUA string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.Header.Get("User-Agent")
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer srv.Close()

	body, err := testClient(0).FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, body, "ok")
	require.Contains(t, gotUA, "Mozilla/5.0")
}

func TestFetchPageRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Write([]byte("<html><body>recovered</body></html>"))
	}))
	defer srv.Close()

	body, err := testClient(2).FetchPage(context.Background(), srv.URL)
	require.NoError(t, err)
	require.Contains(t, body, "recovered")
	require.Equal(t, int32(2), calls.Load())
}

func TestFetchPageErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testClient(0).FetchPage(context.Background(), srv.URL)
	require.Error(t, err)
	require.Contains(t, err.Error(), "404")
}
