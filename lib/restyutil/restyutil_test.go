package restyutil

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/go-resty/resty/v2"
	"github.com/stretchr/testify/require"
)

func TestFormatHeaders(t *testing.T) {
	require.Equal(t, "", formatHeaders(nil))
	require.Equal(t, "A: 1\nB: 2\nB: 3", formatHeaders(http.Header{
		"B": {"2", "3"},
		"A": {"1"},
	}))
}

func TestFormatRequestBody(t *testing.T) {
	require.Equal(t, "<NO BODY AVAILABLE>", formatRequestBody(nil))

	req, err := http.NewRequest(http.MethodGet, "http://localhost", nil)
	require.NoError(t, err)
	require.Equal(t, "<NO BODY AVAILABLE>", formatRequestBody(req))

	req.GetBody = func() (io.ReadCloser, error) { return nil, nil }
	require.Equal(t, "<NO BODY AVAILABLE>", formatRequestBody(req))

	req, err = http.NewRequest(http.MethodPost, "http://localhost", strings.NewReader("RegNo=22101110001"))
	require.NoError(t, err)
	require.Equal(t, "RegNo=22101110001", formatRequestBody(req))
}

func TestFormatHttpMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("content-type", "text/html")
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("busy"))
	}))
	defer server.Close()

	res, err := resty.New().R().
		SetHeader("user-agent", "test-agent").
		Get(server.URL + "/page.aspx")
	require.NoError(t, err)

	message := FormatHttpMessage(res)
	require.Contains(t, message, "---- REQUEST ----\n\nGET "+server.URL+"/page.aspx")
	require.Contains(t, message, "User-Agent: test-agent")
	require.Contains(t, message, "---- RESPONSE ----\n\n503 "+server.URL+"/page.aspx")
	require.Contains(t, message, "Content-Type: text/html")
	require.Contains(t, message, "busy")
	require.Contains(t, message, "<NO BODY AVAILABLE>")
}

func TestFilesystemOutput(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "resty")
	require.NoError(t, os.MkdirAll(dir, 0777))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "stale"), []byte("old"), 0600))

	output, err := NewFilesystemOutput(dir)
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "stale"))
	require.True(t, os.IsNotExist(err))

	output.Write("1", "exchange")
	contents, err := os.ReadFile(filepath.Join(dir, "1"))
	require.NoError(t, err)
	require.Equal(t, "exchange", string(contents))
}
