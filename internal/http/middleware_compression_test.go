package httpx

import (
	"compress/gzip"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serveCompressed(t *testing.T, cfg CompressionConfig, acceptEncoding string, h http.HandlerFunc) *http.Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if acceptEncoding != "" {
		req.Header.Set("Accept-Encoding", acceptEncoding)
	}
	rec := httptest.NewRecorder()
	Compression(cfg)(h).ServeHTTP(rec, req)
	resp := rec.Result()
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func readGzip(t *testing.T, r io.Reader) string {
	t.Helper()
	zr, err := gzip.NewReader(r)
	require.NoError(t, err)
	b, err := io.ReadAll(zr)
	require.NoError(t, err)
	return string(b)
}

func htmlHandler(body string, status int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}
}

func TestCompression_Gzip(t *testing.T) {
	body := strings.Repeat("<tr><td>Accepted</td></tr>", 200)

	tests := []struct {
		name           string
		acceptEncoding string
		level          int
		wantGzip       bool
	}{
		{"accepts gzip", "gzip, deflate", 6, true},
		{"fastest level", "gzip", 1, true},
		{"default level", "gzip", 0, true},
		{"no gzip", "deflate", 6, false},
		{"no header", "", 6, false},
		{"gzip disabled by q", "gzip;q=0, deflate", 6, false},
		{"gzip with q", "gzip;q=0.5", 6, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := serveCompressed(t, CompressionConfig{Level: tt.level}, tt.acceptEncoding, htmlHandler(body, http.StatusOK))
			if tt.wantGzip {
				assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
				assert.Equal(t, body, readGzip(t, resp.Body))
				return
			}
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
			b, _ := io.ReadAll(resp.Body)
			assert.Equal(t, body, string(b))
		})
	}
}

func TestCompression_SkipsBodylessAndEncoded(t *testing.T) {
	resp := serveCompressed(t, CompressionConfig{}, "gzip", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Empty(t, resp.Header.Get("Content-Encoding"))

	resp = serveCompressed(t, CompressionConfig{}, "gzip", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Encoding", "br")
		_, _ = w.Write([]byte("already"))
	})
	assert.Equal(t, "br", resp.Header.Get("Content-Encoding"))
}

func TestCompression_SkipsBinaryTypes(t *testing.T) {
	resp := serveCompressed(t, CompressionConfig{}, "gzip", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write([]byte{0x89, 'P', 'N', 'G'})
	})
	assert.Empty(t, resp.Header.Get("Content-Encoding"))
}

func TestCompression_MinSize(t *testing.T) {
	small := serveCompressed(t, CompressionConfig{MinSize: 1024}, "gzip", htmlHandler("tiny", http.StatusOK))
	assert.Empty(t, small.Header.Get("Content-Encoding"))
	b, _ := io.ReadAll(small.Body)
	assert.Equal(t, "tiny", string(b))

	bigBody := strings.Repeat("x", 4096)
	big := serveCompressed(t, CompressionConfig{MinSize: 1024}, "gzip", htmlHandler(bigBody, http.StatusOK))
	assert.Equal(t, "gzip", big.Header.Get("Content-Encoding"))
	assert.Equal(t, bigBody, readGzip(t, big.Body))
}

func TestCompression_HEAD(t *testing.T) {
	req := httptest.NewRequest(http.MethodHead, "/", nil)
	req.Header.Set("Accept-Encoding", "gzip")
	rec := httptest.NewRecorder()
	Compression(CompressionConfig{})(htmlHandler("", http.StatusOK)).ServeHTTP(rec, req)
	assert.Empty(t, rec.Header().Get("Content-Encoding"))
}

func TestCompression_ImplicitStatusAndType(t *testing.T) {
	body := strings.Repeat("<p>hello</p>", 50)
	resp := serveCompressed(t, CompressionConfig{}, "gzip", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, body)
	})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, body, readGzip(t, resp.Body))
}
