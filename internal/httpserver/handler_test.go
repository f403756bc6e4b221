package httpserver

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBackTarget(t *testing.T) {
	cases := []struct {
		name    string
		referer string
		want    string
	}{
		{"no referer", "", "/contatos"},
		{"same host path", "http://example.com/sobre", "/sobre"},
		{"query kept", "http://example.com/produtos/busca?q=caneca", "/produtos/busca?q=caneca"},
		{"relative", "/admin", "/admin"},
		{"other host", "http://evil.example/x", "/contatos"},
		{"protocol-relative path", "http://example.com//evil.example/x", "/contatos"},
		{"backslash path", "http://example.com/\\evil.example", "/contatos"},
		{"no path", "http://example.com", "/contatos"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/contatos", nil)
			if tc.referer != "" {
				req.Header.Set("Referer", tc.referer)
			}
			require.Equal(t, tc.want, backTarget(req, "/contatos"))
		})
	}
}
