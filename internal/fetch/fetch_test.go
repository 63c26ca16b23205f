package fetch

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenthands/ise/internal/config"
)

func TestHTTPFetcher(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/missing" {
			http.NotFound(w, r)
			return
		}
		assert.Equal(t, "ise-test", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("<p>hello</p>"))
	}))
	defer srv.Close()

	f := NewHTTPFetcher(config.FetchConfig{TimeoutSeconds: 5, UserAgent: "ise-test"})

	page, err := f.Fetch(context.Background(), srv.URL+"/page")
	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", page)

	_, err = f.Fetch(context.Background(), srv.URL+"/missing")
	assert.ErrorIs(t, err, ErrBadStatus)
}

type countingFetcher struct {
	calls int
	err   error
}

func (c *countingFetcher) Fetch(_ context.Context, url string) (string, error) {
	c.calls++
	if c.err != nil {
		return "", c.err
	}
	return "page:" + url, nil
}

func TestCachedFetcher(t *testing.T) {
	inner := &countingFetcher{}
	f, err := NewCachedFetcher(inner, 2)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		page, err := f.Fetch(context.Background(), "u1")
		require.NoError(t, err)
		assert.Equal(t, "page:u1", page)
	}
	assert.Equal(t, 1, inner.calls)

	inner.err = errors.New("boom")
	_, err = f.Fetch(context.Background(), "u2")
	assert.Error(t, err)
	assert.Equal(t, 1, f.Len())
}

func TestTextCleaner(t *testing.T) {
	raw := `<html><head><style>body{color:red}</style><script>var x = "hidden";</script></head>
<body><h1>Bill   Gates</h1>
<p>Co-founded&nbsp;<b>Microsoft</b>.</p><!-- comment --></body></html>`

	got := TextCleaner{}.Clean(raw)
	assert.Equal(t, "Bill Gates Co-founded Microsoft .", got)
	assert.NotContains(t, got, "hidden")
}

func TestTextCleaner_Truncates(t *testing.T) {
	raw := "<p>" + strings.Repeat("é", 50) + "</p>"
	got := TextCleaner{MaxChars: 10}.Clean(raw)
	assert.Equal(t, 10, utf8.RuneCountInString(got))
}
