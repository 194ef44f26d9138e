package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"lowercases host and drops www", "https://WWW.Reddit.com/r/SaaS/comments/abc/", "https://reddit.com/r/SaaS/comments/abc"},
		{"upgrades http", "http://news.ycombinator.com/item?id=1", "https://news.ycombinator.com/item?id=1"},
		{"drops tracking params and fragment", "https://example.com/post?utm_source=x&id=2&ref=hn#top", "https://example.com/post?id=2"},
		{"sorts query params", "https://example.com/a?b=2&a=1", "https://example.com/a?a=1&b=2"},
		{"old reddit is the same thread", "https://old.reddit.com/r/SaaS/comments/abc", "https://reddit.com/r/SaaS/comments/abc"},
		{"keeps custom port", "https://example.com:8443/x", "https://example.com:8443/x"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanonicalURL(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanonicalURL_Rejects(t *testing.T) {
	for _, in := range []string{"", "   ", "/relative/path", "not a url"} {
		_, err := CanonicalURL(in)
		assert.Error(t, err, in)
	}
}

func TestNormalizeTags(t *testing.T) {
	assert.Equal(t, []string{"b2c", "fintech"}, NormalizeTags([]string{" b2c", "", "fintech", "b2c "}))
	assert.Empty(t, NormalizeTags(nil))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "héll", Truncate("héllo", 4))
	assert.Equal(t, "abc", Truncate("abc", 10))
}
