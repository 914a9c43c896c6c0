package content

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_EmbeddedPages(t *testing.T) {
	lib, err := Load()
	require.NoError(t, err)

	for _, slug := range []string{PageAbout, PageFAQ, PageReturns, PageContact} {
		p, ok := lib.Page(slug)
		require.True(t, ok, slug)
		assert.Equal(t, slug, p.Slug)
		assert.NotEmpty(t, p.Title)
	}

	faq, _ := lib.Page("faq")
	assert.NotEmpty(t, faq.Questions)

	returns, _ := lib.Page("returns")
	require.Len(t, returns.Lists, 1)
	assert.Contains(t, returns.Lists[0].Items, "Gift cards and vouchers")

	_, ok := lib.Page("careers")
	assert.False(t, ok)
}

func TestParse_Errors(t *testing.T) {
	_, err := Parse([]byte("about: [unclosed"))
	assert.Error(t, err)

	_, err = Parse([]byte("about:\n  intro: no title\n"))
	assert.EqualError(t, err, `content page "about" has no title`)
}
