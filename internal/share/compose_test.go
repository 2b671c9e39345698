package share

import (
	"fmt"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/require"

	"github.com/JakeFAU/jobshare/internal/jobs"
)

func TestComposeDocument(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	rec := jobs.Record{
		JobTitle: ptr("Picker"),
		Company:  ptr("Acme"),
		VisaType: ptr("H-2A"),
		City:     ptr("Yakima"),
		State:    ptr("WA"),
		Salary:   ptr(17.25),
		Openings: ptr(3.0),
	}
	out, err := c.Compose(rec, RenderContext{JobID: "42", AppBaseURL: "https://h2linker.com"})
	require.NoError(t, err)

	doc := parse(t, out)
	require.Equal(t, 1, doc.Find("title").Length())
	require.Equal(t, "H-2A: Picker - Acme | H2 Linker", doc.Find("title").Text())
	require.Equal(t, "H-2A: Picker - Acme", doc.Find("h1").Text())

	wantProps := map[string]string{
		"og:type":         "article",
		"og:url":          "https://h2linker.com/job/42",
		"og:title":        "H-2A: Picker - Acme",
		"og:description":  "3 vagas • H-2A • Yakima, WA • $17.25/hr",
		"og:image":        "https://example.com/logo.png",
		"og:image:width":  "1200",
		"og:image:height": "630",
		"og:site_name":    "H2 Linker",
		"og:locale":       "en_US",
	}
	for prop, want := range wantProps {
		require.Equal(t, want, meta(doc, "property", prop), prop)
	}
	wantNames := map[string]string{
		"description":         "3 vagas • H-2A • Yakima, WA • $17.25/hr",
		"twitter:card":        "summary_large_image",
		"twitter:url":         "https://h2linker.com/job/42",
		"twitter:title":       "H-2A: Picker - Acme",
		"twitter:description": "3 vagas • H-2A • Yakima, WA • $17.25/hr",
		"twitter:image":       "https://example.com/logo.png",
	}
	for name, want := range wantNames {
		require.Equal(t, want, meta(doc, "name", name), name)
	}

	refresh, ok := doc.Find(`meta[http-equiv="refresh"]`).Attr("content")
	require.True(t, ok)
	require.Equal(t, "0;url=https://h2linker.com/job/42", refresh)
	href, ok := doc.Find("a").Attr("href")
	require.True(t, ok)
	require.Equal(t, "https://h2linker.com/job/42", href)
	require.Contains(t, doc.Find("script").Text(), "window.location.replace(")
}

func TestComposeEscapesRecordText(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	rec := jobs.Record{
		JobTitle: ptr(`<script>alert(1)</script>`),
		Company:  ptr(`Tom "T" & Jerry`),
		City:     ptr(`</title><b>x</b>`),
	}
	out, err := c.Compose(rec, RenderContext{JobID: `"><img src=x>`, AppBaseURL: "https://h2linker.com"})
	require.NoError(t, err)

	require.NotContains(t, out, "<script>alert(1)</script>")
	require.NotContains(t, out, "<b>x</b>")
	require.NotContains(t, out, `"><img`)

	doc := parse(t, out)
	require.Equal(t, 1, doc.Find("title").Length())
	require.Equal(t, 1, doc.Find("script").Length())
	require.Equal(t, 0, doc.Find("img").Length())
	require.Equal(t, `H-2B: <script>alert(1)</script> - Tom "T" & Jerry`, meta(doc, "property", "og:title"))
	require.Equal(t, "https://h2linker.com/job/%22%3E%3Cimg%20src=x%3E", meta(doc, "property", "og:url"))
}

func TestComposeFallback(t *testing.T) {
	t.Parallel()

	c := newTestComposer(t)
	out := c.ComposeFallback(RenderContext{JobID: "missing", AppBaseURL: "https://h2linker.com"})

	doc := parse(t, out)
	require.Equal(t, "Job Opportunity | H2 Linker", doc.Find("title").Text())
	require.Equal(t, "website", meta(doc, "property", "og:type"))
	require.Equal(t, "H2 Linker - Find H-2A and H-2B job opportunities", meta(doc, "property", "og:description"))
	require.Equal(t, "https://h2linker.com/job/missing", meta(doc, "property", "og:url"))
	require.Equal(t, "summary_large_image", meta(doc, "name", "twitter:card"))
	require.Contains(t, doc.Find("body").Text(), "Redirecting to job details...")
	require.Equal(t, "Click here if not redirected automatically", strings.TrimSpace(doc.Find("a").Text()))
}

func TestMinimalDocument(t *testing.T) {
	t.Parallel()

	out := minimalDocument(page{
		Title:    "<Job>",
		SiteName: "H2 Linker",
		ShareURL: `https://h2linker.com/job/"x"`,
		LinkText: "Click here",
	})

	doc := parse(t, out)
	require.Equal(t, "<Job> | H2 Linker", doc.Find("title").Text())
	href, _ := doc.Find("a").Attr("href")
	require.Equal(t, `https://h2linker.com/job/"x"`, href)
}

func TestNewComposerValidation(t *testing.T) {
	t.Parallel()

	_, err := NewComposer(ComposerConfig{ImageURL: "https://example.com/logo.png"})
	require.Error(t, err)
	_, err = NewComposer(ComposerConfig{SiteName: "H2 Linker"})
	require.Error(t, err)
	_, err = NewComposer(ComposerConfig{SiteName: "H2 Linker", ImageURL: "x", Locale: Locale{Name: "xx"}})
	require.Error(t, err)
}

func newTestComposer(t *testing.T) *Composer {
	t.Helper()
	c, err := NewComposer(ComposerConfig{
		SiteName: "H2 Linker",
		ImageURL: "https://example.com/logo.png",
	})
	require.NoError(t, err)
	return c
}

func parse(t *testing.T, out string) *goquery.Document {
	t.Helper()
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(out))
	require.NoError(t, err)
	return doc
}

func meta(doc *goquery.Document, attr, key string) string {
	content, _ := doc.Find(fmt.Sprintf(`meta[%s=%q]`, attr, key)).Attr("content")
	return content
}
