package share

import (
	"bytes"
	"fmt"
	"html"
	"html/template"

	"github.com/JakeFAU/jobshare/internal/jobs"
)

// Share image dimensions advertised to crawlers.
const (
	imageWidth  = 1200
	imageHeight = 630
)

const fallbackTitle = "Job Opportunity"

// ComposerConfig holds the process-wide branding shared by every document.
type ComposerConfig struct {
	SiteName string
	ImageURL string
	OGLocale string
	Locale   Locale
}

// Composer turns job data into crawler-facing HTML documents. It performs no I/O
// and is safe for concurrent use.
type Composer struct {
	cfg ComposerConfig
}

// NewComposer validates the branding config and returns a Composer.
func NewComposer(cfg ComposerConfig) (*Composer, error) {
	if cfg.SiteName == "" {
		return nil, fmt.Errorf("site name is required")
	}
	if cfg.ImageURL == "" {
		return nil, fmt.Errorf("share image url is required")
	}
	if cfg.OGLocale == "" {
		cfg.OGLocale = "en_US"
	}
	if cfg.Locale.Singular == "" || cfg.Locale.Plural == "" {
		loc, err := LookupLocale(cfg.Locale.Name)
		if err != nil {
			return nil, err
		}
		cfg.Locale = loc
	}
	return &Composer{cfg: cfg}, nil
}

// page is the template payload. All fields are plain text; html/template
// applies the escaping appropriate to each position.
type page struct {
	Title       string
	Heading     string
	Description string
	ShareURL    string
	ImageURL    string
	ImageWidth  int
	ImageHeight int
	SiteName    string
	OGType      string
	OGLocale    string
	Redirecting string
	LinkText    string
}

// Compose renders the job document for rec.
func (c *Composer) Compose(rec jobs.Record, rc RenderContext) (string, error) {
	preview := Extract(rec, c.cfg.Locale)
	p := c.basePage(rc)
	p.Title = preview.Title
	p.Heading = preview.Title
	p.Description = preview.Description
	p.OGType = "article"
	return execute(p)
}

// ComposeFallback renders the generic document used when no job data is
// available. It never fails.
func (c *Composer) ComposeFallback(rc RenderContext) string {
	p := c.basePage(rc)
	p.Title = fallbackTitle
	p.Heading = fallbackTitle
	p.Description = c.cfg.SiteName + " - Find H-2A and H-2B job opportunities"
	p.OGType = "website"
	doc, err := execute(p)
	if err != nil {
		return minimalDocument(p)
	}
	return doc
}

func (c *Composer) basePage(rc RenderContext) page {
	return page{
		ShareURL:    rc.ShareURL(),
		ImageURL:    c.cfg.ImageURL,
		ImageWidth:  imageWidth,
		ImageHeight: imageHeight,
		SiteName:    c.cfg.SiteName,
		OGLocale:    c.cfg.OGLocale,
		Redirecting: "Redirecting to job details...",
		LinkText:    "Click here if not redirected automatically",
	}
}

func execute(p page) (string, error) {
	var buf bytes.Buffer
	if err := documentTemplate.Execute(&buf, p); err != nil {
		return "", fmt.Errorf("execute share template: %w", err)
	}
	return buf.String(), nil
}

// minimalDocument is the last resort when template execution fails.
func minimalDocument(p page) string {
	u := html.EscapeString(p.ShareURL)
	return "<!DOCTYPE html>\n<html lang=\"en\">\n<head>\n" +
		"<meta charset=\"UTF-8\">\n" +
		"<title>" + html.EscapeString(p.Title+" | "+p.SiteName) + "</title>\n" +
		"<meta http-equiv=\"refresh\" content=\"0;url=" + u + "\">\n" +
		"</head>\n<body>\n" +
		"<p><a href=\"" + u + "\">" + html.EscapeString(p.LinkText) + "</a></p>\n" +
		"</body>\n</html>\n"
}

var documentTemplate = template.Must(template.New("share").Parse(documentHTML))

const documentHTML = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <meta name="viewport" content="width=device-width, initial-scale=1.0">

    <title>{{.Title}} | {{.SiteName}}</title>
    <meta name="description" content="{{.Description}}">

    <meta property="og:type" content="{{.OGType}}">
    <meta property="og:url" content="{{.ShareURL}}">
    <meta property="og:title" content="{{.Title}}">
    <meta property="og:description" content="{{.Description}}">
    <meta property="og:image" content="{{.ImageURL}}">
    <meta property="og:image:width" content="{{.ImageWidth}}">
    <meta property="og:image:height" content="{{.ImageHeight}}">
    <meta property="og:site_name" content="{{.SiteName}}">
    <meta property="og:locale" content="{{.OGLocale}}">

    <meta name="twitter:card" content="summary_large_image">
    <meta name="twitter:url" content="{{.ShareURL}}">
    <meta name="twitter:title" content="{{.Title}}">
    <meta name="twitter:description" content="{{.Description}}">
    <meta name="twitter:image" content="{{.ImageURL}}">

    <meta http-equiv="refresh" content="0;url={{.ShareURL}}">
    <script>window.location.replace({{.ShareURL}});</script>

    <style>
        body {
            font-family: -apple-system, BlinkMacSystemFont, 'Segoe UI', Roboto, sans-serif;
            max-width: 600px;
            margin: 50px auto;
            padding: 20px;
            text-align: center;
        }
        h1 { color: #2563eb; }
        p { color: #64748b; margin: 10px 0; }
        a { color: #2563eb; text-decoration: none; }
    </style>
</head>
<body>
    <h1>{{.Heading}}</h1>
    <p>{{.Description}}</p>
    <p>{{.Redirecting}}</p>
    <p><a href="{{.ShareURL}}">{{.LinkText}}</a></p>
</body>
</html>
`
