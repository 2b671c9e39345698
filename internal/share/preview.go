// Package share renders the crawler-facing HTML documents used when a job link
// is shared on social platforms. Crawlers read the Open Graph and Twitter Card
// tags; browsers are redirected straight into the single-page application.
package share

import (
	"fmt"
	"math"
	"net/url"
	"strings"

	"github.com/JakeFAU/jobshare/internal/jobs"
)

const (
	defaultVisaType = "H-2B"
	defaultJobTitle = "Job Opportunity"
	defaultCompany  = "Company"

	descriptionSeparator = " • "
)

// RenderContext carries the per-request inputs that do not come from the record.
type RenderContext struct {
	JobID      string
	AppBaseURL string
}

// ShareURL is the canonical single-page application URL for the job.
func (c RenderContext) ShareURL() string {
	return strings.TrimRight(c.AppBaseURL, "/") + "/job/" + url.PathEscape(c.JobID)
}

// Preview is the validated, render-ready view of a job record. It holds plain
// text only; escaping happens when the document template executes.
type Preview struct {
	Title       string
	Description string
	Location    string
	VisaType    string
}

// Extract derives the preview fields from a record. Absent or empty fields fall
// back to their defaults and never cause an error.
func Extract(rec jobs.Record, locale Locale) Preview {
	visaType := textOr(rec.VisaType, defaultVisaType)
	jobTitle := textOr(rec.JobTitle, defaultJobTitle)
	company := textOr(rec.Company, defaultCompany)
	location := joinLocation(textOr(rec.City, ""), textOr(rec.State, ""))

	parts := make([]string, 0, 4)
	if n, ok := positiveCount(rec.Openings); ok {
		parts = append(parts, locale.Openings(n))
	}
	parts = append(parts, visaType)
	if location != "" {
		parts = append(parts, location)
	}
	if salary, ok := hourlyRate(rec.Salary); ok {
		parts = append(parts, salary)
	}

	return Preview{
		Title:       fmt.Sprintf("%s: %s - %s", visaType, jobTitle, company),
		Description: strings.Join(parts, descriptionSeparator),
		Location:    location,
		VisaType:    visaType,
	}
}

// joinLocation renders "city, state" and trims the separator when a side is missing.
func joinLocation(city, state string) string {
	return strings.Trim(city+", "+state, ", ")
}

func textOr(s *string, def string) string {
	if s == nil {
		return def
	}
	if v := strings.TrimSpace(*s); v != "" {
		return v
	}
	return def
}

func positiveCount(v *float64) (int64, bool) {
	if v == nil || *v < 1 || *v != math.Trunc(*v) || *v >= math.MaxInt64 {
		return 0, false
	}
	return int64(*v), true
}

// hourlyRate formats a salary as "$18.50/hr". Zero and negative rates are omitted.
func hourlyRate(v *float64) (string, bool) {
	if v == nil || *v <= 0 || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return "", false
	}
	return fmt.Sprintf("$%.2f/hr", *v), true
}
