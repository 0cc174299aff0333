package email

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

type baseEmailData struct {
	Title   string
	Heading string
}

type trendRow struct {
	Date           string
	FirstMessages  int
	RepliesStarted int
	ConversionRate float64
}

type digestEmailData struct {
	baseEmailData
	Date                     string
	FirstMessagesSentToday   int
	RepliesToFirstMessages   int
	MeetingsScheduled        int
	LeadsProcessedToday      int
	LeadsQueued              int
	ActiveConversations      int
	ResponseRate             float64
	MeetingConversionRate    float64
	AverageResponseTimeHours float64
	Trend                    []trendRow
}

func renderEmailTemplate(name string, data any) (string, error) {
	templates := []string{"templates/base.html", "templates/" + name}
	tmpl, err := template.New("base.html").ParseFS(templateFS, templates...)
	if err != nil {
		return "", fmt.Errorf("parse email template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "email", data); err != nil {
		return "", fmt.Errorf("execute email template %s: %w", name, err)
	}
	return buf.String(), nil
}
