package api

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gorilla/csrf"
	"github.com/yuin/goldmark"
	goldmarkHTML "github.com/yuin/goldmark/renderer/html"

	"example.com/fitnesstracker/internal/domain"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	pageIndex  = "index.html"
	pageForm   = "form.html"
	pageDelete = "delete.html"
)

// Raw HTML in notes is dropped because WithUnsafe is not set.
var notesRenderer = goldmark.New(
	goldmark.WithRendererOptions(
		goldmarkHTML.WithHardWraps(),
	),
)

func renderNotes(md string) template.HTML {
	if md == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := notesRenderer.Convert([]byte(md), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(md))
	}
	return template.HTML(buf.String())
}

// views holds one parsed template set per page, each layered on the shared layout.
type views struct {
	pages map[string]*template.Template
}

func loadViews() (*views, error) {
	v := &views{pages: make(map[string]*template.Template)}
	for _, page := range []string{pageIndex, pageForm, pageDelete} {
		tpl, err := template.New(page).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", page, err)
		}
		v.pages[page] = tpl
	}
	return v, nil
}

// render executes the page into memory first so a template failure never
// leaves a half-written 200 behind.
func (v *views) render(page string, data any) ([]byte, error) {
	tpl, ok := v.pages[page]
	if !ok {
		return nil, fmt.Errorf("unknown page %s", page)
	}
	var buf bytes.Buffer
	if err := tpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return nil, fmt.Errorf("render %s: %w", page, err)
	}
	return buf.Bytes(), nil
}

type entryRow struct {
	domain.Entry
	ActivityName string
	NotesHTML    template.HTML
}

type listView struct {
	Title                string
	Entries              []entryRow
	TotalActivity        float64
	AverageDailyActivity float64
	NumberOfActiveDays   int
}

func newListView(list domain.EntryList, catalog *domain.Catalog) listView {
	rows := make([]entryRow, 0, len(list.Entries))
	for _, e := range list.Entries {
		row := entryRow{Entry: e, NotesHTML: renderNotes(e.Notes)}
		if a, ok := catalog.Lookup(e.ActivityID); ok {
			row.ActivityName = a.Name
		}
		rows = append(rows, row)
	}
	return listView{
		Title:                "Entries",
		Entries:              rows,
		TotalActivity:        list.Stats.TotalActivity,
		AverageDailyActivity: list.Stats.AverageDailyActivity,
		NumberOfActiveDays:   list.Stats.NumberOfActiveDays,
	}
}

type activityOption struct {
	ID       int
	Name     string
	Selected bool
}

func activityOptions(catalog *domain.Catalog, selected string) []activityOption {
	all := catalog.All()
	out := make([]activityOption, 0, len(all))
	for _, a := range all {
		out = append(out, activityOption{
			ID:       a.ID,
			Name:     a.Name,
			Selected: selected != "" && selected == fmt.Sprint(a.ID),
		})
	}
	return out
}

type formView struct {
	Title      string
	Action     string
	Values     formValues
	Activities []activityOption
	Errors     domain.FieldErrors
	CSRFField  template.HTML
}

func newFormView(r *http.Request, title, action string, values formValues, errs domain.FieldErrors, catalog *domain.Catalog) formView {
	return formView{
		Title:      title,
		Action:     action,
		Values:     values,
		Activities: activityOptions(catalog, values.ActivityID),
		Errors:     errs,
		CSRFField:  csrf.TemplateField(r),
	}
}

type deleteView struct {
	Title string
	ID    int
}
