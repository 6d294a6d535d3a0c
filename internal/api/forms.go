package api

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gorilla/schema"

	"example.com/fitnesstracker/internal/domain"
)

// Form field names, shared with the templates.
const (
	fieldID         = "Id"
	fieldDate       = "Date"
	fieldActivityID = "ActivityId"
	fieldDuration   = "Duration"
	fieldDistance   = "Distance"
	fieldNotes      = "Notes"
)

var errMissingID = errors.New("missing entry id")

// entryForm is the wire shape of the add/edit forms. Date stays a string so
// it can be parsed with its own messages.
type entryForm struct {
	ID         int     `schema:"Id"`
	Date       string  `schema:"Date"`
	ActivityID int     `schema:"ActivityId"`
	Duration   float64 `schema:"Duration"`
	Distance   float64 `schema:"Distance"`
	Notes      string  `schema:"Notes"`
	Exclude    bool    `schema:"Exclude"`
}

// formValues holds what the user typed so a rejected form can be shown back
// unchanged.
type formValues struct {
	ID         string
	Date       string
	ActivityID string
	Duration   string
	Distance   string
	Notes      string
	Exclude    bool
}

func valuesFromEntry(e domain.Entry) formValues {
	v := formValues{
		Date:    e.Date.String(),
		Notes:   e.Notes,
		Exclude: e.Exclude,
	}
	if e.ID != 0 {
		v.ID = strconv.Itoa(e.ID)
	}
	if e.ActivityID != 0 {
		v.ActivityID = strconv.Itoa(e.ActivityID)
	}
	if e.Duration != 0 {
		v.Duration = formatNumber(e.Duration)
	}
	if e.Distance != 0 {
		v.Distance = formatNumber(e.Distance)
	}
	return v
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// binder decodes entry forms. A single schema.Decoder caches struct metadata
// and is safe for concurrent use.
type binder struct {
	decoder *schema.Decoder
}

func newBinder() *binder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	return &binder{decoder: d}
}

// bindEntry parses the posted form into an entry. Conversion problems are
// reported per field rather than as an error; the returned error is only set
// when the body cannot be read at all.
func (b *binder) bindEntry(r *http.Request) (domain.Entry, formValues, domain.FieldErrors, error) {
	if err := r.ParseForm(); err != nil {
		return domain.Entry{}, formValues{}, nil, fmt.Errorf("parse form: %w", err)
	}
	form := r.PostForm

	raw := formValues{
		ID:         strings.TrimSpace(form.Get(fieldID)),
		Date:       strings.TrimSpace(form.Get(fieldDate)),
		ActivityID: strings.TrimSpace(form.Get(fieldActivityID)),
		Duration:   strings.TrimSpace(form.Get(fieldDuration)),
		Distance:   strings.TrimSpace(form.Get(fieldDistance)),
		Notes:      form.Get(fieldNotes),
	}
	errs := domain.FieldErrors{}

	var dst entryForm
	if err := b.decoder.Decode(&dst, form); err != nil {
		var multi schema.MultiError
		if !errors.As(err, &multi) {
			return domain.Entry{}, raw, nil, fmt.Errorf("decode form: %w", err)
		}
		for _, field := range sortedKeys(multi) {
			errs.Add(field, fmt.Sprintf("The value '%s' is not valid for %s.", form.Get(field), field))
		}
	}
	raw.Exclude = dst.Exclude

	entry := domain.Entry{
		ID:         dst.ID,
		ActivityID: dst.ActivityID,
		Duration:   dst.Duration,
		Distance:   dst.Distance,
		Notes:      dst.Notes,
		Exclude:    dst.Exclude,
	}

	switch {
	case raw.Date == "":
		errs.Add(fieldDate, "The Date field is required.")
	default:
		d, err := domain.ParseDate(raw.Date)
		if err != nil {
			errs.Add(fieldDate, fmt.Sprintf("The value '%s' is not valid for %s.", raw.Date, fieldDate))
		} else {
			entry.Date = d
		}
	}
	for field, value := range map[string]float64{fieldDuration: entry.Duration, fieldDistance: entry.Distance} {
		if !errs.Has(field) && (math.IsNaN(value) || math.IsInf(value, 0)) {
			errs.Add(field, fmt.Sprintf("The value '%s' is not valid for %s.", form.Get(field), field))
		}
	}
	if raw.Duration == "" && !errs.Has(fieldDuration) {
		errs.Add(fieldDuration, "The Duration field is required.")
	}

	return entry, raw, errs, nil
}

func sortedKeys(m schema.MultiError) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// parseID reads the entry ID from the {id} path segment, falling back to the
// "id" query parameter. errMissingID means neither was supplied.
func parseID(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.PathValue("id"))
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get("id"))
	}
	if raw == "" {
		return 0, errMissingID
	}
	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid entry id %q: %w", raw, err)
	}
	return id, nil
}
