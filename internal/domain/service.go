// Package domain defines the business logic for the fitness tracker.
package domain

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"
)

var (
	// ErrEntryNotFound is returned when an entry cannot be located.
	ErrEntryNotFound = errors.New("entry not found")
)

// DurationPositiveMessage is reported when an entry's duration is not greater than zero.
const DurationPositiveMessage = "The Duration field value must be greater than '0'."

// EntryRepository captures persistence operations.
type EntryRepository interface {
	List(ctx context.Context) ([]Entry, error)
	// Get returns nil, nil when no entry has the given ID.
	Get(ctx context.Context, id int) (*Entry, error)
	Add(ctx context.Context, entry Entry) (Entry, error)
	// Update returns ErrEntryNotFound when no entry has entry.ID.
	Update(ctx context.Context, entry Entry) error
}

// FieldErrors maps a form field name to its validation messages.
type FieldErrors map[string][]string

// Add records a message against field.
func (f FieldErrors) Add(field, message string) {
	f[field] = append(f[field], message)
}

// Has reports whether field already carries an error.
func (f FieldErrors) Has(field string) bool {
	return len(f[field]) > 0
}

// First returns the first message for field, or "".
func (f FieldErrors) First(field string) string {
	if msgs := f[field]; len(msgs) > 0 {
		return msgs[0]
	}
	return ""
}

// Valid reports whether no errors were recorded.
func (f FieldErrors) Valid() bool {
	return len(f) == 0
}

// Fields returns the names of the fields with errors, sorted.
func (f FieldErrors) Fields() []string {
	out := make([]string, 0, len(f))
	for k := range f {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Stats summarises a set of entries.
type Stats struct {
	TotalActivity        float64
	NumberOfActiveDays   int
	AverageDailyActivity float64
}

// ComputeStats totals the duration of non-excluded entries and averages it
// over the number of distinct dates. Excluded entries still count towards
// the active days. With no active days the average is 0.
func ComputeStats(entries []Entry) Stats {
	var stats Stats
	days := make(map[Date]struct{}, len(entries))
	for _, e := range entries {
		if !e.Exclude {
			stats.TotalActivity += e.Duration
		}
		days[e.Date] = struct{}{}
	}
	stats.NumberOfActiveDays = len(days)
	if stats.NumberOfActiveDays > 0 {
		stats.AverageDailyActivity = stats.TotalActivity / float64(stats.NumberOfActiveDays)
	}
	return stats
}

// DailyTotal is the non-excluded activity logged on one day.
type DailyTotal struct {
	Date    Date
	Minutes float64
}

// DailyTotals groups non-excluded durations by date, oldest first. Days that
// only hold excluded entries are reported with zero minutes.
func DailyTotals(entries []Entry) []DailyTotal {
	byDay := make(map[Date]float64)
	for _, e := range entries {
		minutes := e.Duration
		if e.Exclude {
			minutes = 0
		}
		byDay[e.Date] += minutes
	}
	out := make([]DailyTotal, 0, len(byDay))
	for d, m := range byDay {
		out = append(out, DailyTotal{Date: d, Minutes: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date.Before(out[j].Date.Time) })
	return out
}

// EntryList is the result of listing entries.
type EntryList struct {
	Entries []Entry
	Stats   Stats
}

// Service orchestrates entry workflows.
type Service struct {
	repo EntryRepository
	now  func() time.Time
}

// ServiceOption customises a Service.
type ServiceOption func(*Service)

// WithClock overrides the time source used for defaults.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

// NewService constructs a Service.
func NewService(repo EntryRepository, opts ...ServiceOption) *Service {
	s := &Service{repo: repo, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Today returns the current calendar day.
func (s *Service) Today() Date {
	return DateOf(s.now())
}

// NewEntry returns a blank entry dated today.
func (s *Service) NewEntry() Entry {
	return Entry{Date: s.Today()}
}

// ListEntries returns every entry with its summary statistics.
func (s *Service) ListEntries(ctx context.Context) (EntryList, error) {
	entries, err := s.repo.List(ctx)
	if err != nil {
		return EntryList{}, fmt.Errorf("list entries: %w", err)
	}
	return EntryList{Entries: entries, Stats: ComputeStats(entries)}, nil
}

// GetEntry fetches by ID.
func (s *Service) GetEntry(ctx context.Context, id int) (*Entry, error) {
	entry, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get entry %d: %w", id, err)
	}
	if entry == nil {
		return nil, ErrEntryNotFound
	}
	return entry, nil
}

// Validate applies the entry rules on top of any binding errors already
// collected. The duration check is skipped when Duration failed to bind.
// NaN and infinite durations are rejected along with non-positive ones.
func (s *Service) Validate(entry Entry, errs FieldErrors) FieldErrors {
	if errs == nil {
		errs = FieldErrors{}
	}
	if !errs.Has("Duration") && !(entry.Duration > 0 && !math.IsInf(entry.Duration, 1)) {
		errs.Add("Duration", DurationPositiveMessage)
	}
	return errs
}

// AddEntry validates and stores a new entry. When validation fails the
// entry is returned unchanged along with the field errors and nothing is
// stored.
func (s *Service) AddEntry(ctx context.Context, entry Entry, bindErrs FieldErrors) (Entry, FieldErrors, error) {
	errs := s.Validate(entry, bindErrs)
	if !errs.Valid() {
		return entry, errs, nil
	}
	entry.ID = 0
	stored, err := s.repo.Add(ctx, entry)
	if err != nil {
		return entry, nil, fmt.Errorf("add entry: %w", err)
	}
	return stored, nil, nil
}

// UpdateEntry validates and replaces the stored entry with the same ID.
func (s *Service) UpdateEntry(ctx context.Context, entry Entry, bindErrs FieldErrors) (FieldErrors, error) {
	errs := s.Validate(entry, bindErrs)
	if !errs.Valid() {
		return errs, nil
	}
	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, fmt.Errorf("update entry %d: %w", entry.ID, err)
	}
	return nil, nil
}
