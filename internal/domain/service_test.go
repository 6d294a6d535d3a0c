package domain

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestComputeStatsScenario(t *testing.T) {
	entries := []Entry{
		{Date: NewDate(2024, time.January, 1), Duration: 30},
		{Date: NewDate(2024, time.January, 1), Duration: 20, Exclude: true},
		{Date: NewDate(2024, time.January, 2), Duration: 10},
	}

	stats := ComputeStats(entries)

	require.Equal(t, 40.0, stats.TotalActivity)
	require.Equal(t, 2, stats.NumberOfActiveDays)
	require.Equal(t, 20.0, stats.AverageDailyActivity)
}

func TestComputeStatsEmpty(t *testing.T) {
	stats := ComputeStats(nil)

	require.Zero(t, stats.TotalActivity)
	require.Zero(t, stats.NumberOfActiveDays)
	require.Zero(t, stats.AverageDailyActivity)
}

func TestComputeStatsExcludedDaysStillCount(t *testing.T) {
	entries := []Entry{
		{Date: NewDate(2024, time.March, 1), Duration: 60},
		{Date: NewDate(2024, time.March, 2), Duration: 90, Exclude: true},
	}

	stats := ComputeStats(entries)

	require.Equal(t, 60.0, stats.TotalActivity)
	require.Equal(t, 2, stats.NumberOfActiveDays)
	require.Equal(t, 30.0, stats.AverageDailyActivity)
}

func TestComputeStatsOnlyExcluded(t *testing.T) {
	stats := ComputeStats([]Entry{{Date: NewDate(2024, time.May, 5), Duration: 15, Exclude: true}})

	require.Zero(t, stats.TotalActivity)
	require.Equal(t, 1, stats.NumberOfActiveDays)
	require.Zero(t, stats.AverageDailyActivity)
}

func TestDailyTotalsOrdersByDate(t *testing.T) {
	entries := []Entry{
		{Date: NewDate(2024, time.January, 3), Duration: 5},
		{Date: NewDate(2024, time.January, 1), Duration: 30},
		{Date: NewDate(2024, time.January, 1), Duration: 20, Exclude: true},
		{Date: NewDate(2024, time.January, 2), Duration: 10, Exclude: true},
	}

	totals := DailyTotals(entries)

	require.Equal(t, []DailyTotal{
		{Date: NewDate(2024, time.January, 1), Minutes: 30},
		{Date: NewDate(2024, time.January, 2), Minutes: 0},
		{Date: NewDate(2024, time.January, 3), Minutes: 5},
	}, totals)
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2024-02-29")
	require.NoError(t, err)
	require.Equal(t, NewDate(2024, time.February, 29), d)
	require.Equal(t, "2024-02-29", d.String())

	_, err = ParseDate("29/02/2024")
	require.Error(t, err)

	require.Equal(t, "", Date{}.String())
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)
	d := DateOf(time.Date(2024, time.June, 9, 23, 30, 0, 0, loc))

	require.Equal(t, NewDate(2024, time.June, 9), d)
}

func TestNewEntryDefaultsToToday(t *testing.T) {
	now := time.Date(2024, time.July, 4, 15, 4, 5, 0, time.UTC)
	svc := NewService(newStubRepo(), WithClock(func() time.Time { return now }))

	entry := svc.NewEntry()

	require.Equal(t, NewDate(2024, time.July, 4), entry.Date)
	require.Zero(t, entry.ID)
	require.Zero(t, entry.Duration)
}

func TestValidateRejectsNonPositiveDuration(t *testing.T) {
	svc := NewService(newStubRepo())

	for _, duration := range []float64{0, -1, math.NaN(), math.Inf(1), math.Inf(-1)} {
		errs := svc.Validate(Entry{Duration: duration}, nil)
		require.False(t, errs.Valid())
		require.Equal(t, []string{DurationPositiveMessage}, errs["Duration"])
	}

	require.True(t, svc.Validate(Entry{Duration: 0.5}, nil).Valid())
}

func TestAddEntryRejectsNaNDuration(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	_, errs, err := svc.AddEntry(context.Background(), Entry{Date: NewDate(2024, time.March, 14), Duration: math.NaN()}, nil)

	require.NoError(t, err)
	require.Equal(t, []string{DurationPositiveMessage}, errs["Duration"])
	list, err := svc.ListEntries(context.Background())
	require.NoError(t, err)
	require.Empty(t, list.Entries)
}

func TestValidateSkipsDurationCheckAfterBindingError(t *testing.T) {
	svc := NewService(newStubRepo())
	bindErrs := FieldErrors{}
	bindErrs.Add("Duration", "The value 'abc' is not valid for Duration.")

	errs := svc.Validate(Entry{}, bindErrs)

	require.Equal(t, []string{"The value 'abc' is not valid for Duration."}, errs["Duration"])
}

func TestAddEntryStoresValidEntry(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	stored, errs, err := svc.AddEntry(context.Background(), Entry{ID: 99, Date: NewDate(2024, time.January, 1), Duration: 30}, nil)

	require.NoError(t, err)
	require.Nil(t, errs)
	require.Equal(t, 1, stored.ID)
	require.Len(t, repo.entries, 1)
}

func TestAddEntryInvalidStoresNothing(t *testing.T) {
	repo := newStubRepo()
	svc := NewService(repo)

	_, errs, err := svc.AddEntry(context.Background(), Entry{Date: NewDate(2024, time.January, 1)}, nil)

	require.NoError(t, err)
	require.True(t, errs.Has("Duration"))
	require.Empty(t, repo.entries)
}

func TestAddEntryWrapsRepositoryError(t *testing.T) {
	repo := newStubRepo()
	repo.err = errors.New("boom")
	svc := NewService(repo)

	_, _, err := svc.AddEntry(context.Background(), Entry{Duration: 1}, nil)

	require.ErrorIs(t, err, repo.err)
}

func TestGetEntryNotFound(t *testing.T) {
	svc := NewService(newStubRepo())

	_, err := svc.GetEntry(context.Background(), 42)

	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdateEntryUnknownID(t *testing.T) {
	svc := NewService(newStubRepo())

	errs, err := svc.UpdateEntry(context.Background(), Entry{ID: 7, Duration: 10}, nil)

	require.Nil(t, errs)
	require.ErrorIs(t, err, ErrEntryNotFound)
}

func TestUpdateEntryInvalidLeavesStoreUntouched(t *testing.T) {
	repo := newStubRepo()
	repo.entries = []Entry{{ID: 1, Duration: 10}}
	svc := NewService(repo)

	errs, err := svc.UpdateEntry(context.Background(), Entry{ID: 1, Duration: -5}, nil)

	require.NoError(t, err)
	require.True(t, errs.Has("Duration"))
	require.Equal(t, 10.0, repo.entries[0].Duration)
}

func TestListEntriesIncludesStats(t *testing.T) {
	repo := newStubRepo()
	repo.entries = []Entry{
		{ID: 1, Date: NewDate(2024, time.January, 1), Duration: 30},
		{ID: 2, Date: NewDate(2024, time.January, 2), Duration: 10},
	}
	svc := NewService(repo)

	list, err := svc.ListEntries(context.Background())

	require.NoError(t, err)
	require.Len(t, list.Entries, 2)
	require.Equal(t, 20.0, list.Stats.AverageDailyActivity)
}

type stubRepo struct {
	entries []Entry
	err     error
}

func newStubRepo() *stubRepo {
	return &stubRepo{}
}

func (r *stubRepo) List(context.Context) ([]Entry, error) {
	return r.entries, r.err
}

func (r *stubRepo) Get(_ context.Context, id int) (*Entry, error) {
	for _, e := range r.entries {
		if e.ID == id {
			e := e
			return &e, nil
		}
	}
	return nil, r.err
}

func (r *stubRepo) Add(_ context.Context, entry Entry) (Entry, error) {
	if r.err != nil {
		return Entry{}, r.err
	}
	entry.ID = len(r.entries) + 1
	r.entries = append(r.entries, entry)
	return entry, nil
}

func (r *stubRepo) Update(_ context.Context, entry Entry) error {
	for i := range r.entries {
		if r.entries[i].ID == entry.ID {
			r.entries[i] = entry
			return nil
		}
	}
	return ErrEntryNotFound
}
