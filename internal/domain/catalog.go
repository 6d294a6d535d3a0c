package domain

// Activity is a selectable kind of exercise.
type Activity struct {
	ID   int
	Name string
}

// Catalog is the fixed list of activities offered on the entry forms. It is
// built once and never mutated, so a single instance can be shared by all
// requests without locking.
type Catalog struct {
	activities []Activity
	byID       map[int]Activity
}

// NewCatalog builds a catalog preserving the given order.
func NewCatalog(activities ...Activity) *Catalog {
	c := &Catalog{
		activities: make([]Activity, len(activities)),
		byID:       make(map[int]Activity, len(activities)),
	}
	copy(c.activities, activities)
	for _, a := range activities {
		c.byID[a.ID] = a
	}
	return c
}

// DefaultCatalog returns the stock activity list.
func DefaultCatalog() *Catalog {
	return NewCatalog(
		Activity{ID: 1, Name: "Basketball"},
		Activity{ID: 2, Name: "Biking"},
		Activity{ID: 3, Name: "Hiking"},
		Activity{ID: 4, Name: "Kayaking"},
		Activity{ID: 5, Name: "Pickleball"},
		Activity{ID: 6, Name: "Running"},
		Activity{ID: 7, Name: "Skiing"},
		Activity{ID: 8, Name: "Swimming"},
		Activity{ID: 9, Name: "Tennis"},
		Activity{ID: 10, Name: "Walking"},
		Activity{ID: 11, Name: "Weight Lifting"},
	)
}

// All returns a copy of the activities in catalog order.
func (c *Catalog) All() []Activity {
	out := make([]Activity, len(c.activities))
	copy(out, c.activities)
	return out
}

// Lookup finds an activity by ID.
func (c *Catalog) Lookup(id int) (Activity, bool) {
	a, ok := c.byID[id]
	return a, ok
}

// SampleEntries returns a handful of entries around today, used to seed a
// fresh in-memory store.
func SampleEntries(today Date) []Entry {
	return []Entry{
		{Date: today.AddDays(-2), ActivityID: 6, Duration: 10, Distance: 2, Notes: "Easy *recovery* run."},
		{Date: today.AddDays(-2), ActivityID: 2, Duration: 10, Exclude: true},
		{Date: today.AddDays(-1), ActivityID: 10, Duration: 25, Distance: 1.5},
		{Date: today, ActivityID: 11, Duration: 45, Notes: "Squats, deadlifts, bench."},
	}
}
