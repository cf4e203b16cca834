package windowing

import "time"

// maxBuckets is the hard ceiling on the number of analytics buckets a single
// request may produce.
const maxBuckets = 1024

// defaultWindowMinutes is one day.
const defaultWindowMinutes = 1440

const defaultLookbackDays = 30

// niceWindows are the granularities, in minutes, the planner escalates
// through when the requested window would exceed the bucket ceiling.
var niceWindows = []int{1, 5, 15, 30, 60, 720, 1440}

// Windowing is the time selection of a query or analytics request. Oldest and
// Newest bound a half-open interval; Window is the desired bucket size in
// minutes.
type Windowing struct {
	Oldest *time.Time `json:"oldest,omitempty"`
	Newest *time.Time `json:"newest,omitempty"`
	Limit  int        `json:"limit,omitempty"`
	Window *int       `json:"window,omitempty"`
	Rate   *float64   `json:"rate,omitempty"`
	Order  string     `json:"order,omitempty"`
}

// Plan is a resolved window: the effective interval, the bucket stride in
// minutes, and the explicit ordered bucket-start timestamps covering
// [Oldest, Newest).
type Plan struct {
	Oldest     time.Time
	Newest     time.Time
	Stride     int
	Timestamps []time.Time
}

// WindowPlanner resolves a requested window into a safe bucket stride. It is
// stateless and safe for concurrent use.
type WindowPlanner struct {
}

func NewWindowPlanner() *WindowPlanner {
	return &WindowPlanner{}
}

// Resolve computes the plan for a request relative to now. Missing bounds
// default to the last 30 days ending at the start of tomorrow.
func (wp *WindowPlanner) Resolve(windowing Windowing, now time.Time) Plan {
	newest := startOfTomorrow(now)
	if windowing.Newest != nil {
		newest = *windowing.Newest
	}
	oldest := newest.AddDate(0, 0, -defaultLookbackDays)
	if windowing.Oldest != nil {
		oldest = *windowing.Oldest
	}

	desired := defaultWindowMinutes
	if windowing.Window != nil && *windowing.Window > 0 {
		desired = *windowing.Window
	}

	periodMinutes := newest.Sub(oldest).Minutes()
	stride := desired
	if periodMinutes/float64(desired) > maxBuckets {
		stride = niceWindows[len(niceWindows)-1]
		for _, granularity := range niceWindows {
			if periodMinutes/float64(granularity) <= maxBuckets {
				stride = granularity
				break
			}
		}
	}

	// The fallback granularity can still overshoot on extreme ranges, so the
	// ceiling is enforced on the emitted list as well.
	var timestamps []time.Time
	for timestamp := oldest; timestamp.Before(newest) && len(timestamps) < maxBuckets; timestamp = timestamp.Add(time.Duration(stride) * time.Minute) {
		timestamps = append(timestamps, timestamp)
	}

	return Plan{
		Oldest:     oldest,
		Newest:     newest,
		Stride:     stride,
		Timestamps: timestamps,
	}
}

func startOfTomorrow(now time.Time) time.Time {
	year, month, day := now.UTC().Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 1)
}
