package recurrence

import (
	"fmt"
	"strings"
	"time"

	"github.com/teambition/rrule-go"
)

// Kind selects the recurrence pattern. A one-shot event carries no Rule at
// all (nil pointer) rather than a "none" kind.
type Kind string

const (
	Daily            Kind = "daily"
	Weekly           Kind = "weekly"
	WeeklyByDays     Kind = "weekly_by_days"
	Monthly          Kind = "monthly"
	MonthlyByWeekday Kind = "monthly_by_weekday"
	Yearly           Kind = "yearly"
)

// Interval upper bounds per frequency, enforced at construction time so an
// unreasonable schedule never reaches the tick loop.
const (
	maxDailyInterval   = 366
	maxWeeklyInterval  = 80
	maxMonthlyInterval = 24
)

// NthWeekday names an occurrence like "2nd Tuesday". Week is 1..5 counted
// from the start of the month, or -1 for the last such weekday.
type NthWeekday struct {
	Week    int          `json:"week"`
	Weekday time.Weekday `json:"weekday"`
}

// Rule describes how an event repeats, with iCalendar RRULE semantics.
// At most one of Count/Until may be set; neither means unbounded.
type Rule struct {
	Kind     Kind `json:"kind"`
	Interval int  `json:"interval"`

	// Weekdays applies to WeeklyByDays.
	Weekdays []time.Weekday `json:"weekdays,omitempty"`

	// MonthDays applies to Monthly. Empty means the anchor's day of month.
	MonthDays []int `json:"month_days,omitempty"`

	// NthWeekdays applies to MonthlyByWeekday.
	NthWeekdays []NthWeekday `json:"nth_weekdays,omitempty"`

	// Count is the number of occurrences still to come, nil for no count
	// bound. It is decremented by Next on every returned occurrence.
	Count *int `json:"count,omitempty"`

	// Until bounds occurrences exclusively: only instants strictly before
	// it are valid.
	Until *time.Time `json:"until,omitempty"`
}

// Validate checks the rule's shape. Rules are validated when built (wizard
// or API), never at tick time.
func (r Rule) Validate() error {
	if r.Interval < 1 {
		return fmt.Errorf("interval must be at least 1, got %d", r.Interval)
	}
	if r.Count != nil && r.Until != nil {
		return fmt.Errorf("count and until are mutually exclusive")
	}
	if r.Count != nil && *r.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", *r.Count)
	}

	switch r.Kind {
	case Daily:
		if r.Interval > maxDailyInterval {
			return fmt.Errorf("daily interval must not exceed %d", maxDailyInterval)
		}
	case Weekly, WeeklyByDays:
		if r.Interval > maxWeeklyInterval {
			return fmt.Errorf("weekly interval must not exceed %d", maxWeeklyInterval)
		}
		if r.Kind == WeeklyByDays && len(r.Weekdays) == 0 {
			return fmt.Errorf("weekly-by-days rule needs at least one weekday")
		}
	case Monthly, MonthlyByWeekday:
		if r.Interval > maxMonthlyInterval {
			return fmt.Errorf("monthly interval must not exceed %d", maxMonthlyInterval)
		}
		if r.Kind == MonthlyByWeekday && len(r.NthWeekdays) == 0 {
			return fmt.Errorf("monthly-by-weekday rule needs at least one weekday entry")
		}
		for _, d := range r.MonthDays {
			if d < 1 || d > 31 {
				return fmt.Errorf("month day %d out of range 1..31", d)
			}
		}
		for _, nth := range r.NthWeekdays {
			if nth.Week == 0 || nth.Week > 5 || nth.Week < -1 {
				return fmt.Errorf("nth-weekday week %d out of range (1..5 or -1)", nth.Week)
			}
		}
	case Yearly:
	default:
		return fmt.Errorf("unknown recurrence kind %q", r.Kind)
	}

	return nil
}

// Next computes the first occurrence strictly after the given instant,
// anchored at that instant in loc. It returns the rule state to carry
// forward (count reduced by one when bounded) and false once the bound is
// exhausted or no further occurrence exists.
//
// A monthly rule whose day does not exist in some month skips that month
// entirely; day 31 anchored in January yields March 31, never February 28.
func (r Rule) Next(after time.Time, loc *time.Location) (time.Time, Rule, bool) {
	if loc == nil {
		loc = time.UTC
	}

	if r.Count != nil && *r.Count <= 0 {
		return time.Time{}, r, false
	}

	opt, err := r.roption(after.In(loc))
	if err != nil {
		return time.Time{}, r, false
	}

	rule, err := rrule.NewRRule(opt)
	if err != nil {
		return time.Time{}, r, false
	}

	occ := rule.After(after.In(loc), false)
	if occ.IsZero() {
		return time.Time{}, r, false
	}

	if r.Until != nil && !occ.Before(*r.Until) {
		return time.Time{}, r, false
	}

	next := r
	if r.Count != nil {
		c := *r.Count - 1
		next.Count = &c
	}

	return occ.UTC(), next, true
}

func (r Rule) roption(anchor time.Time) (rrule.ROption, error) {
	opt := rrule.ROption{
		Interval: r.Interval,
		Dtstart:  anchor,
	}

	switch r.Kind {
	case Daily:
		opt.Freq = rrule.DAILY
	case Weekly:
		opt.Freq = rrule.WEEKLY
	case WeeklyByDays:
		opt.Freq = rrule.WEEKLY
		for _, wd := range r.Weekdays {
			opt.Byweekday = append(opt.Byweekday, toRRuleWeekday(wd))
		}
	case Monthly:
		opt.Freq = rrule.MONTHLY
		opt.Bymonthday = append(opt.Bymonthday, r.MonthDays...)
	case MonthlyByWeekday:
		opt.Freq = rrule.MONTHLY
		for _, nth := range r.NthWeekdays {
			wd := toRRuleWeekday(nth.Weekday)
			opt.Byweekday = append(opt.Byweekday, wd.Nth(nth.Week))
		}
	case Yearly:
		opt.Freq = rrule.YEARLY
	default:
		return opt, fmt.Errorf("unknown recurrence kind %q", r.Kind)
	}

	return opt, nil
}

func toRRuleWeekday(wd time.Weekday) rrule.Weekday {
	switch wd {
	case time.Monday:
		return rrule.MO
	case time.Tuesday:
		return rrule.TU
	case time.Wednesday:
		return rrule.WE
	case time.Thursday:
		return rrule.TH
	case time.Friday:
		return rrule.FR
	case time.Saturday:
		return rrule.SA
	default:
		return rrule.SU
	}
}

// Summary renders the rule for humans, e.g. "every 2 weeks on Tue, Thu".
func (r Rule) Summary() string {
	var b strings.Builder

	switch r.Kind {
	case Daily:
		b.WriteString(every(r.Interval, "day"))
	case Weekly:
		b.WriteString(every(r.Interval, "week"))
	case WeeklyByDays:
		b.WriteString(every(r.Interval, "week"))
		b.WriteString(" on ")
		names := make([]string, 0, len(r.Weekdays))
		for _, wd := range r.Weekdays {
			names = append(names, wd.String()[:3])
		}
		b.WriteString(strings.Join(names, ", "))
	case Monthly:
		b.WriteString(every(r.Interval, "month"))
		if len(r.MonthDays) > 0 {
			days := make([]string, 0, len(r.MonthDays))
			for _, d := range r.MonthDays {
				days = append(days, fmt.Sprintf("%d", d))
			}
			b.WriteString(" on day ")
			b.WriteString(strings.Join(days, ", "))
		}
	case MonthlyByWeekday:
		b.WriteString(every(r.Interval, "month"))
		b.WriteString(" on the ")
		parts := make([]string, 0, len(r.NthWeekdays))
		for _, nth := range r.NthWeekdays {
			parts = append(parts, fmt.Sprintf("%s %s", ordinal(nth.Week), nth.Weekday))
		}
		b.WriteString(strings.Join(parts, ", "))
	case Yearly:
		b.WriteString(every(r.Interval, "year"))
	}

	if r.Count != nil {
		fmt.Fprintf(&b, ", %d more times", *r.Count)
	}
	if r.Until != nil {
		fmt.Fprintf(&b, ", until %s", r.Until.Format("Jan 2, 2006"))
	}

	return b.String()
}

func every(interval int, unit string) string {
	if interval == 1 {
		return "every " + unit
	}
	return fmt.Sprintf("every %d %ss", interval, unit)
}

func ordinal(n int) string {
	switch n {
	case -1:
		return "last"
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return fmt.Sprintf("%dth", n)
	}
}
