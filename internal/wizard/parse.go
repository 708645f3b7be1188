package wizard

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"eventHerald/internal/recurrence"
)

var weekdayNames = map[string]time.Weekday{
	"mon": time.Monday, "monday": time.Monday,
	"tue": time.Tuesday, "tuesday": time.Tuesday,
	"wed": time.Wednesday, "wednesday": time.Wednesday,
	"thu": time.Thursday, "thursday": time.Thursday,
	"fri": time.Friday, "friday": time.Friday,
	"sat": time.Saturday, "saturday": time.Saturday,
	"sun": time.Sunday, "sunday": time.Sunday,
}

var ordinalWeeks = map[string]int{
	"1st": 1, "first": 1,
	"2nd": 2, "second": 2,
	"3rd": 3, "third": 3,
	"4th": 4, "fourth": 4,
	"5th": 5, "fifth": 5,
	"last": -1,
}

// ParseRule reads the wizard's compact recurrence grammar:
//
//	daily | weekly | monthly | yearly
//	every N days|weeks|months|years
//	... on tue,thu            (weekly, specific days)
//	... on 15,31              (monthly, specific month days)
//	... on 2nd tuesday        (monthly, nth weekday; "last friday" works)
//	... x10                   (count bound)
//	... until 2025-06-30      (exclusive date bound)
//
// The returned rule still needs Validate.
func ParseRule(input string) (recurrence.Rule, error) {
	rule := recurrence.Rule{Interval: 1}

	fields := strings.Fields(strings.ToLower(input))
	if len(fields) == 0 {
		return rule, fmt.Errorf("empty recurrence")
	}

	i := 0
	switch fields[0] {
	case "daily":
		rule.Kind = recurrence.Daily
		i = 1
	case "weekly":
		rule.Kind = recurrence.Weekly
		i = 1
	case "monthly":
		rule.Kind = recurrence.Monthly
		i = 1
	case "yearly", "annually":
		rule.Kind = recurrence.Yearly
		i = 1
	case "every":
		if len(fields) < 3 {
			return rule, fmt.Errorf("expected \"every N days|weeks|months|years\"")
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil || n < 1 {
			return rule, fmt.Errorf("bad interval %q", fields[1])
		}
		rule.Interval = n
		switch strings.TrimSuffix(fields[2], "s") {
		case "day":
			rule.Kind = recurrence.Daily
		case "week":
			rule.Kind = recurrence.Weekly
		case "month":
			rule.Kind = recurrence.Monthly
		case "year":
			rule.Kind = recurrence.Yearly
		default:
			return rule, fmt.Errorf("unknown unit %q", fields[2])
		}
		i = 3
	default:
		return rule, fmt.Errorf("could not understand recurrence %q", input)
	}

	for i < len(fields) {
		switch {
		case fields[i] == "on":
			if i+1 >= len(fields) {
				return rule, fmt.Errorf("\"on\" needs days to follow")
			}
			consumed, err := parseOnClause(&rule, fields[i+1:])
			if err != nil {
				return rule, err
			}
			i += 1 + consumed

		case strings.HasPrefix(fields[i], "x"):
			n, err := strconv.Atoi(fields[i][1:])
			if err != nil || n < 1 {
				return rule, fmt.Errorf("bad occurrence count %q", fields[i])
			}
			rule.Count = &n
			i++

		case fields[i] == "until":
			if i+1 >= len(fields) {
				return rule, fmt.Errorf("\"until\" needs a date to follow")
			}
			until, err := time.Parse("2006-01-02", fields[i+1])
			if err != nil {
				return rule, fmt.Errorf("bad until date %q", fields[i+1])
			}
			rule.Until = &until
			i += 2

		default:
			return rule, fmt.Errorf("unexpected %q in recurrence", fields[i])
		}
	}

	return rule, nil
}

func parseOnClause(rule *recurrence.Rule, fields []string) (int, error) {
	// "2nd tuesday" style, possibly "2nd,4th tuesday".
	if weeks, ok := parseOrdinals(fields[0]); ok {
		if len(fields) < 2 {
			return 0, fmt.Errorf("expected a weekday after %q", fields[0])
		}
		wd, ok := weekdayNames[fields[1]]
		if !ok {
			return 0, fmt.Errorf("unknown weekday %q", fields[1])
		}
		for _, week := range weeks {
			rule.NthWeekdays = append(rule.NthWeekdays, recurrence.NthWeekday{Week: week, Weekday: wd})
		}
		rule.Kind = recurrence.MonthlyByWeekday
		return 2, nil
	}

	// "tue,thu" weekday list.
	if allWeekdays(fields[0]) {
		for _, name := range strings.Split(fields[0], ",") {
			rule.Weekdays = append(rule.Weekdays, weekdayNames[name])
		}
		rule.Kind = recurrence.WeeklyByDays
		return 1, nil
	}

	// "15,31" month day list.
	for _, part := range strings.Split(fields[0], ",") {
		day, err := strconv.Atoi(part)
		if err != nil {
			return 0, fmt.Errorf("could not understand %q after \"on\"", fields[0])
		}
		rule.MonthDays = append(rule.MonthDays, day)
	}
	rule.Kind = recurrence.Monthly
	return 1, nil
}

func parseOrdinals(field string) ([]int, bool) {
	var weeks []int
	for _, part := range strings.Split(field, ",") {
		week, ok := ordinalWeeks[part]
		if !ok {
			return nil, false
		}
		weeks = append(weeks, week)
	}
	return weeks, true
}

func allWeekdays(field string) bool {
	for _, part := range strings.Split(field, ",") {
		if _, ok := weekdayNames[part]; !ok {
			return false
		}
	}
	return true
}
