package handlers

import "fmt"

// availableSlots is the fixed slot table: scheduleDate -> valid scheduleTime
// values for that date. Bookings outside this table are rejected.
var availableSlots = map[string][]string{
	"2024-03-10": {"10:00 AM", "10:30 AM", "5:00 PM"},
	"2024-03-11": {"9:00 AM", "11:00 AM", "4:00 PM"},
	"2024-03-12": {"9:00 AM", "11:00 AM", "4:00 PM"},
}

type invalidSlotError struct {
	Date string
	Time string
}

func (e invalidSlotError) Error() string {
	if e.Time == "" {
		return fmt.Sprintf("invalid date selected: %s", e.Date)
	}
	return fmt.Sprintf("invalid time %s for date %s", e.Time, e.Date)
}

func validateSlot(date, timeOfDay string) error {
	times, ok := availableSlots[date]
	if !ok {
		return invalidSlotError{Date: date}
	}
	for _, t := range times {
		if t == timeOfDay {
			return nil
		}
	}
	return invalidSlotError{Date: date, Time: timeOfDay}
}
