// Package timeformat renders message instants into the es-ES labels the
// chat UI shows: bubble times, date separators and the relative
// last-activity column of the contact list. Every function takes the
// caller's notion of now so rendering is deterministic under test.
package timeformat

import (
	"fmt"
	"math"
	"time"
)

// Placeholder is shown for instants that never decoded to a real time.
const Placeholder = "--:--"

var weekdaysShort = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

var weekdaysLong = [...]string{
	"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado",
}

var months = [...]string{
	"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
}

// FormatMessageTime renders the small time label inside a chat bubble.
// Today shows the bare clock, yesterday "Ayer HH:MM", the rest of the week
// an abbreviated weekday, and anything older "DD/MM HH:MM".
func FormatMessageTime(ts, now time.Time) string {
	if ts.IsZero() {
		return Placeholder
	}
	ts = ts.In(now.Location())

	clock := ts.Format("15:04")
	switch diff := dayDiff(ts, now); {
	case diff == 0:
		return clock
	case diff == 1:
		return "Ayer " + clock
	case diff <= 7:
		return weekdaysShort[ts.Weekday()] + " " + clock
	default:
		return ts.Format("02/01") + " " + clock
	}
}

// FormatDateSeparator renders the banner between messages from different
// calendar days: "Hoy", "Ayer", then "jueves, 6 de noviembre" within a
// week, then "6 de noviembre de 2025".
func FormatDateSeparator(ts, now time.Time) string {
	if ts.IsZero() {
		return "--"
	}
	ts = ts.In(now.Location())

	switch diff := dayDiff(ts, now); {
	case diff == 0:
		return "Hoy"
	case diff == 1:
		return "Ayer"
	case diff <= 7:
		return fmt.Sprintf("%s, %d de %s", weekdaysLong[ts.Weekday()], ts.Day(), months[ts.Month()-1])
	default:
		return fmt.Sprintf("%d de %s de %d", ts.Day(), months[ts.Month()-1], ts.Year())
	}
}

// FormatLastMessageTime renders the relative activity label of the contact
// list. Unlike the calendar-day labels above, this one works on raw elapsed
// time: "Ahora", "{m}m", "{h}h", "{d}d", then "DD/MM".
func FormatLastMessageTime(ts, now time.Time) string {
	if ts.IsZero() {
		return "--"
	}

	switch diff := now.Sub(ts); {
	case diff < time.Minute:
		return "Ahora"
	case diff < time.Hour:
		return fmt.Sprintf("%dm", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd", int(diff.Hours()/24))
	default:
		return ts.In(now.Location()).Format("02/01")
	}
}

// dayDiff counts whole calendar days between the message's day and today,
// on local day boundaries. The ceiling keeps any portion of a prior day at
// least 1, while anything earlier today stays 0; the division (rather than
// a plain subtraction) rides out DST-shortened days.
func dayDiff(ts, now time.Time) int {
	today := startOfDay(now)
	day := startOfDay(ts)
	return int(math.Ceil(today.Sub(day).Hours() / 24))
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
