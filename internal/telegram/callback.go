package telegram

import (
	"fmt"
	"time"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// Callback payloads are compact JSON documents carried in inline-button
// callback data. The "t" key is always first, so handlers can be registered
// with a cheap prefix match on the raw data.
const (
	payloadKindCalendar = "cal"
	payloadKindTime     = "time"

	// CalendarPrefix and TimePrefix match the callback data of the
	// respective payload kinds.
	CalendarPrefix = `{"t":"cal"`
	TimePrefix     = `{"t":"time"`

	customTimeValue = "custom"

	dayFormat   = "2006-01-02"
	monthFormat = "2006-01"
)

// CalendarAction distinguishes the calendar callbacks.
type CalendarAction int

const (
	// CalendarNoop marks decorative cells (headers, blank days).
	CalendarNoop CalendarAction = iota
	// CalendarNavigate asks for another month to be rendered.
	CalendarNavigate
	// CalendarSelectDay completes the date round trip.
	CalendarSelectDay
)

// CalendarCallback is a decoded calendar payload. Day is set for
// CalendarSelectDay, Month for CalendarNavigate.
type CalendarCallback struct {
	Action CalendarAction
	Day    time.Time
	Month  time.Time
}

func encodeDayPayload(day time.Time) string {
	p, _ := sjson.Set(`{}`, "t", payloadKindCalendar)
	p, _ = sjson.Set(p, "a", "day")
	p, _ = sjson.Set(p, "d", day.Format(dayFormat))
	return p
}

func encodeNavPayload(month time.Time) string {
	p, _ := sjson.Set(`{}`, "t", payloadKindCalendar)
	p, _ = sjson.Set(p, "a", "nav")
	p, _ = sjson.Set(p, "m", month.Format(monthFormat))
	return p
}

func encodeNoopPayload() string {
	p, _ := sjson.Set(`{}`, "t", payloadKindCalendar)
	p, _ = sjson.Set(p, "a", "noop")
	return p
}

// EncodeTimePayload builds the callback data of a preset time button.
func EncodeTimePayload(hhmm string) string {
	p, _ := sjson.Set(`{}`, "t", payloadKindTime)
	p, _ = sjson.Set(p, "v", hhmm)
	return p
}

// EncodeCustomTimePayload builds the callback data of the free-text time button.
func EncodeCustomTimePayload() string {
	return EncodeTimePayload(customTimeValue)
}

// DecodeCalendarCallback parses calendar callback data. loc anchors the
// decoded dates in the bot's configured timezone.
func DecodeCalendarCallback(data string, loc *time.Location) (CalendarCallback, error) {
	if gjson.Get(data, "t").String() != payloadKindCalendar {
		return CalendarCallback{}, fmt.Errorf("not a calendar payload: %s", data)
	}

	switch action := gjson.Get(data, "a").String(); action {
	case "noop":
		return CalendarCallback{Action: CalendarNoop}, nil
	case "nav":
		month, err := time.ParseInLocation(monthFormat, gjson.Get(data, "m").String(), loc)
		if err != nil {
			return CalendarCallback{}, fmt.Errorf("bad month in calendar payload: %w", err)
		}
		return CalendarCallback{Action: CalendarNavigate, Month: month}, nil
	case "day":
		day, err := time.ParseInLocation(dayFormat, gjson.Get(data, "d").String(), loc)
		if err != nil {
			return CalendarCallback{}, fmt.Errorf("bad day in calendar payload: %w", err)
		}
		return CalendarCallback{Action: CalendarSelectDay, Day: day}, nil
	default:
		return CalendarCallback{}, fmt.Errorf("unknown calendar action %q", action)
	}
}

// DecodeTimeCallback parses time-picker callback data. custom reports the
// free-text entry request; otherwise value holds the chosen HH:MM.
func DecodeTimeCallback(data string) (value string, custom bool, err error) {
	if gjson.Get(data, "t").String() != payloadKindTime {
		return "", false, fmt.Errorf("not a time payload: %s", data)
	}

	v := gjson.Get(data, "v").String()
	if v == "" {
		return "", false, fmt.Errorf("time payload missing value: %s", data)
	}
	if v == customTimeValue {
		return "", true, nil
	}
	return v, false, nil
}
