package parse

import (
	"fmt"
	"strings"
	"time"
)

// Literal layouts tried in order; the first valid parse wins, so ambiguity
// between formats is resolved by list position, not by heuristic.
var layouts = []string{
	"15:04",
	"02.01.2006 15:04",
	"02.01.2006",
	"2006-01-02 15:04",
	"2006-01-02",
}

const defaultMorningTime = "09:00"

// Instant resolves a free-text time expression into an absolute instant,
// interpreted relative to now in the given location.
//
// Accepted inputs: "morgen"/"tomorrow" with an optional HH:MM (defaulting to
// 09:00 the following day), a bare HH:MM meaning today at that time, and the
// literal date layouts above. Anything else is a parse failure.
func Instant(text string, now time.Time, loc *time.Location) (time.Time, error) {
	s := strings.ToLower(strings.TrimSpace(text))
	if s == "" {
		return time.Time{}, fmt.Errorf("empty time expression")
	}

	local := now.In(loc)

	for _, keyword := range []string{"morgen", "tomorrow"} {
		if strings.HasPrefix(s, keyword) {
			timePart := strings.TrimSpace(strings.TrimPrefix(s, keyword))
			if timePart == "" {
				timePart = defaultMorningTime
			}
			clock, err := time.Parse("15:04", timePart)
			if err != nil {
				return time.Time{}, fmt.Errorf("unable to resolve time expression: %q", text)
			}
			tomorrow := local.AddDate(0, 0, 1)
			return time.Date(tomorrow.Year(), tomorrow.Month(), tomorrow.Day(),
				clock.Hour(), clock.Minute(), 0, 0, loc), nil
		}
	}

	for _, layout := range layouts {
		parsed, err := time.ParseInLocation(layout, s, loc)
		if err != nil {
			continue
		}
		if layout == "15:04" {
			// A bare time of day means "today at this time".
			return time.Date(local.Year(), local.Month(), local.Day(),
				parsed.Hour(), parsed.Minute(), 0, 0, loc), nil
		}
		return parsed, nil
	}

	return time.Time{}, fmt.Errorf("unable to resolve time expression: %q", text)
}
