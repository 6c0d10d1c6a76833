package transaction

import (
	"encoding/json"
	"fmt"
	"time"
)

// requestDate is a transaction date as sent by clients: either a calendar
// day ("2025-03-15", midnight in the handler's location) or RFC 3339.
type requestDate struct {
	raw string
}

func (d *requestDate) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}

	if _, err := parseRequestDate(s, time.UTC); err != nil {
		return err
	}

	d.raw = s

	return nil
}

func (d requestDate) In(loc *time.Location) time.Time {
	t, _ := parseRequestDate(d.raw, loc)
	return t
}

func parseRequestDate(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.ParseInLocation(time.DateOnly, s, loc); err == nil {
		return t, nil
	}

	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("date %q is neither YYYY-MM-DD nor RFC 3339", s)
	}

	return t, nil
}
