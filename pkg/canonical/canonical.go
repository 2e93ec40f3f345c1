// Package canonical normalizes the free-form date and time text coming out of
// the spreadsheet into fixed formats: ISO calendar dates (YYYY-MM-DD) and
// 24-hour clock times (HH:MM).
//
// Both functions are pure and total: input that matches no known form is
// returned unchanged rather than failing, because a half-synced batch is worse
// than one odd-looking cell. Downstream consumers must tolerate passthrough
// values.
package canonical

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var (
	isoDateRe  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	clock24Re  = regexp.MustCompile(`^(\d{1,2}):(\d{2})$`)
	meridiemRe = regexp.MustCompile(`(?i)^(\d{1,2}):(\d{2})(?::\d{2})?\s*(am|pm)$`)
)

// dateLayouts are tried in order for anything that is neither ISO nor M/D/Y.
var dateLayouts = []string{
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
	"2006/01/02",
	time.RFC3339,
}

// Date normalizes raw date text to YYYY-MM-DD. Already-ISO input passes
// through, slash dates are read as M/D/Y (the sheet's locale), and a few
// common long forms are tried last. Unparseable input is returned as-is.
func Date(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if isoDateRe.MatchString(s) {
		return s
	}
	// M/D/Y per the sheet's locale. time.Parse checks the real calendar, so
	// impossible dates like 02/30 fall through to passthrough.
	if t, err := time.Parse("1/2/2006", s); err == nil {
		return t.Format("2006-01-02")
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return raw
}

// Time normalizes raw time text to zero-padded 24-hour HH:MM. Accepts
// already-24-hour H:MM, and H:MM(:SS)? with an AM/PM suffix in any case with
// or without a space. 12 AM maps to 00, 12 PM stays 12. Unparseable input is
// returned as-is.
func Time(raw string) string {
	s := strings.TrimSpace(raw)
	if s == "" {
		return ""
	}
	if m := clock24Re.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		if hours < 24 {
			return fmt.Sprintf("%02d:%s", hours, m[2])
		}
		return raw
	}
	if m := meridiemRe.FindStringSubmatch(s); m != nil {
		hours, _ := strconv.Atoi(m[1])
		if hours < 1 || hours > 12 {
			return raw
		}
		switch strings.ToLower(m[3]) {
		case "pm":
			if hours != 12 {
				hours += 12
			}
		case "am":
			if hours == 12 {
				hours = 0
			}
		}
		return fmt.Sprintf("%02d:%s", hours, m[2])
	}
	return raw
}
