// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package textutil

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// eodHour is the hour "end of day" resolves to, in the reference time's
// location.
const eodHour = 17

var (
	// "deadline: 3/15/2026", "due 03-15-26"
	numericDeadline = regexp.MustCompile(`(?i)\b(?:deadline|due)\s*:?\s*(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})`)

	// "by March 15th", "by mar 15"
	monthDayDeadline = regexp.MustCompile(`(?i)\bby\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\b`)

	// "before 3:00 pm"
	clockDeadline = regexp.MustCompile(`(?i)\bbefore\s+(\d{1,2}):(\d{2})\s*([ap])\.?m\b`)

	tomorrowRef = regexp.MustCompile(`(?i)\btomorrow\b`)
	todayRef    = regexp.MustCompile(`(?i)\b(?:eod|cob|end of (?:the )?day|today)\b`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// Deadline extracts an explicit deadline from text, resolved against the
// reference time (normally the email's ReceivedAt). Explicit dates win over
// relative phrases; "eod"/"today"/"tomorrow" resolve to 17:00 on the
// referenced day. The second return is false when no deadline phrase is
// found. Best-effort: unparseable matches are skipped, never an error.
func Deadline(text string, ref time.Time) (time.Time, bool) {
	if m := numericDeadline.FindStringSubmatch(text); m != nil {
		month, _ := strconv.Atoi(m[1])
		day, _ := strconv.Atoi(m[2])
		year, _ := strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
		if month >= 1 && month <= 12 && day >= 1 && day <= 31 {
			return time.Date(year, time.Month(month), day, eodHour, 0, 0, 0, ref.Location()), true
		}
	}

	if m := monthDayDeadline.FindStringSubmatch(text); m != nil {
		month := monthsByPrefix[strings.ToLower(m[1])]
		day, _ := strconv.Atoi(m[2])
		if day >= 1 && day <= 31 {
			return time.Date(ref.Year(), month, day, eodHour, 0, 0, 0, ref.Location()), true
		}
	}

	if m := clockDeadline.FindStringSubmatch(text); m != nil {
		hour, _ := strconv.Atoi(m[1])
		minute, _ := strconv.Atoi(m[2])
		if strings.EqualFold(m[3], "p") && hour < 12 {
			hour += 12
		}
		if hour <= 23 && minute <= 59 {
			return time.Date(ref.Year(), ref.Month(), ref.Day(), hour, minute, 0, 0, ref.Location()), true
		}
	}

	if tomorrowRef.MatchString(text) {
		next := ref.AddDate(0, 0, 1)
		return time.Date(next.Year(), next.Month(), next.Day(), eodHour, 0, 0, 0, ref.Location()), true
	}
	if todayRef.MatchString(text) {
		return time.Date(ref.Year(), ref.Month(), ref.Day(), eodHour, 0, 0, 0, ref.Location()), true
	}

	return time.Time{}, false
}

// HasDateReference reports whether text mentions an explicit date or time:
// a deadline phrase, a month-day, or a numeric date. Used by the thread
// compressor when building the timeline.
var dateReference = regexp.MustCompile(`(?i)(?:\b(?:deadline|due date|due)\b|\b(?:january|february|march|april|may|june|july|august|september|october|november|december)\s+\d{1,2}\b|\b\d{1,2}/\d{1,2}/\d{2,4}\b|\b(?:eod|cob|today|tomorrow)\b)`)

func HasDateReference(text string) bool {
	return dateReference.MatchString(text)
}
