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
	"testing"
	"time"
)

// Tuesday 2026-03-10, 09:00 UTC.
var ref = time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

func TestDeadline(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		want  time.Time
		found bool
	}{
		{
			name:  "numeric deadline",
			text:  "Submissions close, deadline: 3/15/2026.",
			want:  time.Date(2026, 3, 15, 17, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "two digit year",
			text:  "Payment due 4/1/26 at the latest.",
			want:  time.Date(2026, 4, 1, 17, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "month day",
			text:  "Please send the slides by March 15th.",
			want:  time.Date(2026, 3, 15, 17, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "clock time",
			text:  "Hand it in before 3:30 pm.",
			want:  time.Date(2026, 3, 10, 15, 30, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "tomorrow",
			text:  "Need this by EOD tomorrow.",
			want:  time.Date(2026, 3, 11, 17, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "end of day",
			text:  "Wrap it up by end of day.",
			want:  time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "cob",
			text:  "Figures needed COB please.",
			want:  time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC),
			found: true,
		},
		{
			name:  "no deadline",
			text:  "Nothing time sensitive here.",
			found: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Deadline(tt.text, ref)
			if ok != tt.found {
				t.Fatalf("Deadline() found = %v, want %v", ok, tt.found)
			}
			if ok && !got.Equal(tt.want) {
				t.Errorf("Deadline() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDeadlineExplicitDateWinsOverRelative(t *testing.T) {
	got, ok := Deadline("Due by March 20, not tomorrow.", ref)
	if !ok {
		t.Fatal("Deadline() found = false")
	}
	want := time.Date(2026, 3, 20, 17, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("Deadline() = %v, want explicit date %v", got, want)
	}
}

func TestHasDateReference(t *testing.T) {
	tests := []struct {
		text string
		want bool
	}{
		{"The deadline is close.", true},
		{"Meeting moved to March 12.", true},
		{"Ship it 3/15/2026.", true},
		{"See you tomorrow.", true},
		{"Nothing scheduled.", false},
	}
	for _, tt := range tests {
		if got := HasDateReference(tt.text); got != tt.want {
			t.Errorf("HasDateReference(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}
