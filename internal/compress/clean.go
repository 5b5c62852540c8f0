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

package compress

import (
	"regexp"
	"strings"
)

// quoteHeader marks the start of a quoted previous message,
// e.g. "On Mon, Jan 5, Alice wrote:".
var quoteHeader = regexp.MustCompile(`(?i)^on .{3,120} wrote:\s*$`)

// cleanBody strips quoted replies, signature blocks and greeting lines from
// one message body and collapses redundant whitespace. It never strips a
// message down to nothing: when a heuristic would remove the last remaining
// content, that cut is skipped, which protects short messages from weak
// signature/greeting matches.
func (c *Compressor) cleanBody(body string) string {
	lines := strings.Split(body, "\n")

	// Quoted reply blocks: "> ..." lines, and everything after an
	// "On <date>, <person> wrote:" marker.
	kept := lines[:0:0]
	for _, ln := range lines {
		trimmed := strings.TrimSpace(ln)
		if quoteHeader.MatchString(trimmed) {
			break
		}
		if strings.HasPrefix(trimmed, ">") {
			continue
		}
		kept = append(kept, ln)
	}

	// Signature block: cut from the first signature delimiter line,
	// unless that would drop all content.
	for i, ln := range kept {
		if c.isSignatureLine(ln) {
			if hasContent(kept[:i]) {
				kept = kept[:i]
			}
			break
		}
	}

	// Leading greeting lines.
	start := 0
	for start < len(kept) {
		trimmed := strings.TrimSpace(kept[start])
		if trimmed == "" || c.isGreetingLine(trimmed) {
			if trimmed != "" && !hasContent(kept[start+1:]) {
				break
			}
			start++
			continue
		}
		break
	}
	kept = kept[start:]

	// Collapse runs of blank lines and trailing space.
	var out []string
	blank := true
	for _, ln := range kept {
		trimmed := strings.TrimRight(ln, " \t")
		if strings.TrimSpace(trimmed) == "" {
			if !blank {
				out = append(out, "")
			}
			blank = true
			continue
		}
		out = append(out, trimmed)
		blank = false
	}
	return strings.TrimSpace(strings.Join(out, "\n"))
}

// isSignatureLine reports whether the line opens a signature block:
// the "--" delimiter, a "Sent from my ..." footer, or a bare sign-off
// matching a configured marker ("Best regards,", "Thanks,").
func (c *Compressor) isSignatureLine(line string) bool {
	trimmed := strings.ToLower(strings.TrimSpace(line))
	if trimmed == "--" || trimmed == "—" {
		return true
	}
	if strings.HasPrefix(trimmed, "sent from my") {
		return true
	}
	bare := strings.TrimRight(trimmed, ",.! ")
	for _, marker := range c.signatureMarkers {
		if bare == marker {
			return true
		}
	}
	return false
}

// isGreetingLine reports whether the line is a short salutation such as
// "Hi team," or "Dear Alice,".
func (c *Compressor) isGreetingLine(line string) bool {
	if len(line) > 40 {
		return false
	}
	lower := strings.ToLower(line)
	for _, marker := range c.greetingMarkers {
		if lower == marker || strings.HasPrefix(lower, marker+" ") || strings.HasPrefix(lower, marker+",") {
			rest := strings.TrimPrefix(lower, marker)
			// A greeting names someone and stops; sentences that carry
			// on ("hi, quick question about...") are content.
			if strings.ContainsAny(rest, ".?") {
				return false
			}
			return true
		}
	}
	return false
}

func hasContent(lines []string) bool {
	for _, ln := range lines {
		if strings.TrimSpace(ln) != "" {
			return true
		}
	}
	return false
}
