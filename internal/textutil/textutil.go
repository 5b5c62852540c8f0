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

// Package textutil provides the text heuristics shared by the classifier,
// the priority scorer and the thread compressor: sentence splitting, text
// normalization for dedup keys, stopword-filtered tokenization and deadline
// phrase extraction. Everything here is pattern matching, not NLP.
package textutil

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// sentenceEnd splits on sentence-terminating punctuation followed by space.
var sentenceEnd = regexp.MustCompile(`(?s)([^.!?]*[.!?]+)`)

// Sentences splits text into trimmed sentences, keeping the terminating
// punctuation. Trailing text without punctuation forms a final sentence.
func Sentences(text string) []string {
	var out []string
	consumed := 0
	for _, loc := range sentenceEnd.FindAllStringIndex(text, -1) {
		s := strings.TrimSpace(text[loc[0]:loc[1]])
		if s != "" {
			out = append(out, s)
		}
		consumed = loc[1]
	}
	if rest := strings.TrimSpace(text[consumed:]); rest != "" {
		out = append(out, rest)
	}
	return out
}

// FirstSentence returns the first non-empty sentence of text, or "".
func FirstSentence(text string) string {
	for _, s := range Sentences(text) {
		if s != "" {
			return s
		}
	}
	return ""
}

// Truncate shortens s to at most limit bytes, appending "..." when
// something was cut. The cut lands on a rune boundary so a multibyte
// character straddling the limit is dropped whole, never split.
func Truncate(s string, limit int) string {
	if limit <= 0 || len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return strings.TrimSpace(s[:cut]) + "..."
}

// NormalizeKey lowercases, strips punctuation and collapses whitespace so
// near-identical sentences across messages produce the same dedup key.
func NormalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	lastSpace := true
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastSpace = false
		case unicode.IsSpace(r):
			if !lastSpace {
				b.WriteRune(' ')
				lastSpace = true
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// stopwords excluded from lexical-overlap comparisons. Small on purpose;
// overlap detection is approximate either way.
var stopwords = map[string]bool{
	"a": true, "an": true, "and": true, "are": true, "as": true, "at": true,
	"be": true, "but": true, "by": true, "can": true, "do": true, "for": true,
	"from": true, "has": true, "have": true, "i": true, "if": true, "in": true,
	"is": true, "it": true, "of": true, "on": true, "or": true, "our": true,
	"so": true, "that": true, "the": true, "this": true, "to": true, "was": true,
	"we": true, "were": true, "what": true, "will": true, "with": true,
	"would": true, "you": true, "your": true,
}

// ContentTokens returns the lowercased non-stopword tokens of s.
func ContentTokens(s string) []string {
	var out []string
	for _, tok := range strings.Fields(NormalizeKey(s)) {
		if !stopwords[tok] {
			out = append(out, tok)
		}
	}
	return out
}

// OverlapRatio returns the fraction of a's content tokens also present in
// b's token set. Returns 0 when a has no content tokens.
func OverlapRatio(a []string, b map[string]bool) float64 {
	if len(a) == 0 {
		return 0
	}
	shared := 0
	for _, tok := range a {
		if b[tok] {
			shared++
		}
	}
	return float64(shared) / float64(len(a))
}

// TokenSet builds a membership set from tokens.
func TokenSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, t := range tokens {
		set[t] = true
	}
	return set
}

// CountTokens returns the whitespace-token count of text. This is a
// deliberate simplification; it is not a language-model tokenizer.
func CountTokens(text string) int {
	return len(strings.Fields(text))
}
