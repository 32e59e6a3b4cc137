// Package response turns the free-form text returned by a reasoning provider
// into typed sections.
package response

import (
	"sort"
	"strings"

	"github.com/doeshing/shellsage/internal/domain"
)

const (
	thinkOpen  = "<think>"
	thinkClose = "</think>"
)

type section int

const (
	sectionCause section = iota
	sectionFix
	sectionExplanation
	sectionRisk
	sectionPrevention
)

type label struct {
	section  section
	variants []string
}

// labels lists every accepted spelling; the emoji variation selector is optional.
var labels = []label{
	{sectionCause, []string{"🔍 Root Cause:"}},
	{sectionFix, []string{"🛠️ Fix:", "🛠 Fix:"}},
	{sectionExplanation, []string{"📚 Technical Explanation:"}},
	{sectionRisk, []string{"⚠️ Potential Risks:", "⚠ Potential Risks:"}},
	{sectionPrevention, []string{"🔒 Prevention Tip:"}},
}

type hit struct {
	section section
	start   int
	end     int
}

// Parse extracts thoughts and labeled sections from raw. It never fails:
// sections whose label is absent are nil.
func Parse(raw string) domain.ParsedResponse {
	thoughts, rest := extractThoughts(raw)
	parsed := domain.ParsedResponse{Thoughts: thoughts}

	hits := findLabels(rest)
	for i, h := range hits {
		end := len(rest)
		if i+1 < len(hits) {
			end = hits[i+1].start
		}
		content := strings.TrimSpace(rest[h.end:end])
		switch h.section {
		case sectionCause:
			parsed.Cause = &content
		case sectionFix:
			fix := extractFix(content)
			parsed.Fix = &fix
		case sectionExplanation:
			parsed.Explanation = &content
		case sectionRisk:
			parsed.Risk = &content
		case sectionPrevention:
			parsed.Prevention = &content
		}
	}
	return parsed
}

// extractThoughts removes every complete <think>...</think> pair and returns
// the trimmed inner texts in order together with the text outside the pairs.
func extractThoughts(raw string) ([]string, string) {
	thoughts := []string{}
	var rest strings.Builder
	remaining := raw
	for {
		open := strings.Index(remaining, thinkOpen)
		if open < 0 {
			break
		}
		afterOpen := open + len(thinkOpen)
		closeRel := strings.Index(remaining[afterOpen:], thinkClose)
		if closeRel < 0 {
			break
		}
		closeAt := afterOpen + closeRel
		rest.WriteString(remaining[:open])
		thoughts = append(thoughts, strings.TrimSpace(remaining[afterOpen:closeAt]))
		remaining = remaining[closeAt+len(thinkClose):]
	}
	rest.WriteString(remaining)
	return thoughts, rest.String()
}

// findLabels locates the first occurrence of each label, sorted by offset.
func findLabels(text string) []hit {
	var hits []hit
	for _, l := range labels {
		best := hit{section: l.section, start: -1}
		for _, variant := range l.variants {
			idx := strings.Index(text, variant)
			if idx < 0 {
				continue
			}
			if best.start < 0 || idx < best.start {
				best.start, best.end = idx, idx+len(variant)
			}
		}
		if best.start >= 0 {
			hits = append(hits, best)
		}
	}
	sort.Slice(hits, func(i, j int) bool { return hits[i].start < hits[j].start })
	return hits
}

// extractFix unwraps a code span or fenced block, otherwise keeps the first line.
func extractFix(content string) string {
	ticks := 0
	for ticks < len(content) && ticks < 3 && content[ticks] == '`' {
		ticks++
	}
	if ticks == 0 {
		line, _, _ := strings.Cut(content, "\n")
		return strings.TrimSpace(line)
	}
	fence := strings.Repeat("`", ticks)
	body := content[ticks:]
	if closeAt := strings.Index(body, fence); closeAt >= 0 {
		body = body[:closeAt]
	}
	if ticks == 3 {
		body = stripLanguageTag(body)
	}
	return strings.TrimSpace(body)
}

var shellInfoStrings = map[string]bool{
	"bash": true, "sh": true, "zsh": true, "shell": true, "console": true,
}

// stripLanguageTag drops a shell info string such as "bash" that sits alone
// on the fence line. Any other first line is part of the command.
func stripLanguageTag(body string) string {
	first, after, found := strings.Cut(body, "\n")
	if !found {
		return body
	}
	tag := strings.ToLower(strings.TrimSpace(first))
	if tag == "" || shellInfoStrings[tag] {
		return after
	}
	return body
}
