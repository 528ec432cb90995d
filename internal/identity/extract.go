package identity

import (
	"regexp"
	"strings"
)

// Instruction-block labels, line-anchored and case-insensitive. The value is
// the rest of the line, stripped.
var (
	instrUserIDRe = regexp.MustCompile(`(?i)User ID:[^\S\n]*([^\n]+)`)
	instrNameRe   = regexp.MustCompile(`(?i)User Name:[^\S\n]*([^\n]+)`)
	instrEmailRe  = regexp.MustCompile(`(?i)User Email:[^\S\n]*([^\n]+)`)
)

// FromInstructions extracts identity from an instruction-block text blob.
// Without the "User ID:" label the whole strategy yields nothing, even when
// name or email labels are present: a name with no id is useless for memory
// lookups and would shadow better strategies.
func FromInstructions(text string) Identity {
	if text == "" {
		return Identity{}
	}

	m := instrUserIDRe.FindStringSubmatch(text)
	if m == nil {
		return Identity{}
	}

	result := Identity{UserID: strings.TrimSpace(m[1])}
	if nm := instrNameRe.FindStringSubmatch(text); nm != nil {
		result.Name = strings.TrimSpace(nm[1])
	}
	if em := instrEmailRe.FindStringSubmatch(text); em != nil {
		result.Email = strings.TrimSpace(em[1])
	}
	return result
}

// SessionTokenPrefix tags the id half of the delimited session token the
// voice relay smuggles into its system prompt ("Dana|ret_1a2b3c").
const SessionTokenPrefix = "ret_"

var sessionTokenRe = regexp.MustCompile(`([A-Za-z][A-Za-z .'-]{0,62})\|(` + SessionTokenPrefix + `[A-Za-z0-9_-]+)`)

// FromSessionToken extracts a "name|vendor_sessionid" token from relay system
// prompt text. The id half must carry the vendor prefix; anything else is
// just text that happens to contain a pipe.
func FromSessionToken(systemText string) Identity {
	if systemText == "" {
		return Identity{}
	}
	m := sessionTokenRe.FindStringSubmatch(systemText)
	if m == nil {
		return Identity{}
	}
	return Identity{
		Name:   strings.TrimSpace(m[1]),
		UserID: m[2],
	}
}

// Self-introduction patterns the utterance scan recognises. Each captures a
// single following word. Kept as data, not branches: the set is heuristic and
// expected to be tuned.
var introPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bmy name is\s+([a-zA-Z]+)`),
	regexp.MustCompile(`(?i)\bi'm\s+([a-zA-Z]+)`),
	regexp.MustCompile(`(?i)\bi am\s+([a-zA-Z]+)`),
	regexp.MustCompile(`(?i)\bcall me\s+([a-zA-Z]+)`),
	regexp.MustCompile(`(?i)\bthis is\s+([a-zA-Z]+)`),
}

// introStoplist holds common words the patterns above false-match on
// ("I'm looking for...", "this is great"). Lowercase.
var introStoplist = map[string]bool{
	"a": true, "actually": true, "afraid": true, "also": true, "back": true,
	"calling": true, "curious": true, "done": true, "fine": true, "glad": true,
	"going": true, "good": true, "great": true, "happy": true, "here": true,
	"hoping": true, "interested": true, "just": true, "looking": true,
	"new": true, "not": true, "ok": true, "okay": true, "really": true,
	"sorry": true, "still": true, "sure": true, "the": true, "thinking": true,
	"trying": true, "wondering": true,
}

// FromUtterances scans user-authored turn contents in order and returns the
// first self-introduced name, title-cased. Returns "" when nothing plausible
// matches. Best-effort by design; false negatives are accepted.
func FromUtterances(utterances []string) string {
	for _, text := range utterances {
		for _, pat := range introPatterns {
			m := pat.FindStringSubmatch(text)
			if m == nil {
				continue
			}
			candidate := strings.ToLower(m[1])
			if introStoplist[candidate] {
				continue
			}
			return strings.ToUpper(candidate[:1]) + candidate[1:]
		}
	}
	return ""
}
