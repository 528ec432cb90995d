// Package identity resolves which end user a request belongs to.
//
// Three client protocols reach this backend and each carries identity
// differently: an instruction block embedded in a system message, a structured
// state object, or nothing but free text. Each shape gets its own pure
// extraction strategy producing the same Identity value, composed under a
// fixed precedence order. Extraction is best-effort context propagation, not
// a trust boundary.
package identity

// Identity is the resolved user for a turn. Produced fresh per extraction
// attempt; fields are optional and empty means unknown.
type Identity struct {
	UserID string `json:"user_id,omitempty"`
	Name   string `json:"name,omitempty"`
	Email  string `json:"email,omitempty"`
}

// IsZero reports whether no field was resolved.
func (id Identity) IsZero() bool {
	return id.UserID == "" && id.Name == "" && id.Email == ""
}

// HasUserID reports whether a user id was resolved.
func (id Identity) HasUserID() bool {
	return id.UserID != ""
}

// Sources carries the raw material each strategy works on for one request.
type Sources struct {
	// StateUser is the structured state object's user field, already decoded.
	StateUser Identity

	// Instructions is the concatenated system-message text that may carry a
	// line-anchored "User ID:" block.
	Instructions string

	// SystemText is the relay system prompt that may carry a delimited
	// "name|vendor_sessionid" token.
	SystemText string

	// UserUtterances are the user-authored turn contents in conversation
	// order, scanned for self-introductions only when nothing better fired.
	UserUtterances []string
}

// Resolve composes the extraction strategies under the fixed precedence
// structured state > instruction block > delimited token > utterance scan.
// UserID and Name follow the precedence independently: a lower-precedence
// strategy never overwrites a field a higher one already filled, but it may
// fill a field the higher ones left empty.
func Resolve(src Sources) Identity {
	result := src.StateUser

	result = fillFrom(result, FromInstructions(src.Instructions))
	result = fillFrom(result, FromSessionToken(src.SystemText))

	// The utterance scan is a last resort for the name only.
	if result.Name == "" {
		if name := FromUtterances(src.UserUtterances); name != "" {
			result.Name = name
		}
	}

	return result
}

// fillFrom copies fields from lower into high only where high is empty.
func fillFrom(high, low Identity) Identity {
	if high.UserID == "" {
		high.UserID = low.UserID
	}
	if high.Name == "" {
		high.Name = low.Name
	}
	if high.Email == "" {
		high.Email = low.Email
	}
	return high
}
