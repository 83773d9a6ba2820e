package keygen

import "net/http"

// Action is the tagged lifecycle operation applied to an existing license.
// A single parameterized call consumes it so the variants cannot drift apart.
type Action int

const (
	ActionSuspend Action = iota
	ActionReinstate
	ActionRevoke
)

func (a Action) String() string {
	switch a {
	case ActionSuspend:
		return "suspend"
	case ActionReinstate:
		return "reinstate"
	case ActionRevoke:
		return "revoke"
	default:
		return "unknown"
	}
}

// method returns the HTTP verb the action uses. Suspension and
// reinstatement are action posts; revocation deletes the license.
func (a Action) method() string {
	if a == ActionRevoke {
		return http.MethodDelete
	}

	return http.MethodPost
}

// path returns the request path relative to the account's licenses
// collection.
func (a Action) path(key string) string {
	if a == ActionRevoke {
		return "/licenses/" + key
	}

	return "/licenses/" + key + "/actions/" + a.String()
}
