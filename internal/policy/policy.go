// Package policy is the single authorization decision point shared by the
// middleware gate, both protection decorators, and the standalone group
// check, guaranteeing identical semantics at every call site.
package policy

import "github.com/monocloud/auth-go/authcore"

// DefaultGroupsClaim is the claim consulted when no override is configured.
const DefaultGroupsClaim = "groups"

// Decision is the authorization verdict for a request.
type Decision int

const (
	// Allowed admits the request.
	Allowed Decision = iota
	// Unauthenticated rejects the request for lack of a session.
	Unauthenticated
	// Forbidden rejects an authenticated request that fails the group test.
	Forbidden
)

// Outcome carries the decision together with the resolved user claims.
// User is nil exactly when the decision is Unauthenticated.
type Outcome struct {
	Decision Decision
	User     authcore.Claims
}

// GroupOptions constrains a session to group membership. A nil Groups slice
// means no group restriction: any authenticated session passes. An empty,
// non-nil slice is a real constraint with vacuous-case semantics pinned by
// Evaluate.
type GroupOptions struct {
	Groups      []string
	GroupsClaim string
	MatchAll    bool
}

// Evaluate applies the authorization policy:
//
//   - no session: Unauthenticated, regardless of group options
//   - session, nil Groups: Allowed
//   - session, Groups given: membership of the claim named by GroupsClaim
//     (default "groups") decides. MatchAll requires every requested group;
//     otherwise one suffices. An empty requested list is vacuously true
//     under MatchAll and vacuously false under match-any.
func Evaluate(session *authcore.Session, opts GroupOptions) Outcome {
	if session == nil {
		return Outcome{Decision: Unauthenticated}
	}

	if opts.Groups == nil {
		return Outcome{Decision: Allowed, User: session.User}
	}

	if UserInGroups(session.User, opts.Groups, opts.GroupsClaim, opts.MatchAll) {
		return Outcome{Decision: Allowed, User: session.User}
	}

	return Outcome{Decision: Forbidden, User: session.User}
}

// UserInGroups tests the user's group claim against the requested groups.
// Each claim entry is either a bare group string or a descriptor object
// whose id and name are both eligible to match.
func UserInGroups(user authcore.Claims, groups []string, groupsClaim string, matchAll bool) bool {
	if groupsClaim == "" {
		groupsClaim = DefaultGroupsClaim
	}

	descriptors := claimGroups(user, groupsClaim)

	if matchAll {
		for _, g := range groups {
			if !matches(descriptors, g) {
				return false
			}
		}

		return true
	}

	for _, g := range groups {
		if matches(descriptors, g) {
			return true
		}
	}

	return false
}

// groupDescriptor is one entry of a group claim.
type groupDescriptor struct {
	id   string
	name string
}

func matches(descriptors []groupDescriptor, group string) bool {
	for _, d := range descriptors {
		if d.id == group || d.name == group {
			return true
		}
	}

	return false
}

func claimGroups(user authcore.Claims, groupsClaim string) []groupDescriptor {
	if user == nil {
		return nil
	}

	var entries []any
	switch v := user[groupsClaim].(type) {
	case []any:
		entries = v
	case []string:
		for _, s := range v {
			entries = append(entries, s)
		}
	default:
		return nil
	}

	descriptors := make([]groupDescriptor, 0, len(entries))
	for _, entry := range entries {
		switch e := entry.(type) {
		case string:
			descriptors = append(descriptors, groupDescriptor{id: e, name: e})
		case map[string]any:
			d := groupDescriptor{}
			if id, ok := e["id"].(string); ok {
				d.id = id
			}
			if name, ok := e["name"].(string); ok {
				d.name = name
			}
			if d.id != "" || d.name != "" {
				descriptors = append(descriptors, d)
			}
		}
	}

	return descriptors
}
