package models

// Member is a person taking part in a group's expenses.
type Member struct {
	// ID is the opaque identifier of the member, unique within a group.
	ID string `json:"id"`

	// Name is the display name of the member.
	Name string `json:"name"`

	// Email is optional contact information.
	Email string `json:"email,omitempty"`
}

// Group is a set of members sharing expenses.
// The group owns its member list; the creator is always a member.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string `json:"id"`

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string `json:"name"`

	// Members is the ordered member list. Order matters: equal splits and
	// settlement plans follow it.
	Members []Member `json:"members"`

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64 `json:"created_at"`

	// CreatedBy is the member ID of the group creator.
	CreatedBy string `json:"created_by"`
}

// HasMember reports whether id is a current member of the group.
func (g Group) HasMember(id string) bool {
	_, ok := g.Member(id)
	return ok
}

// Member returns the member with the given id.
func (g Group) Member(id string) (Member, bool) {
	for _, m := range g.Members {
		if m.ID == id {
			return m, true
		}
	}
	return Member{}, false
}

// WithoutMember returns a copy of the group with the given member removed.
// The receiver is left untouched.
func (g Group) WithoutMember(id string) Group {
	out := g
	out.Members = make([]Member, 0, len(g.Members))
	for _, m := range g.Members {
		if m.ID != id {
			out.Members = append(out.Members, m)
		}
	}
	return out
}

// MemberIDs returns the member IDs in group order.
func (g Group) MemberIDs() []string {
	ids := make([]string, len(g.Members))
	for i, m := range g.Members {
		ids[i] = m.ID
	}
	return ids
}
