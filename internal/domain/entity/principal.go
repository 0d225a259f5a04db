package entity

// Principal is the resolved caller identity for a request.
// The zero value is the anonymous caller.
type Principal struct {
	UserID string
}

// Anonymous reports whether the request carried no authenticated user.
func (p Principal) Anonymous() bool { return p.UserID == "" }

// Is reports whether the principal is the authenticated user with the given id.
func (p Principal) Is(userID string) bool { return p.UserID != "" && p.UserID == userID }
