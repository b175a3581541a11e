package domain

const guestOwnerPrefix = "guest:"

// Session identifies the shopper behind a request. UserID is empty for anonymous visitors.
type Session struct {
	UserID  string
	// Email is the signed-in user's address when the auth proxy provides one. Receipts go there.
	Email   string
	GuestID string
}

func (s Session) Authenticated() bool {
	return s.UserID != ""
}

// OwnerID is the key carts are stored under for this session.
func (s Session) OwnerID() string {
	if s.Authenticated() {
		return s.UserID
	}
	return s.GuestOwnerID()
}

func (s Session) GuestOwnerID() string {
	if s.GuestID == "" {
		return ""
	}
	return guestOwnerPrefix + s.GuestID
}
