package domain

import "time"

// AuthSession is the persisted login: the bearer token and the user it was
// issued for.
type AuthSession struct {
	Token   string
	User    User
	SavedAt time.Time
}

// GridScope remembers the store and department last opened by a user.
type GridScope struct {
	UserDocument string
	Store        Store
	Department   Department
	// Month is "YYYY-MM" or empty.
	Month     string
	UpdatedAt time.Time
}
