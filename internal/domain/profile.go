package domain

import "fmt"

// ProfileUser is the account embedded in a profile.
type ProfileUser struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// Profile is the authenticated account's profile.
type Profile struct {
	User     ProfileUser `json:"user"`
	Language string      `json:"language"`
	Timezone string      `json:"timezone"`
	APIKey   string      `json:"api_key,omitempty"`
}

func (p Profile) String() string {
	return fmt.Sprintf("%s <%s> (%s, %s)", p.User.Username, p.User.Email, p.Language, p.Timezone)
}
