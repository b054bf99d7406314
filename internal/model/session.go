package model

// Session is returned by a successful sign-in or refresh.
type Session struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         Identity `json:"user"`
	Profile      *Profile `json:"profile,omitempty"`
}
