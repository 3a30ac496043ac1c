package domain

// Credentials is the payload for the login endpoint.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the login endpoint's success body.
type LoginResponse struct {
	Token string `json:"token"`
}
