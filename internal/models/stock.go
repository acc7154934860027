package models

// StockSearchResult is one ticker/company match.
type StockSearchResult struct {
	Symbol   string `json:"symbol"`
	Name     string `json:"name"`
	Exchange string `json:"exchange,omitempty"`
	Type     string `json:"type,omitempty"`
}

// User is the account returned by the backend after a Google sign-in.
type User struct {
	ID      string `json:"id"`
	Email   string `json:"email"`
	Name    string `json:"name,omitempty"`
	Picture string `json:"picture,omitempty"`
}

// AuthSession is the backend's answer to a credential exchange.
type AuthSession struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
