package config

import "os"

const defaultAPIURL = "http://localhost:8080"

// APIURL returns the base URL for the User API.
// It can be overridden with the USER_API_URL environment variable.
func APIURL() string {
	if v := os.Getenv("USER_API_URL"); v != "" {
		return v
	}
	return defaultAPIURL
}

// Token returns the bearer token sent on mutating requests, from USER_API_TOKEN.
// The API only checks presence, so any non-empty value works against a dev server.
func Token() string {
	return os.Getenv("USER_API_TOKEN")
}
