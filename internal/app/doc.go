// Package app provides the application service layer.
//
// Orchestrates the user-views use cases: applying settings change-sets,
// upload management, and game-account link tokens. Sits between HTTP
// handlers and domain repositories. Depends on domain interfaces, not
// concrete implementations.
package app
