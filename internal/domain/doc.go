// Package domain defines the core domain types and interfaces.
//
// Concept-oriented files (user.go, upload.go, token.go, forum.go, errors.go)
// hold shared types and cross-cutting repository contracts. No implementation
// code - just contracts. Keeping interfaces here, on the consumer side,
// prevents circular imports between the service layer and the adapters.
package domain
