// Package usecase implements quote retrieval: failure classification, retry with
// backoff, batch fan-out and symbol search.
package usecase

import "errors"

var (
	// ErrServiceUnavailable is returned when the quote provider cannot serve a search request.
	ErrServiceUnavailable = errors.New("quote service unavailable")

	// ErrEmptyQuery is returned when a search query is blank.
	ErrEmptyQuery = errors.New("search query is empty")
)
