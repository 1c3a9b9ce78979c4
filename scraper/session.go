// Package scraper holds the plumbing shared by the source fetchers: page
// sessions, prioritized selector matching, the fetch error taxonomy and the
// result envelope that marks generated data.
package scraper

import (
	"context"
	"fmt"
)

// Renderer loads a page and returns its rendered HTML.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// Session is an open page-rendering handle. Close releases it.
type Session interface {
	Renderer
	Close() error
}

// Opener acquires a new Session.
type Opener func(ctx context.Context) (Session, error)

// WithSession opens a session, runs fn with it and always closes it. A panic
// inside fn is recovered and returned as an error.
func WithSession(ctx context.Context, open Opener, fn func(Renderer) error) (err error) {
	sess, err := open(ctx)
	if err != nil {
		return fmt.Errorf("open session: %w", err)
	}
	defer func() {
		if cerr := sess.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("close session: %w", cerr)
		}
	}()
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("session panic: %v", r)
		}
	}()

	return fn(sess)
}

// Result is what a fetcher hands back. Fallback is set when Items were
// generated rather than scraped; Reason says why.
type Result[T any] struct {
	Items    []T
	Source   string
	Fallback bool
	Reason   string
	Selector string
}

// Fallback reasons.
const (
	ReasonNoMatch     = "no_match"
	ReasonNoRecords   = "no_records"
	ReasonFetchFailed = "fetch_failed"
)
