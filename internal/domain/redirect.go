package domain

import "fmt"

// RedirectIntent describes a navigation the caller should perform. It is
// consumed once by whatever layer owns the response and then discarded.
//
// Replace marks the redirect as history-replacing: the failed destination
// must not remain reachable through back-navigation. Resume, when set,
// carries the originally requested URL so the flow can continue there after
// remediation (e.g. post-login).
type RedirectIntent struct {
	To      string
	Replace bool
	Resume  string
}

// RedirectError is a navigation redirect travelling as an error value.
// Checks that encounter one must propagate it unchanged rather than
// reclassify it as a data error.
type RedirectError struct {
	Intent RedirectIntent
	Cause  error
}

func (e *RedirectError) Error() string {
	return fmt.Sprintf("redirect to %s", e.Intent.To)
}

func (e *RedirectError) Unwrap() error { return e.Cause }
