package cli

import "fmt"

type notFoundError struct {
	kind string
	id   string
}

func (e notFoundError) Error() string {
	return fmt.Sprintf("%s not found: %s", e.kind, e.id)
}

func errNotFound(kind, id string) error {
	return notFoundError{kind: kind, id: id}
}

type commitFailedError struct {
	kind string
	err  error
}

func (e commitFailedError) Error() string {
	return fmt.Sprintf("%s order was changed locally but the server did not confirm: %v", e.kind, e.err)
}

func (e commitFailedError) Unwrap() error { return e.err }

func errCommitFailed(kind string, err error) error {
	return commitFailedError{kind: kind, err: err}
}
