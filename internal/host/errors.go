package host

import (
	"errors"
	"fmt"

	"github.com/tinytelemetry/quickstart/internal/model"
)

var (
	// ErrUnknownPage is returned when an id was never registered.
	ErrUnknownPage = errors.New("unknown page")
	// ErrUnknownTrigger is returned when a trigger name is not bound to a page.
	ErrUnknownTrigger = errors.New("unknown trigger")
	// ErrConstructionFailure matches every ConstructionError.
	ErrConstructionFailure = errors.New("page construction failed")
	// ErrIncomparablePage is returned for pages whose dynamic type cannot be
	// compared with ==. The host tracks pages by identity, so pages should be
	// pointers.
	ErrIncomparablePage = errors.New("page type is not comparable")
)

// ConstructionError reports a page whose factory failed. The page stays
// unconstructed and a later activation retries.
type ConstructionError struct {
	Page model.PageID
	Err  error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct page %q: %v", e.Page, e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

func (e *ConstructionError) Is(target error) bool {
	return target == ErrConstructionFailure
}
