package host

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/agnivade/levenshtein"
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/model"
)

// maxSuggestDistance bounds how far a typo may be from a known id before we
// stop offering it as a suggestion.
const maxSuggestDistance = 3

// Registry builds each page on first reference and caches it for the life of
// the process.
type Registry struct {
	env       Env
	factories map[model.PageID]Factory
	order     []model.PageID
	pages     map[model.PageID]Page
	log       logrus.FieldLogger
}

// NewRegistry creates an empty registry. env is handed to every factory.
func NewRegistry(env Env, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		env:       env,
		factories: make(map[model.PageID]Factory),
		pages:     make(map[model.PageID]Page),
		log:       log.WithField("component", "registry"),
	}
}

// Register declares id as a known page. Registering an id twice or with a
// nil factory is a programming error.
func (r *Registry) Register(id model.PageID, f Factory) {
	if id == "" {
		panic("host: page id must not be empty")
	}
	if f == nil {
		panic(fmt.Sprintf("host: page %q registered with nil factory", id))
	}
	if _, exists := r.factories[id]; exists {
		panic(fmt.Sprintf("host: page %q registered twice", id))
	}
	r.factories[id] = f
	r.order = append(r.order, id)
}

// Known reports whether id was registered.
func (r *Registry) Known(id model.PageID) bool {
	_, ok := r.factories[id]
	return ok
}

// IDs returns the registered ids in registration order.
func (r *Registry) IDs() []model.PageID {
	return append([]model.PageID(nil), r.order...)
}

// GetOrCreate returns the page for id, building it on first use.
func (r *Registry) GetOrCreate(id model.PageID) (Page, error) {
	if p, ok := r.pages[id]; ok {
		return p, nil
	}
	f, ok := r.factories[id]
	if !ok {
		return nil, r.unknown(id)
	}

	p, err := r.construct(id, f)
	if err != nil {
		r.log.WithError(err).WithField("page", id).Warn("page construction failed")
		return nil, err
	}
	r.pages[id] = p
	r.log.WithField("page", id).Debug("page constructed")
	return p, nil
}

// Lookup returns the page for id only if it has already been built.
func (r *Registry) Lookup(id model.PageID) (Page, bool) {
	p, ok := r.pages[id]
	return p, ok
}

// Constructed returns the built pages in registration order.
func (r *Registry) Constructed() []Page {
	out := make([]Page, 0, len(r.pages))
	for _, id := range r.order {
		if p, ok := r.pages[id]; ok {
			out = append(out, p)
		}
	}
	return out
}

// Suggest returns the registered id closest to id, if any is close enough.
func (r *Registry) Suggest(id model.PageID) (model.PageID, bool) {
	best := model.PageID("")
	bestDist := maxSuggestDistance + 1
	for _, known := range r.order {
		d := levenshtein.ComputeDistance(string(id), string(known))
		if d < bestDist {
			best, bestDist = known, d
		}
	}
	return best, best != ""
}

func (r *Registry) unknown(id model.PageID) error {
	if s, ok := r.Suggest(id); ok {
		return fmt.Errorf("%w %q (did you mean %q?)", ErrUnknownPage, id, s)
	}
	return fmt.Errorf("%w %q", ErrUnknownPage, id)
}

func (r *Registry) construct(id model.PageID, f Factory) (p Page, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			p = nil
			err = &ConstructionError{Page: id, Err: fmt.Errorf("panic: %v", rec)}
		}
	}()

	p, err = f(r.env)
	if err != nil {
		return nil, &ConstructionError{Page: id, Err: err}
	}
	if p == nil {
		return nil, &ConstructionError{Page: id, Err: errors.New("factory returned no page")}
	}
	if !reflect.TypeOf(p).Comparable() {
		return nil, &ConstructionError{Page: id, Err: fmt.Errorf("%T: %w", p, ErrIncomparablePage)}
	}
	return p, nil
}
