package host

import (
	"fmt"
	"sort"

	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/model"
)

// Broker holds the authoritative set of pluggable spiders and forwards
// changes to the pages that exist when they happen.
type Broker struct {
	spiders  map[string]model.Spider
	audience Audience
	log      logrus.FieldLogger
}

// NewBroker creates a broker with an empty spider set.
func NewBroker(log logrus.FieldLogger) *Broker {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Broker{
		spiders: make(map[string]model.Spider),
		log:     log.WithField("component", "broker"),
	}
}

// Bind sets who receives forwarded changes. Until bound, changes are only
// retained.
func (b *Broker) Bind(a Audience) {
	b.audience = a
}

// Register adds s and reports whether the set changed. A spider that is
// already registered is ignored.
func (b *Broker) Register(s model.Spider) bool {
	if s == nil {
		return false
	}
	id := s.ID()
	if _, exists := b.spiders[id]; exists {
		b.log.WithField("spider", id).Debug("spider already registered")
		return false
	}
	b.spiders[id] = s
	b.log.WithField("spider", id).Info("spider registered")

	b.forward(func(r SpiderReceiver) { r.AddSpider(s) })
	return true
}

// Unregister removes the spider with s's identity and reports whether the set
// changed. Removing an unknown spider is ignored.
func (b *Broker) Unregister(s model.Spider) bool {
	if s == nil {
		return false
	}
	id := s.ID()
	registered, exists := b.spiders[id]
	if !exists {
		b.log.WithField("spider", id).Debug("spider not registered")
		return false
	}
	delete(b.spiders, id)
	b.log.WithField("spider", id).Info("spider unregistered")

	b.forward(func(r SpiderReceiver) { r.RemoveSpider(registered) })
	return true
}

// Spiders returns the current set ordered by id.
func (b *Broker) Spiders() []model.Spider {
	out := make([]model.Spider, 0, len(b.spiders))
	for _, s := range b.spiders {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

func (b *Broker) forward(fn func(SpiderReceiver)) {
	if b.audience == nil {
		return
	}
	for _, p := range b.audience.Audience() {
		r, ok := p.(SpiderReceiver)
		if !ok {
			continue
		}
		deliver(b.log, p, func() { fn(r) })
	}
}

// deliver runs fn for one page. A page that panics while handling an event
// is logged and skipped so the remaining pages still get theirs.
func deliver(log logrus.FieldLogger, p Page, fn func()) {
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("page", p.ID()).WithError(fmt.Errorf("panic: %v", rec)).Error("page event handler failed")
		}
	}()
	fn()
}
