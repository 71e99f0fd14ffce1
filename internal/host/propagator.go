package host

import (
	"github.com/sirupsen/logrus"

	"github.com/tinytelemetry/quickstart/internal/model"
)

// Propagator retains the last known configuration and forwards changes to
// pages that already exist.
type Propagator struct {
	last     model.Options
	loaded   bool
	audience Audience
	log      logrus.FieldLogger
}

// NewPropagator starts from model.DefaultOptions until options are loaded.
func NewPropagator(log logrus.FieldLogger) *Propagator {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Propagator{
		last: model.DefaultOptions(),
		log:  log.WithField("component", "propagator"),
	}
}

// Bind sets who receives forwarded changes.
func (p *Propagator) Bind(a Audience) {
	p.audience = a
}

// Loaded records the start-up configuration.
func (p *Propagator) Loaded(opts model.Options) {
	p.last = opts.Clone()
	p.loaded = true
	p.log.Info("options loaded")
	p.forward()
}

// Changed records a new configuration and delivers it to existing pages only.
func (p *Propagator) Changed(opts model.Options) {
	p.last = opts.Clone()
	p.log.Debug("options changed")
	p.forward()
}

// Snapshot returns the latest configuration and whether options were loaded.
func (p *Propagator) Snapshot() (model.Options, bool) {
	return p.last.Clone(), p.loaded
}

func (p *Propagator) forward() {
	if p.audience == nil {
		return
	}
	for _, page := range p.audience.Audience() {
		r, ok := page.(OptionsReceiver)
		if !ok {
			continue
		}
		opts := p.last.Clone()
		deliver(p.log, page, func() { r.OptionsChanged(opts) })
	}
}
