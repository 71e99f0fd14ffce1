package pages

import (
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

var (
	// ErrInvalidTarget is returned for URLs that cannot be attacked.
	ErrInvalidTarget = errors.New("invalid target url")
	// ErrModeForbidsAttack is returned when the current mode disallows attacks.
	ErrModeForbidsAttack = errors.New("mode does not allow attacks")
)

// Attack is the primary action page: pick a URL and crawl it with the
// registered spiders.
type Attack struct {
	res     host.Resource
	spiders spiderSet
	opts    model.QuickStartOptions
	mode    model.Mode
	history URLHistory
	recent  []string
	target  string
}

// NewAttack builds the attack page. history may be nil, in which case
// targets are only kept in memory.
func NewAttack(env host.Env, r Resources, history URLHistory, mode model.Mode) (*Attack, error) {
	if !mode.Valid() {
		mode = model.ModeStandard
	}
	a := &Attack{
		res:     r.Resource(model.PageAttack),
		spiders: newSpiderSet(env.Spiders()),
		opts:    env.Options().QuickStart,
		mode:    mode,
		history: history,
	}
	if history != nil {
		recent, err := history.Recent(a.maxHistory())
		if err != nil {
			return nil, fmt.Errorf("loading target history: %w", err)
		}
		a.recent = recent
	}
	return a, nil
}

func (a *Attack) ID() model.PageID        { return model.PageAttack }
func (a *Attack) Resource() host.Resource { return a.res }

func (a *Attack) AddSpider(s model.Spider)    { a.spiders.add(s) }
func (a *Attack) RemoveSpider(s model.Spider) { a.spiders.remove(s) }

func (a *Attack) OptionsChanged(o model.Options) {
	a.opts = o.QuickStart
	a.trimRecent()
}

// Spiders returns the spiders the attack will use, sorted by id.
func (a *Attack) Spiders() []model.SpiderInfo { return a.spiders.infos() }

// Options returns the quick start options in effect.
func (a *Attack) Options() model.QuickStartOptions { return a.opts }

// Mode returns the operating mode.
func (a *Attack) Mode() model.Mode { return a.mode }

// SetMode changes the operating mode. Unknown modes are ignored.
func (a *Attack) SetMode(m model.Mode) {
	if m.Valid() {
		a.mode = m
	}
}

// URLs is the URL model: the recent targets, newest first.
func (a *Attack) URLs() []string {
	return append([]string(nil), a.recent...)
}

// Target returns the last submitted target, or the configured default.
func (a *Attack) Target() string {
	if a.target != "" {
		return a.target
	}
	return a.opts.DefaultURL
}

// Submit validates raw and records it as the current target.
func (a *Attack) Submit(raw string) error {
	if !a.mode.AllowsAttack() {
		return fmt.Errorf("%w: %s", ErrModeForbidsAttack, a.mode)
	}
	target, err := normalizeTarget(raw)
	if err != nil {
		return err
	}
	if a.history != nil {
		if err := a.history.Record(target); err != nil {
			return fmt.Errorf("recording target: %w", err)
		}
	}
	a.target = target
	a.remember(target)
	return nil
}

func (a *Attack) remember(target string) {
	out := make([]string, 0, len(a.recent)+1)
	out = append(out, target)
	for _, u := range a.recent {
		if u != target {
			out = append(out, u)
		}
	}
	a.recent = out
	a.trimRecent()
}

func (a *Attack) trimRecent() {
	if limit := a.maxHistory(); len(a.recent) > limit {
		a.recent = a.recent[:limit]
	}
}

func (a *Attack) maxHistory() int {
	if a.opts.MaxHistory > 0 {
		return a.opts.MaxHistory
	}
	return model.DefaultMaxHistory
}

func normalizeTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrInvalidTarget, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("%w: scheme must be http or https", ErrInvalidTarget)
	}
	if u.Host == "" {
		return "", fmt.Errorf("%w: missing host", ErrInvalidTarget)
	}
	return u.String(), nil
}
