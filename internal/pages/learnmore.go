package pages

import (
	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

// LearnMore lists external documentation. Its links are fixed when it is
// built; it does not follow option changes.
type LearnMore struct {
	res   host.Resource
	links []model.Link
}

func NewLearnMore(env host.Env, r Resources) (*LearnMore, error) {
	return &LearnMore{
		res:   r.Resource(model.PageLearnMore),
		links: env.Options().QuickStart.LearnMoreLinks,
	}, nil
}

func (l *LearnMore) ID() model.PageID        { return model.PageLearnMore }
func (l *LearnMore) Resource() host.Resource { return l.res }

func (l *LearnMore) Links() []model.Link {
	return append([]model.Link(nil), l.links...)
}
