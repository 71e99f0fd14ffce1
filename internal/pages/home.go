package pages

import (
	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

// Home is the overview shown when the panel opens.
type Home struct {
	res      host.Resource
	title    string
	messages []string
}

// NewHome builds the home page.
func NewHome(_ host.Env, r Resources) (*Home, error) {
	return &Home{
		res:   r.Resource(model.PageHome),
		title: r.Message("quickstart.top.panel.title"),
		messages: []string{
			r.Message("quickstart.top.panel.message1"),
			r.Message("quickstart.top.panel.message2"),
		},
	}, nil
}

func (h *Home) ID() model.PageID        { return model.PageHome }
func (h *Home) Resource() host.Resource { return h.res }
func (h *Home) Title() string           { return h.title }

// Messages returns the introductory paragraphs.
func (h *Home) Messages() []string {
	return append([]string(nil), h.messages...)
}
