package pages

import (
	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

// Custom is an explore page supplied from outside, typically by an add-on
// that knows a better way to explore than the default page.
type Custom struct {
	title string
	url   string
}

func NewCustom(title, url string) *Custom {
	return &Custom{title: title, url: url}
}

func (c *Custom) ID() model.PageID { return model.PageExplore }

func (c *Custom) Resource() host.Resource {
	return host.Resource{Label: c.title, Icon: "🧩", Tooltip: c.url}
}

func (c *Custom) Title() string { return c.title }
func (c *Custom) URL() string   { return c.url }
