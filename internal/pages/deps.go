package pages

import (
	"sort"

	"github.com/tinytelemetry/quickstart/internal/host"
	"github.com/tinytelemetry/quickstart/internal/model"
)

// Messages looks up localized text.
type Messages interface {
	Message(key string) string
}

// Resources is the display collaborator every page needs.
type Resources interface {
	host.ResourceProvider
	Messages
}

// URLHistory stores target URLs used on the attack page.
type URLHistory interface {
	Record(url string) error
	Recent(limit int) ([]string, error)
}

// spiderSet is the identity-keyed spider collection shared by pages that
// track pluggable spiders.
type spiderSet map[string]model.Spider

func newSpiderSet(initial []model.Spider) spiderSet {
	s := make(spiderSet, len(initial))
	for _, sp := range initial {
		s[sp.ID()] = sp
	}
	return s
}

func (s spiderSet) add(sp model.Spider)    { s[sp.ID()] = sp }
func (s spiderSet) remove(sp model.Spider) { delete(s, sp.ID()) }

// infos returns the set sorted by id.
func (s spiderSet) infos() []model.SpiderInfo {
	out := make([]model.SpiderInfo, 0, len(s))
	for _, sp := range s {
		out = append(out, model.InfoOf(sp))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SpiderID < out[j].SpiderID })
	return out
}
