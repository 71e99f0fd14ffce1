package model

// Navigator switches the visible page. Each switching call returns the
// selection it left behind.
type Navigator interface {
	Activate(id PageID) (PageID, error)
	ReturnHome() (PageID, error)
	Press(trigger string) (PageID, error)
	Active() PageID
	Pages() []PageStatus
}

// SpiderRegistry adds and removes pluggable spiders. Both calls report
// whether the registered set changed; neither fails on duplicates or misses.
type SpiderRegistry interface {
	AddPluggableSpider(s Spider) bool
	RemovePluggableSpider(s Spider) bool
	Spiders() []SpiderInfo
}

// OptionsSink accepts configuration changes.
type OptionsSink interface {
	OptionsChanged(opts Options) error
	Options() Options
}

// Controller is the unified control contract for remote surfaces (HTTP and
// socket RPC).
type Controller interface {
	Navigator
	SpiderRegistry
	OptionsSink
}
