package model

// PageID identifies one mutually exclusive page of the quick start host.
type PageID string

const (
	PageHome      PageID = "home"
	PageAttack    PageID = "attack"
	PageExplore   PageID = "explore"
	PageLearnMore PageID = "learn-more"
)

// PageStatus is the transport view of a page: its display resources and
// where it sits in the lifecycle.
type PageStatus struct {
	ID          PageID `json:"id"`
	Label       string `json:"label"`
	Icon        string `json:"icon"`
	Tooltip     string `json:"tooltip"`
	Constructed bool   `json:"constructed"`
	Active      bool   `json:"active"`

	// Override is set on explore while an externally supplied page stands in
	// for the default one. Constructed still describes the default page.
	Override bool `json:"override,omitempty"`
}
