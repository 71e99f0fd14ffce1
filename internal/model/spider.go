package model

// Spider is a pluggable crawler contributed at runtime. Two spiders with the
// same ID are the same spider.
type Spider interface {
	ID() string
	Name() string
}

// SpiderInfo is a plain Spider, used for spiders registered over the API and
// as the transport form of any spider.
type SpiderInfo struct {
	SpiderID   string `json:"id"`
	SpiderName string `json:"name"`
}

func (s SpiderInfo) ID() string { return s.SpiderID }

func (s SpiderInfo) Name() string {
	if s.SpiderName == "" {
		return s.SpiderID
	}
	return s.SpiderName
}

// InfoOf converts any spider into its transport form.
func InfoOf(s Spider) SpiderInfo {
	return SpiderInfo{SpiderID: s.ID(), SpiderName: s.Name()}
}
