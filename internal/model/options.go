package model

import (
	"net"
	"strconv"
)

// Options is the configuration propagated to pages. It is loaded once at
// start-up and replaced wholesale on every change.
type Options struct {
	QuickStart QuickStartOptions `json:"quickstart" yaml:"quickstart" mapstructure:"quickstart"`
	Proxy      ProxyOptions      `json:"proxy" yaml:"proxy" mapstructure:"proxy"`
}

// QuickStartOptions are the settings owned by the quick start pages.
type QuickStartOptions struct {
	DefaultURL     string `json:"default_url" yaml:"default-url" mapstructure:"default-url"`
	MaxHistory     int    `json:"max_history" yaml:"max-history" mapstructure:"max-history"`
	AjaxSpider     bool   `json:"ajax_spider" yaml:"ajax-spider" mapstructure:"ajax-spider"`
	LearnMoreLinks []Link `json:"learn_more_links" yaml:"learn-more-links" mapstructure:"learn-more-links"`
}

// ProxyOptions describe the local proxy a manually driven browser should use.
type ProxyOptions struct {
	Host string `json:"host" yaml:"host" mapstructure:"host"`
	Port int    `json:"port" yaml:"port" mapstructure:"port"`
}

// Addr returns host:port.
func (p ProxyOptions) Addr() string {
	return net.JoinHostPort(p.Host, strconv.Itoa(p.Port))
}

// Link is a titled external reference.
type Link struct {
	Title string `json:"title" yaml:"title" mapstructure:"title"`
	URL   string `json:"url" yaml:"url" mapstructure:"url"`
}

// Mode is the application-wide operating mode handed to the attack page.
type Mode string

const (
	ModeSafe      Mode = "safe"
	ModeProtected Mode = "protected"
	ModeStandard  Mode = "standard"
	ModeAttack    Mode = "attack"
)

// Valid reports whether m is one of the known modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeSafe, ModeProtected, ModeStandard, ModeAttack:
		return true
	}
	return false
}

// AllowsAttack reports whether active scanning may start in this mode.
func (m Mode) AllowsAttack() bool {
	return m == ModeStandard || m == ModeAttack
}

// Clone returns a deep copy so receivers never share the links slice.
func (o Options) Clone() Options {
	out := o
	if o.QuickStart.LearnMoreLinks != nil {
		out.QuickStart.LearnMoreLinks = append([]Link(nil), o.QuickStart.LearnMoreLinks...)
	}
	return out
}
