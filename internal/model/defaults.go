package model

import "time"

// Shared defaults used by both the host and control binaries.
const (
	DefaultRefreshInterval = time.Second
	DefaultMaxHistory      = 10
	DefaultProxyHost       = "127.0.0.1"
	DefaultProxyPort       = 8080
	DefaultTargetURL       = "http://"
)

// DefaultOptions returns the configuration pages see before any options have
// been loaded.
func DefaultOptions() Options {
	return Options{
		QuickStart: QuickStartOptions{
			DefaultURL: DefaultTargetURL,
			MaxHistory: DefaultMaxHistory,
			LearnMoreLinks: []Link{
				{Title: "Getting Started Guide", URL: "https://www.zaproxy.org/getting-started/"},
				{Title: "User Guide", URL: "https://www.zaproxy.org/docs/desktop/"},
				{Title: "Videos", URL: "https://www.zaproxy.org/videos/"},
			},
		},
		Proxy: ProxyOptions{
			Host: DefaultProxyHost,
			Port: DefaultProxyPort,
		},
	}
}
