// Package host keeps exactly one page of the quick start panel visible.
//
// Pages are built lazily by a Registry and never rebuilt. Spider
// registrations (Broker) and configuration changes (Propagator) reach the
// pages that already exist right away. A page built later picks up the
// accumulated state through Env when it is constructed.
//
// Nothing in this package is safe for concurrent use. Callers that share a
// Host between goroutines serialise access themselves.
package host
