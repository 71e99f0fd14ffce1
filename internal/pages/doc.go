// Package pages contains the concrete quick start pages.
//
// Each constructor takes the host.Env snapshot so a page built late starts
// from the current spider set and the latest options.
package pages
