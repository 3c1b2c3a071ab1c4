// Package mocks provides hand-written test doubles for the service and
// store interfaces. Each mock uses optional function fields for
// per-test behavior with sensible in-memory defaults.
package mocks
