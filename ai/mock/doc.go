// Package mock provides deterministic test doubles for the ai interfaces.
//
// Each mock uses simple, fully deterministic default behavior and exposes
// function fields for injecting custom behavior per test, plus call counters
// for assertions.
package mock
