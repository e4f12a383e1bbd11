// Package batch signs many bundles with one identity.
//
// Pipelines run concurrently up to a configured limit. The first failure
// stops bundles that have not started yet, while running ones finish.
package batch
