// Package metrics records signing outcomes. Noop discards everything, Prom
// exports Prometheus counters and histograms.
package metrics
