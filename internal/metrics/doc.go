// Package metrics records the outcome of a build in a private Prometheus
// registry and writes it as a node-exporter textfile. Builds are short
// batch runs, so nothing is served over HTTP.
package metrics
