// Package httpapi exposes the bookapi JSON API over net/http: account
// registration and login, the book catalog, cover upload URLs, health probes
// and Prometheus metrics.
package httpapi
