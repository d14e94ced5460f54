// Package httputil holds the small pieces every JSON handler needs:
// bounded body reads, JSON responses, mapping of error codes to HTTP
// status, and request logging middleware that feeds the observability
// hooks.
package httputil
