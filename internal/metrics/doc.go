// Package metrics records build and preview-server metrics.
//
// Components receive a Recorder through their options and default to
// NoopRecorder, so recording never needs a nil check. The serve command
// injects a PrometheusRecorder and exposes it on /metrics via HTTPHandler:
//
//	reg := prom.NewRegistry()
//	rec := metrics.NewPrometheusRecorder(reg)
//	builder.WithRecorder(rec)
//	mux.Handle("/metrics", metrics.HTTPHandler(reg))
package metrics
