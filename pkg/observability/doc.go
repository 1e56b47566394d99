/*
Package observability provides tools for monitoring the actvis engine.

It turns engine lifecycle hooks into Prometheus metrics and structured log
lines, and chains several hook sets so both can run at once.
*/
package observability
