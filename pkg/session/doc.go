/*
Package session keeps the set of live viewports served by a process.

Each view is an independent actvis.Engine with its own scene, transform and
interaction state. The Manager creates views through a factory so adapters
share one configuration, and expires views that stay idle for too long.
*/
package session
