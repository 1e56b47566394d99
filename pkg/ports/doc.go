/*
Package ports defines the driven ports (interfaces) of the actvis engine.

These interfaces decouple the viewport core from the graph service, the
drawing surface and the caching layer, so the same engine can run in a
browser bridge, a PNG renderer or a test.

# Key Interfaces

  - Canvas: the drawing surface the renderer paints onto.
  - GraphSource: converts program text into a positioned graph.
  - ActionCatalog: lists the actions defined by a program text.
  - GraphCache: stores graph responses keyed by request digest.
  - Watchable: notifies when a graph snapshot on disk changes.
*/
package ports
