/*
Package domain contains the core types of the activity viewport.

It defines the graph snapshot (nodes, edges, container bounding boxes), the
closed set of input events the interaction controller consumes, the
selection payload handed to info panels, and the lifecycle events emitted for
observability. The package is kept pure: no I/O, no rendering, no transport.

# Key Entities

  - Node: a positioned activity element, either a leaf or a container with a BBox.
  - Edge: a directed link between two node IDs of the same snapshot.
  - Graph: a complete snapshot as delivered by a graph source.
  - InputEvent: PointerDown, PointerMove, PointerUp, PointerLeave, Wheel, Resize.
  - Selection: what the info panel shows for the selected node.
  - ActionInfo: an entry of the action catalog of a source text.
*/
package domain
