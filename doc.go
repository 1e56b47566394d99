/*
Package actvis is an interactive viewport for hierarchical activity graphs.

It renders a directed node-link graph, positioned on a grid by an external
graph service, onto any 2D drawing surface, and turns raw pointer input into
panning, mouse-centred zooming, hovering and node selection. Compound nodes
(parallel, select, repeat, sequence, action) carry a bounding box enclosing
their descendants; hit-testing prefers leaves and then the innermost box.

# Concept

An Engine owns one scene, one view transform and one interaction state. The
host feeds it input events and asks it to draw; the Engine tells the host
what changed so it only redraws when needed. Drawing goes through the
ports.Canvas interface, so the same Engine backs a browser display list, a
PNG snapshot or a test recorder.

# Usage

	eng := actvis.New(
		actvis.WithCanvasSize(1024, 768),
		actvis.WithSource(httpadapter.NewClient("http://localhost:5000")),
		actvis.WithSelectionListener(func(s domain.Selection) {
			fmt.Println(s.Message())
		}),
	)

	if _, err := eng.LoadFromSource(ctx, programText, ""); err != nil {
		log.Fatal(err)
	}

	if res := eng.HandleInput(domain.PointerMove{X: 120, Y: 80}); res.Redraw {
		eng.Draw(canvas)
	}
*/
package actvis
