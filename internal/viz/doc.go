// Package viz renders RK4/AB4 comparisons.
//
// Two renderers share the [Renderer] interface:
//
//   - [Terminal]: asciigraph line chart with a lipgloss summary header
//   - [PNG]: gonum/plot image written to a file
//
// Both also satisfy sim.Renderer through RenderComparison, so they can be
// handed straight to the driver:
//
//	term := viz.NewTerminal(os.Stdout, 70, 15)
//	driver := sim.New(sim.WithRenderers(term))
package viz
