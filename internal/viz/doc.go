// Package viz renders runs in the terminal.
//
//   - [PlotSeries]: ASCII line chart of one trace
//   - [RenderRun]: velocity and displacement charts with the run metrics
//   - [Tuner]: Bubble Tea parameter tuner that re-runs on every change
//
// # Key Bindings
//
//	↑/↓ or k/j - Select parameter
//	←/→ or h/l - Decrease/increase by one step
//	r          - Re-run with the current parameters
//	q          - Quit
package viz
