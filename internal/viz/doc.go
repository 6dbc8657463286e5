// Package viz draws N-body systems in the terminal and exports them as
// images.
//
//   - [Canvas]: Braille-based pixel canvas, 2x4 dots per cell
//   - [Camera]: rotating orthographic projection of 3D positions
//   - [Model]: Bubble Tea live view stepping a system in real time
//   - [TrajectorySVG]: SVG paths of sampled trajectories
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	+/-   - Double/halve steps per frame
//	R     - Reset to initial state
//	Arrows/HJKL - Rotate view
//	I/O   - Zoom in/out
//	C     - Toggle trails
//	T     - Cycle color themes
//	G     - Toggle GIF recording
//	?     - Show help overlay
//	Q     - Quit
package viz
