// Package gym runs the high bar demo as an explicit state machine: a State
// value, an Input sampled per frame and a pure Update that returns the next
// State. Rendering hosts translate key and mouse events into Input and apply
// the resulting Pose to the scene.
package gym
