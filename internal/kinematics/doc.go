// Package kinematics derives gait quantities from landmark trajectories.
//
// Everything here is a pure function: distances between 3D points, triangle
// angles by the law of cosines, per-sample joint angle curves and a
// straight-line walking speed. Missing data arrives as NaN and leaves as NaN;
// nothing in this package treats it as zero.
//
// The angle computation clamps the cosine to [-1, 1] before inverting it, so
// rounding noise on nearly collinear points yields 0° or 180° rather than NaN.
// Sides shorter than DefaultEpsilon short-circuit to 0°.
//
// Usage:
//
//	series, err := kinematics.ComputeJoint(trajectories, kinematics.DefaultJoints()[0])
//	speed := kinematics.WalkingSpeed(trajectories[kinematics.SpeedReference],
//	    kinematics.ElapsedTime(trial.Time))
package kinematics
