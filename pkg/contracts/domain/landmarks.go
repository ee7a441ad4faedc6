package domain

import "gonum.org/v1/gonum/spatial/r3"

// Landmark names of the standard marker protocol.
const (
	RightHip   = "right_hip"
	RightKnee  = "right_knee"
	RightAnkle = "right_ankle"
	LeftHip    = "left_hip"
	LeftKnee   = "left_knee"
	LeftAnkle  = "left_ankle"
	RightFoot  = "right_foot"
	LeftFoot   = "left_foot"
	Head       = "head"
	Neck       = "neck"
	Torso      = "torso"
)

// Point is a 3D marker position.
type Point = r3.Vec

// Trajectory is a landmark's position at each time step of a trial.
type Trajectory []Point

// MarkerGroup maps an anatomical landmark to its X, Y and Z channel labels.
type MarkerGroup struct {
	Name     string
	Channels [3]string
}
