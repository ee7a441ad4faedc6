package kinematics

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/spatial/r3"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

// DefaultEpsilon is the shortest side length treated as non-degenerate.
const DefaultEpsilon = 1e-8

// Distance3D returns the Euclidean distance between two points. NaN
// coordinates yield NaN.
func Distance3D(p1, p2 domain.Point) float64 {
	return r3.Norm(r3.Sub(p2, p1))
}

// LawOfCosinesAngle returns, in degrees, the triangle angle opposite side a,
// between sides b and c, using DefaultEpsilon.
func LawOfCosinesAngle(a, b, c float64) float64 {
	return LawOfCosinesAngleEps(a, b, c, DefaultEpsilon)
}

// LawOfCosinesAngleEps is LawOfCosinesAngle with an explicit degeneracy
// threshold. If b or c is shorter than epsilon the angle is 0.
func LawOfCosinesAngleEps(a, b, c, epsilon float64) float64 {
	if b < epsilon || c < epsilon {
		return 0.0
	}
	cosTheta := (b*b + c*c - a*a) / (2 * b * c)
	return degrees(math.Acos(clampCosine(cosTheta)))
}

// clampCosine limits x to [-1, 1]. NaN passes through.
func clampCosine(x float64) float64 {
	return math.Max(math.Min(x, 1.0), -1.0)
}

func degrees(rad float64) float64 {
	return rad * 180 / math.Pi
}

// AngleAtVertex returns the joint angle for the landmark triple p1, p2, p3.
// Sides are assigned by position: a=|p1p2| is the opposite side and
// b=|p2p3|, c=|p1p3| meet at the measured corner, which geometrically is p3.
// Every joint uses the same assignment, so left and right curves compare.
func AngleAtVertex(p1, p2, p3 domain.Point) float64 {
	a := Distance3D(p1, p2)
	b := Distance3D(p2, p3)
	c := Distance3D(p1, p3)
	return LawOfCosinesAngle(a, b, c)
}

// AngleSeries applies AngleAtVertex at every time step. The trajectories must
// have equal length.
func AngleSeries(t1, t2, t3 domain.Trajectory) ([]float64, error) {
	if len(t1) != len(t2) || len(t1) != len(t3) {
		return nil, apperrors.NewLayoutMismatch(
			fmt.Sprintf("trajectory lengths differ: %d, %d, %d", len(t1), len(t2), len(t3)))
	}
	out := make([]float64, len(t1))
	for i := range t1 {
		out[i] = AngleAtVertex(t1[i], t2[i], t3[i])
	}
	return out, nil
}

// WalkingSpeed is the straight-line distance between the first and last
// sample divided by elapsed. It is 0 when elapsed is 0 and NaN for an empty
// trajectory.
func WalkingSpeed(traj domain.Trajectory, elapsed float64) float64 {
	if len(traj) == 0 {
		return math.NaN()
	}
	if elapsed == 0 {
		return 0
	}
	return Distance3D(traj[0], traj[len(traj)-1]) / elapsed
}

// ElapsedTime returns the final timestamp of a trial's time vector, which is
// the trial duration for recordings that start at zero.
func ElapsedTime(time []float64) float64 {
	if len(time) == 0 {
		return 0
	}
	return time[len(time)-1]
}
