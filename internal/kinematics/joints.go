package kinematics

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

// Joint names the three landmarks whose angle at Vertex is measured.
type Joint struct {
	Name     string
	Proximal string
	Vertex   string
	Distal   string
}

// SpeedReference is the landmark whose displacement defines walking speed.
const SpeedReference = domain.Torso

// DefaultJoints returns the five gait joints in reporting order. Left and
// right sides use the same geometry.
func DefaultJoints() []Joint {
	return []Joint{
		{Name: domain.JointKneeRight, Proximal: domain.RightHip, Vertex: domain.RightKnee, Distal: domain.RightAnkle},
		{Name: domain.JointKneeLeft, Proximal: domain.LeftHip, Vertex: domain.LeftKnee, Distal: domain.LeftAnkle},
		{Name: domain.JointAnkleRight, Proximal: domain.RightKnee, Vertex: domain.RightAnkle, Distal: domain.RightFoot},
		{Name: domain.JointAnkleLeft, Proximal: domain.LeftKnee, Vertex: domain.LeftAnkle, Distal: domain.LeftFoot},
		{Name: domain.JointHeadNeck, Proximal: domain.Head, Vertex: domain.Neck, Distal: domain.Torso},
	}
}

// ComputeJoint builds the angle series for joint from extracted trajectories.
func ComputeJoint(trajectories map[string]domain.Trajectory, joint Joint) (domain.AngleSeries, error) {
	var pts [3]domain.Trajectory
	for i, name := range []string{joint.Proximal, joint.Vertex, joint.Distal} {
		traj, ok := trajectories[name]
		if !ok {
			return domain.AngleSeries{}, apperrors.NewUnresolvedMarkerGroup(name, nil).
				WithContext("joint", joint.Name)
		}
		pts[i] = traj
	}

	values, err := AngleSeries(pts[0], pts[1], pts[2])
	if err != nil {
		return domain.AngleSeries{}, err
	}
	return domain.AngleSeries{Joint: joint.Name, Degrees: values}, nil
}

// Summarize reports min, max, range and mean over the finite samples of a
// series. With no finite samples every statistic is NaN.
func Summarize(series domain.AngleSeries) domain.JointSummary {
	finite := make([]float64, 0, len(series.Degrees))
	for _, v := range series.Degrees {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}

	summary := domain.JointSummary{
		Joint:        series.Joint,
		ValidSamples: len(finite),
	}
	if len(finite) == 0 {
		nan := math.NaN()
		summary.Min, summary.Max, summary.RangeOfMotion, summary.Mean = nan, nan, nan, nan
		return summary
	}

	summary.Min = floats.Min(finite)
	summary.Max = floats.Max(finite)
	summary.RangeOfMotion = summary.Max - summary.Min
	summary.Mean = stat.Mean(finite, nil)
	return summary
}
