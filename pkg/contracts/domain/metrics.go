package domain

// Joint names produced by the default joint set.
const (
	JointKneeRight  = "knee_right"
	JointKneeLeft   = "knee_left"
	JointAnkleRight = "ankle_right"
	JointAnkleLeft  = "ankle_left"
	JointHeadNeck   = "head_neck"
)

// AngleSeries is a joint angle in degrees at each time step of a trial.
// NaN entries are undefined samples, not zero.
type AngleSeries struct {
	Joint   string    `json:"joint"`
	Degrees []float64 `json:"degrees"`
}

// JointSummary describes one joint's angle curve within a single trial.
// Only finite samples contribute.
type JointSummary struct {
	Joint         string  `json:"joint"`
	Min           float64 `json:"min"`
	Max           float64 `json:"max"`
	RangeOfMotion float64 `json:"range_of_motion"`
	Mean          float64 `json:"mean"`
	ValidSamples  int     `json:"valid_samples"`
}

// GaitMetrics is everything computed for one trial and handed to reporters.
type GaitMetrics struct {
	Trial        string         `json:"trial"`
	Time         []float64      `json:"time"`
	Angles       []AngleSeries  `json:"angles"`
	WalkingSpeed float64        `json:"walking_speed"`
	Summaries    []JointSummary `json:"summaries"`
}

// Angle returns the series for the named joint.
func (m *GaitMetrics) Angle(joint string) (AngleSeries, bool) {
	for _, a := range m.Angles {
		if a.Joint == joint {
			return a, true
		}
	}
	return AngleSeries{}, false
}
