package dataprocessing

import (
	"errors"
	"fmt"

	apperrors "gaitcli/internal/errors"
	"gaitcli/pkg/contracts/domain"
)

// defaultGroups is the landmark table of the lab's marker protocol. Labels
// are kept as they appear in the export (quoted, padded to nine characters);
// NewMarkerSet canonicalizes them.
var defaultGroups = []domain.MarkerGroup{
	{Name: domain.RightHip, Channels: [3]string{"'XRxAsis  '", "'YRxAsis  '", "'ZRxAsis  '"}},
	{Name: domain.RightKnee, Channels: [3]string{"'XRxLatCon'", "'YRxLatCon'", "'ZRxLatCon'"}},
	{Name: domain.RightAnkle, Channels: [3]string{"'XRxLatMal'", "'YRxLatMal'", "'ZRxLatMal'"}},
	{Name: domain.LeftHip, Channels: [3]string{"'XLxAsis  '", "'YLxAsis  '", "'ZLxAsis  '"}},
	{Name: domain.LeftKnee, Channels: [3]string{"'XLxLatCon'", "'YLxLatCon'", "'ZLxLatCon'"}},
	{Name: domain.LeftAnkle, Channels: [3]string{"'XLxLatMal'", "'YLxLatMal'", "'ZLxLatMal'"}},
	{Name: domain.RightFoot, Channels: [3]string{"'XRxToe1  '", "'YRxToe1  '", "'ZRxToe1  '"}},
	{Name: domain.LeftFoot, Channels: [3]string{"'XLxToe1  '", "'YLxToe1  '", "'ZLxToe1  '"}},
	{Name: domain.Head, Channels: [3]string{"'XRxCheec '", "'YRxCheec '", "'ZRxCheec '"}},
	{Name: domain.Neck, Channels: [3]string{"'XC7      '", "'YC7      '", "'ZC7      '"}},
	{Name: domain.Torso, Channels: [3]string{"'Xmaxkif  '", "'Ymaxkif  '", "'Zmaxkif  '"}},
}

// MarkerSet is an immutable, ordered table of landmark definitions.
type MarkerSet struct {
	groups []domain.MarkerGroup
	index  map[string]int
}

// NewMarkerSet validates and canonicalizes group definitions.
func NewMarkerSet(groups []domain.MarkerGroup) (*MarkerSet, error) {
	if len(groups) == 0 {
		return nil, apperrors.NewValidationError("marker set is empty", nil)
	}

	set := &MarkerSet{
		groups: make([]domain.MarkerGroup, 0, len(groups)),
		index:  make(map[string]int, len(groups)),
	}
	for _, g := range groups {
		if g.Name == "" {
			return nil, apperrors.NewValidationError("marker group without a name", nil)
		}
		if _, dup := set.index[g.Name]; dup {
			return nil, apperrors.NewValidationError(fmt.Sprintf("duplicate marker group %q", g.Name), nil)
		}
		var canon domain.MarkerGroup
		canon.Name = g.Name
		for i, ch := range g.Channels {
			label := CanonicalLabel(ch)
			if label == "" {
				return nil, apperrors.NewValidationError(
					fmt.Sprintf("marker group %q has an empty channel %d", g.Name, i), nil)
			}
			canon.Channels[i] = label
		}
		set.index[g.Name] = len(set.groups)
		set.groups = append(set.groups, canon)
	}
	return set, nil
}

// DefaultMarkerSet returns the standard eleven-landmark table.
func DefaultMarkerSet() *MarkerSet {
	set, err := NewMarkerSet(defaultGroups)
	if err != nil {
		panic(fmt.Sprintf("default marker set: %v", err))
	}
	return set
}

// Groups returns a copy of the definitions in order.
func (s *MarkerSet) Groups() []domain.MarkerGroup {
	out := make([]domain.MarkerGroup, len(s.groups))
	copy(out, s.groups)
	return out
}

// Group returns the definition of a landmark.
func (s *MarkerSet) Group(name string) (domain.MarkerGroup, bool) {
	idx, ok := s.index[name]
	if !ok {
		return domain.MarkerGroup{}, false
	}
	return s.groups[idx], true
}

// Len returns the number of landmarks.
func (s *MarkerSet) Len() int {
	return len(s.groups)
}

// Extractor assembles landmark trajectories from a trial's channels.
type Extractor struct {
	markers *MarkerSet
}

// NewExtractor creates an extractor over a marker set.
func NewExtractor(markers *MarkerSet) *Extractor {
	return &Extractor{markers: markers}
}

// Extract returns a trajectory per landmark. If any landmark is missing a
// channel the trial is rejected; the error joins one UnresolvedMarkerGroup per
// affected landmark.
func (e *Extractor) Extract(trial *domain.Trial) (map[string]domain.Trajectory, error) {
	out := make(map[string]domain.Trajectory, e.markers.Len())
	var errs []error
	for _, g := range e.markers.groups {
		traj, err := e.ExtractGroup(trial, g)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		out[g.Name] = traj
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return out, nil
}

// ExtractGroup zips the group's X, Y and Z columns row by row.
func (e *Extractor) ExtractGroup(trial *domain.Trial, group domain.MarkerGroup) (domain.Trajectory, error) {
	var cols [3]int
	var missing []string
	for i, label := range group.Channels {
		cols[i] = trial.ColumnIndex(label)
		if cols[i] < 0 {
			missing = append(missing, label)
		}
	}
	if len(missing) > 0 {
		return nil, apperrors.NewUnresolvedMarkerGroup(group.Name, missing).WithContext("trial", trial.Name)
	}

	traj := make(domain.Trajectory, trial.Len())
	for i := range traj {
		traj[i] = domain.Point{
			X: trial.Samples.At(i, cols[0]),
			Y: trial.Samples.At(i, cols[1]),
			Z: trial.Samples.At(i, cols[2]),
		}
	}
	return traj, nil
}
