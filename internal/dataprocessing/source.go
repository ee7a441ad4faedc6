package dataprocessing

import (
	"context"

	"gaitcli/pkg/contracts/domain"
)

// WorkbookSource loads normalized trials straight from a RawTableReader.
type WorkbookSource struct {
	reader     RawTableReader
	normalizer *Normalizer
}

// NewWorkbookSource combines a reader and a normalizer.
func NewWorkbookSource(reader RawTableReader, normalizer *Normalizer) *WorkbookSource {
	return &WorkbookSource{reader: reader, normalizer: normalizer}
}

// Trials lists the trials available in the underlying reader.
func (s *WorkbookSource) Trials(ctx context.Context) ([]string, error) {
	return s.reader.Trials(ctx)
}

// LoadTrial reads the trial's table once and normalizes it.
func (s *WorkbookSource) LoadTrial(ctx context.Context, name string) (*domain.Trial, error) {
	table, err := s.reader.ReadTable(ctx, name)
	if err != nil {
		return nil, err
	}
	return s.normalizer.Normalize(name, table)
}
