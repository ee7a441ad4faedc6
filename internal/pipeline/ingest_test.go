package pipeline

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gaitcli/internal/dataset"
	apperrors "gaitcli/internal/errors"
)

func TestIngest_KeepsSourceOrder(t *testing.T) {
	source := newMemSource()
	source.add(walkTrial(t, "walk03"))
	source.fail("bad", apperrors.NewLayoutMismatch("no data rows"))
	source.add(walkTrial(t, "walk01"))
	source.add(torsoOnlyTrial(t, "walk02"))
	source.delay["walk03"] = 20 * time.Millisecond

	ds := dataset.New()
	summary, err := NewIngester(3, nil, discardLogger()).Ingest(context.Background(), source, ds)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Succeeded)
	assert.Equal(t, 1, summary.Failed)
	assert.True(t, errors.Is(summary.Results[1].Err, apperrors.ErrLayoutMismatch))

	names, err := ds.Trials(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"walk03", "walk01", "walk02"}, names)
}

func TestIngest_ThenAnalyze(t *testing.T) {
	source := newMemSource()
	source.add(walkTrial(t, "walk01"))

	ds := dataset.New()
	_, err := NewIngester(1, nil, discardLogger()).Ingest(context.Background(), source, ds)
	require.NoError(t, err)

	path := t.TempDir() + "/dataset.msgpack"
	require.NoError(t, ds.Save(path))
	loaded, err := dataset.Load(path)
	require.NoError(t, err)

	summary, err := newTestPipeline(t, loaded).Run(context.Background())
	require.NoError(t, err)
	require.Len(t, summary.Results, 1)
	assert.InDelta(t, 2.5, summary.Results[0].Metrics.WalkingSpeed, 1e-12)
}

func TestIngest_ListFailure(t *testing.T) {
	_, err := NewIngester(1, nil, discardLogger()).Ingest(context.Background(), failingSource{}, dataset.New())
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrSourceUnavailable))
}
