package ingest

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vectorvision/internal/collection"
	"vectorvision/internal/embedding"
	"vectorvision/internal/service"
)

func TestTracker_StartAndWait(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	folder, err := f.folders.Register(ctx, photosTree(t))
	require.NoError(t, err)

	tr := NewTracker(NewPipeline(f.files, f.coll, true))
	task, err := tr.Start(ctx, folder)
	require.NoError(t, err)
	require.NotEmpty(t, task.ID)

	report, err := task.Wait(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
	assert.Equal(t, StatusCompleted, task.Status())

	select {
	case <-task.Done():
	default:
		t.Fatal("Done() should be closed after Wait returns")
	}

	snap := task.Snapshot()
	assert.Equal(t, folder.ID, snap.FolderID)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.NotNil(t, snap.FinishedAt)
	assert.Empty(t, snap.Error)

	got, ok := tr.Get(task.ID)
	require.True(t, ok)
	assert.Same(t, task, got)

	_, ok = tr.Get("missing")
	assert.False(t, ok)
}

func TestTracker_FailedTask(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	folder, err := f.folders.Register(ctx, filepath.Join(t.TempDir(), "gone"))
	require.NoError(t, err)

	tr := NewTracker(NewPipeline(f.files, f.coll, true))
	task, err := tr.Start(ctx, folder)
	require.NoError(t, err)

	_, err = task.Wait(ctx)
	assert.ErrorIs(t, err, service.ErrFilesystemAccess)
	assert.Equal(t, StatusFailed, task.Status())
	assert.NotEmpty(t, task.Snapshot().Error)
}

// blockingEmbedder holds EmbedImages until release is closed.
type blockingEmbedder struct {
	*colorEmbedder
	entered chan struct{}
	release chan struct{}
}

func (b *blockingEmbedder) EmbedImages(ctx context.Context, images []embedding.Image) ([][]float32, error) {
	select {
	case b.entered <- struct{}{}:
	default:
	}
	<-b.release
	return b.colorEmbedder.EmbedImages(ctx, images)
}

func TestTracker_RefusesConcurrentTaskForSameFolder(t *testing.T) {
	f := newFixture(t)
	ctx := t.Context()
	folder, err := f.folders.Register(ctx, photosTree(t))
	require.NoError(t, err)

	emb := &blockingEmbedder{
		colorEmbedder: newColorEmbedder(),
		entered:       make(chan struct{}, 1),
		release:       make(chan struct{}),
	}
	coll := collection.New(f.store, emb, testCollection)
	tr := NewTracker(NewPipeline(f.files, coll, true))

	first, err := tr.Start(ctx, folder)
	require.NoError(t, err)

	select {
	case <-emb.entered:
	case <-time.After(5 * time.Second):
		t.Fatal("ingestion did not reach the embedder")
	}

	_, err = tr.Start(ctx, folder)
	assert.ErrorIs(t, err, service.ErrIngestBusy)
	assert.Equal(t, service.CodeIngestBusy, service.CodeOf(err))
	assert.Equal(t, StatusRunning, first.Status())

	close(emb.release)
	_, err = first.Wait(ctx)
	require.NoError(t, err)

	// Once finished, the folder can be ingested again.
	second, err := tr.Start(ctx, folder)
	require.NoError(t, err)
	tr.Wait()
	assert.Equal(t, StatusCompleted, second.Status())

	tasks := tr.List()
	require.Len(t, tasks, 2)
	assert.Equal(t, first.ID, tasks[0].ID)
}

func TestTracker_TaskOutlivesCanceledContext(t *testing.T) {
	f := newFixture(t)
	folder, err := f.folders.Register(t.Context(), photosTree(t))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(t.Context())
	tr := NewTracker(NewPipeline(f.files, f.coll, true))
	task, err := tr.Start(ctx, folder)
	require.NoError(t, err)
	cancel()

	report, err := task.Wait(t.Context())
	require.NoError(t, err)
	assert.Equal(t, 2, report.Indexed)
}

func TestTask_WaitHonorsContext(t *testing.T) {
	task := &Task{done: make(chan struct{}), status: StatusRunning}
	ctx, cancel := context.WithTimeout(t.Context(), 10*time.Millisecond)
	defer cancel()

	_, err := task.Wait(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
