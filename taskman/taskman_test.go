package taskman_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
	"github.com/AdwaithAnandSR/MediaCloudSync/taskman"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager() *taskman.TaskManager {
	return taskman.New(logger.New(logger.LogLevelError))
}

func TestCreateFillsDefaults(t *testing.T) {
	assert := assert.New(t)
	tm := newManager()

	id := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "https://youtu.be/abc"})
	assert.NotEmpty(id)

	task, ok := tm.Get(id)
	require.True(t, ok)
	assert.Equal(taskman.StatusProcessing, task.Status)
	assert.False(task.CreatedAt.IsZero())
}

func TestUpdateMergesPatch(t *testing.T) {
	assert := assert.New(t)
	tm := newManager()

	id := tm.Create(taskman.Task{Kind: taskman.KindChannel, SourceRef: "@someband", Limit: 10})

	idx := 3
	label := "Downloading audio"
	tm.Update(id, taskman.Patch{CurrentIndex: &idx, CurrentStatus: &label})

	task, _ := tm.Get(id)
	assert.Equal(3, task.CurrentIndex)
	assert.Equal("Downloading audio", task.CurrentStatus)
	// untouched fields survive the merge
	assert.Equal("@someband", task.SourceRef)
	assert.Equal(10, task.Limit)
}

func TestUpdateUnknownIdIsNoop(t *testing.T) {
	tm := newManager()

	status := taskman.StatusFailed
	// must not panic or create a record
	tm.Update("nope", taskman.Patch{Status: &status})
	assert.Empty(t, tm.List())
}

func TestListNewestFirst(t *testing.T) {
	assert := assert.New(t)
	tm := newManager()

	first := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "one"})
	second := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "two"})
	third := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "three"})

	list := tm.List()
	require.Len(t, list, 3)
	assert.Equal(third, list[0].ID)
	assert.Equal(second, list[1].ID)
	assert.Equal(first, list[2].ID)
}

func TestUpdatesPublished(t *testing.T) {
	tm := newManager()
	updates := tm.Updates()

	id := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "x"})

	select {
	case task := <-updates:
		assert.Equal(t, id, task.ID)
	case <-time.After(time.Second):
		t.Fatal("no update received")
	}
}

func TestClearOldTasks(t *testing.T) {
	assert := assert.New(t)
	tm := newManager()

	// terminal records interleaved with a live one, so the sweep has to
	// delete records that are not the newest entry
	done := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "old"})
	status := taskman.StatusSuccess
	tm.Update(done, taskman.Patch{Status: &status})
	running := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "live"})
	failed := tm.Create(taskman.Task{Kind: taskman.KindVideo, SourceRef: "broken"})
	bad := taskman.StatusFailed
	tm.Update(failed, taskman.Patch{Status: &bad})

	// a zero max age drops every terminal record, but never a running one
	time.Sleep(10 * time.Millisecond)
	tm.ClearOldTasks(0)

	list := tm.List()
	require.Len(t, list, 1)
	assert.Equal(running, list[0].ID)

	// the sink keeps accepting mutations after a sweep
	label := "still going"
	tm.Update(running, taskman.Patch{CurrentStatus: &label})
	task, ok := tm.Get(running)
	require.True(t, ok)
	assert.Equal("still going", task.CurrentStatus)
}

func TestRenderTable(t *testing.T) {
	tm := newManager()
	tm.Create(taskman.Task{Kind: taskman.KindChannel, SourceRef: "@someband"})

	var buf bytes.Buffer
	tm.RenderTable(&buf)
	assert.Contains(t, buf.String(), "@someband")
}
