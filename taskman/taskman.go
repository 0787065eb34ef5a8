package taskman

import (
	"fmt"
	"io"
	"time"

	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
	"github.com/AdwaithAnandSR/MediaCloudSync/pubsub"
	"github.com/AdwaithAnandSR/MediaCloudSync/util/atomic"
	"github.com/google/uuid"
	"github.com/jedib0t/go-pretty/v6/table"
)

type TaskID string
type Kind string
type Status string

const (
	KindVideo    Kind = "video"
	KindChannel  Kind = "channel"
	KindPlaylist Kind = "playlist"
)

const (
	StatusProcessing Status = "PROCESSING"
	StatusCompleted  Status = "COMPLETED"
	StatusFailed     Status = "FAILED"
	StatusSuccess    Status = "SUCCESS"
	StatusExists     Status = "EXISTS"
)

// TopicTasks is the pubsub topic every record mutation is published on.
const TopicTasks = "tasks"

// Task is one progress record: either a batch run over a channel/playlist
// listing, or a single direct video submission. Batch-only fields stay zero
// for video tasks and vice versa.
type Task struct {
	ID   TaskID `json:"id"`
	Kind Kind   `json:"type"`

	// SourceRef is the channel handle, playlist reference or video URL the
	// task was submitted with.
	SourceRef string `json:"source"`

	Skip  int `json:"skip"`
	Limit int `json:"limit"`

	// CurrentIndex counts items whose processing has started, 1-based.
	CurrentIndex int `json:"currentProcessing"`
	SuccessCount int `json:"successCount"`
	FailCount    int `json:"failCount"`
	SkipCount    int `json:"skipCount"`

	// Progress is a percentage derived from CurrentIndex over the batch size.
	Progress int `json:"progress"`

	Status Status `json:"status"`
	// CurrentStatus is a short human-readable phase label.
	CurrentStatus string `json:"currentStatus"`

	Title string `json:"title,omitempty"`
	Error string `json:"error,omitempty"`

	// AudioPath and CoverPath point at staged local assets while a video
	// task has them on disk. They are cleared when the task goes terminal.
	AudioPath string `json:"-"`
	CoverPath string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Terminal reports whether the task has reached a final status.
func (t *Task) Terminal() bool {
	switch t.Status {
	case StatusCompleted, StatusFailed, StatusSuccess, StatusExists:
		return true
	}
	return false
}

// Patch is a partial task update. Nil fields are left untouched.
type Patch struct {
	CurrentIndex  *int
	SuccessCount  *int
	FailCount     *int
	SkipCount     *int
	Progress      *int
	Status        *Status
	CurrentStatus *string
	Title         *string
	Error         *string
	AudioPath     *string
	CoverPath     *string
}

func (p *Patch) apply(t *Task) {
	if p.CurrentIndex != nil {
		t.CurrentIndex = *p.CurrentIndex
	}
	if p.SuccessCount != nil {
		t.SuccessCount = *p.SuccessCount
	}
	if p.FailCount != nil {
		t.FailCount = *p.FailCount
	}
	if p.SkipCount != nil {
		t.SkipCount = *p.SkipCount
	}
	if p.Progress != nil {
		t.Progress = *p.Progress
	}
	if p.Status != nil {
		t.Status = *p.Status
	}
	if p.CurrentStatus != nil {
		t.CurrentStatus = *p.CurrentStatus
	}
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Error != nil {
		t.Error = *p.Error
	}
	if p.AudioPath != nil {
		t.AudioPath = *p.AudioPath
	}
	if p.CoverPath != nil {
		t.CoverPath = *p.CoverPath
	}
}

// TaskManager is the progress sink: an append-only-by-id registry of task
// records, listed newest-first.
type TaskManager struct {
	tasks  *TaskMap
	logger logger.Logger
	events pubsub.PubSub[Task]
	dirty  atomic.ABool
}

func New(lg logger.Logger) *TaskManager {
	return &TaskManager{
		tasks:  NewTaskMap(),
		logger: lg,
		events: pubsub.New[Task](64),
	}
}

// Create registers a new task record and returns its id. A missing id is
// filled with a fresh UUID; a missing status defaults to PROCESSING.
func (t *TaskManager) Create(task Task) TaskID {
	if task.ID == "" {
		task.ID = TaskID(uuid.NewString())
	}
	if task.Status == "" {
		task.Status = StatusProcessing
	}
	now := time.Now()
	task.CreatedAt = now
	task.UpdatedAt = now

	t.tasks.Set(task.ID, &task)
	t.logger.Debugf("(%s) task created: %s %s\n", task.ID, task.Kind, task.SourceRef)
	t.publish(&task)
	return task.ID
}

// Update merges the patch into the record. An unknown id is logged and
// ignored; Update never fails.
func (t *TaskManager) Update(id TaskID, patch Patch) {
	task, ok := t.tasks.Get(id)
	if !ok {
		t.logger.Warnf("update for unknown task %s dropped\n", id)
		return
	}

	patch.apply(task)
	task.UpdatedAt = time.Now()
	t.tasks.Set(id, task)
	t.publish(task)
}

func (t *TaskManager) publish(task *Task) {
	t.dirty.Set(true)
	t.events.Publish(TopicTasks, *task)
}

func (t *TaskManager) Get(id TaskID) (Task, bool) {
	task, ok := t.tasks.Get(id)
	if !ok {
		return Task{}, false
	}
	return *task, true
}

// List returns snapshots of all records, most recently created first.
func (t *TaskManager) List() []Task {
	tasks := make([]Task, 0, t.tasks.Len())
	for task := range t.tasks.IterNewest() {
		tasks = append(tasks, *task)
	}
	return tasks
}

// Updates returns a channel yielding a snapshot after every mutation.
func (t *TaskManager) Updates() <-chan Task {
	ch, _ := t.events.Subscribe(TopicTasks)
	return ch
}

// ConsumeDirty reports whether any record changed since the last call.
func (t *TaskManager) ConsumeDirty() bool {
	return t.dirty.GetAndSet(false)
}

// ClearOldTasks drops terminal records older than maxAge. Expired ids are
// collected first and deleted after the iteration ends; Delete takes the
// write lock, and Iter holds the read lock until its channel drains.
func (t *TaskManager) ClearOldTasks(maxAge time.Duration) {
	var expired []TaskID
	for task := range t.tasks.Iter() {
		if task.Terminal() && time.Since(task.UpdatedAt) > maxAge {
			expired = append(expired, task.ID)
		}
	}
	for _, id := range expired {
		t.tasks.Delete(id)
	}
}

// RenderTable writes a summary table of all records to w.
func (t *TaskManager) RenderTable(w io.Writer) {
	tbl := table.NewWriter()
	tbl.SetOutputMirror(w)
	tbl.AppendHeader(table.Row{"Id", "Type", "Source", "Status", "Phase", "Ok/Fail/Skip", "Progress"})

	for task := range t.tasks.IterNewest() {
		id := string(task.ID)
		if len(id) > 8 {
			id = id[:8]
		}
		source := task.SourceRef
		if task.Title != "" {
			source = task.Title
		}
		if len(source) > 30 {
			source = source[:30]
		}
		progress := ""
		if task.Kind != KindVideo {
			progress = fmt.Sprintf("%d%%", task.Progress)
		}
		tbl.AppendRow(table.Row{
			id,
			task.Kind,
			source,
			task.Status,
			task.CurrentStatus,
			fmt.Sprintf("%d/%d/%d", task.SuccessCount, task.FailCount, task.SkipCount),
			progress,
		})
	}

	tbl.SetStyle(table.StyleColoredDark)
	tbl.Render()
}
