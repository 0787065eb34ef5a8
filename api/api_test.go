package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/AdwaithAnandSR/MediaCloudSync/api"
	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
	"github.com/AdwaithAnandSR/MediaCloudSync/taskman"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubService struct {
	videos    []string
	channels  []string
	playlists []string
	statuses  []taskman.Task
}

func (s *stubService) SubmitVideo(url string) string {
	s.videos = append(s.videos, url)
	return "task-video"
}

func (s *stubService) SubmitChannel(ref string, skip, limit int) string {
	s.channels = append(s.channels, ref)
	return "task-channel"
}

func (s *stubService) SubmitPlaylist(ref string, skip, limit int) string {
	s.playlists = append(s.playlists, ref)
	return "task-playlist"
}

func (s *stubService) TaskStatuses() []taskman.Task {
	return s.statuses
}

func doJSON(t *testing.T, handler http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func newServer(stub *stubService) http.Handler {
	return api.New(stub, logger.New(logger.LogLevelFatal)).Handler()
}

func TestSubmitVideo(t *testing.T) {
	assert := assert.New(t)
	stub := &stubService{}

	rec := doJSON(t, newServer(stub), http.MethodPost, "/api/video", `{"url":"https://youtu.be/abc"}`)
	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal("task-video", resp["taskId"])
	assert.Equal([]string{"https://youtu.be/abc"}, stub.videos)
}

func TestSubmitVideoRequiresURL(t *testing.T) {
	stub := &stubService{}

	rec := doJSON(t, newServer(stub), http.MethodPost, "/api/video", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, stub.videos)
}

func TestSubmitChannel(t *testing.T) {
	stub := &stubService{}

	rec := doJSON(t, newServer(stub), http.MethodPost, "/api/channel", `{"channel":"@someband","skip":5,"limit":10}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"@someband"}, stub.channels)
}

func TestSubmitChannelRejectsNegativeSkip(t *testing.T) {
	stub := &stubService{}

	rec := doJSON(t, newServer(stub), http.MethodPost, "/api/channel", `{"channel":"@someband","skip":-1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSubmitPlaylist(t *testing.T) {
	stub := &stubService{}

	rec := doJSON(t, newServer(stub), http.MethodPost, "/api/playlist", `{"playlist":"PLxyz"}`)
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, []string{"PLxyz"}, stub.playlists)
}

func TestListStatuses(t *testing.T) {
	stub := &stubService{statuses: []taskman.Task{
		{ID: "newest", Kind: taskman.KindChannel, Status: taskman.StatusProcessing},
		{ID: "older", Kind: taskman.KindVideo, Status: taskman.StatusSuccess},
	}}

	rec := doJSON(t, newServer(stub), http.MethodGet, "/api/status", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var tasks []taskman.Task
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &tasks))
	require.Len(t, tasks, 2)
	assert.Equal(t, taskman.TaskID("newest"), tasks[0].ID)
}
