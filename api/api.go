package api

import (
	"context"
	"net/http"

	"github.com/AdwaithAnandSR/MediaCloudSync/logger"
	"github.com/AdwaithAnandSR/MediaCloudSync/taskman"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

// IngestService is the submission surface the API delegates to.
type IngestService interface {
	SubmitVideo(url string) string
	SubmitChannel(ref string, skip, limit int) string
	SubmitPlaylist(ref string, skip, limit int) string
	TaskStatuses() []taskman.Task
}

// Server exposes the submission and status-polling routes.
type Server struct {
	echo    *echo.Echo
	service IngestService
	logger  logger.Logger
}

type videoRequest struct {
	URL string `json:"url"`
}

type channelRequest struct {
	Channel string `json:"channel"`
	Skip    int    `json:"skip"`
	Limit   int    `json:"limit"`
}

type playlistRequest struct {
	Playlist string `json:"playlist"`
	Skip     int    `json:"skip"`
	Limit    int    `json:"limit"`
}

type submitResponse struct {
	TaskID string `json:"taskId"`
}

func New(service IngestService, lg logger.Logger) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())

	s := &Server{echo: e, service: service, logger: lg}

	e.POST("/api/video", s.submitVideo)
	e.POST("/api/channel", s.submitChannel)
	e.POST("/api/playlist", s.submitPlaylist)
	e.GET("/api/status", s.listStatuses)

	return s
}

func (s *Server) submitVideo(c echo.Context) error {
	var req videoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.URL == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "url is required")
	}

	id := s.service.SubmitVideo(req.URL)
	s.logger.Infof("accepted video submission %s\n", id)
	return c.JSON(http.StatusAccepted, submitResponse{TaskID: id})
}

func (s *Server) submitChannel(c echo.Context) error {
	var req channelRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Channel == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "channel is required")
	}
	skip, limit, err := pagination(req.Skip, req.Limit)
	if err != nil {
		return err
	}

	id := s.service.SubmitChannel(req.Channel, skip, limit)
	s.logger.Infof("accepted channel batch %s for %s\n", id, req.Channel)
	return c.JSON(http.StatusAccepted, submitResponse{TaskID: id})
}

func (s *Server) submitPlaylist(c echo.Context) error {
	var req playlistRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if req.Playlist == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "playlist is required")
	}
	skip, limit, err := pagination(req.Skip, req.Limit)
	if err != nil {
		return err
	}

	id := s.service.SubmitPlaylist(req.Playlist, skip, limit)
	s.logger.Infof("accepted playlist batch %s for %s\n", id, req.Playlist)
	return c.JSON(http.StatusAccepted, submitResponse{TaskID: id})
}

func (s *Server) listStatuses(c echo.Context) error {
	return c.JSON(http.StatusOK, s.service.TaskStatuses())
}

func pagination(skip, limit int) (int, int, error) {
	if skip < 0 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "skip must not be negative")
	}
	if limit < 0 {
		return 0, 0, echo.NewHTTPError(http.StatusBadRequest, "limit must not be negative")
	}
	if limit == 0 {
		limit = 10
	}
	return skip, limit, nil
}

func (s *Server) Start(addr string) error {
	return s.echo.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// Handler exposes the route tree, used by tests.
func (s *Server) Handler() http.Handler {
	return s.echo
}
