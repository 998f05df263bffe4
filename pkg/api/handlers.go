package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/gwillem/spider/pkg/robot"
	"github.com/gwillem/spider/pkg/walk"
)

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data: HealthResponse{
			Status:  "ok",
			Version: s.version,
			Uptime:  time.Since(s.startTime).Round(time.Second).String(),
		},
	})
}

func (s *Server) handleStatus(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   s.robot.Status(),
	})
}

func (s *Server) handleGetPoses(c *gin.Context) {
	poses := s.robot.Poses()
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   PosesResponse{Poses: poses, Total: len(poses)},
	})
}

func (s *Server) handlePlayPose(c *gin.Context) {
	name := c.Param("name")
	if err := s.robot.PlayPose(c.Request.Context(), name); err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   s.robot.Status(),
	})
}

func (s *Server) handleStartWalk(c *gin.Context) {
	var req WalkStartRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ApiResponse{
			Status: "error",
			Error:  "invalid walk request: " + err.Error(),
		})
		return
	}
	if req.Cycles < 0 {
		fail(c, fmt.Errorf("%w: negative cycle count %d", robot.ErrInvalidArgument, req.Cycles))
		return
	}

	runID, err := s.robot.Launch(req.Cycles)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusAccepted, ApiResponse{
		Status: "success",
		Data:   WalkStartResponse{RunID: runID, Cycles: req.Cycles},
	})
}

func (s *Server) handleStopWalk(c *gin.Context) {
	c.JSON(http.StatusOK, ApiResponse{
		Status: "success",
		Data:   WalkStopResponse{Stopped: s.robot.Stop()},
	})
}

// fail maps an error to its HTTP status.
func fail(c *gin.Context, err error) {
	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, walk.ErrAlreadyRunning):
		code = http.StatusConflict
	case errors.Is(err, robot.ErrConfiguration):
		code = http.StatusNotFound
	case errors.Is(err, robot.ErrInvalidArgument), errors.Is(err, robot.ErrDimensionMismatch):
		code = http.StatusBadRequest
	}
	c.JSON(code, ApiResponse{Status: "error", Error: err.Error()})
}
