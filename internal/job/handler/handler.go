package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jobboard/jobs-api/internal/job"
	"github.com/jobboard/jobs-api/internal/job/service"
	"github.com/jobboard/jobs-api/pkg/logger"
)

const msgNotFound = "Job not found"

// RegisterJobRoutes mounts the job CRUD endpoints on r.
//
// Validation failures and persistence faults both answer 500 with
// {status:"error", message}; clients of the listing app rely on that shape.
func RegisterJobRoutes(r gin.IRoutes, svc service.Service) {
	r.GET("/jobs", func(c *gin.Context) {
		list, err := svc.List(c.Request.Context())
		if err != nil {
			logger.Errorf("list jobs: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching jobs", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, list)
	})

	r.GET("/jobs/:id", func(c *gin.Context) {
		j, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			if errors.Is(err, service.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
				return
			}
			logger.Errorf("get job %s: %v", c.Param("id"), err)
			c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching job", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, j)
	})

	r.POST("/jobs", func(c *gin.Context) {
		p, ok := bindPatch(c)
		if !ok {
			return
		}
		j, err := svc.Create(c.Request.Context(), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"status": "success", "job": j})
	})

	r.PUT("/jobs/:id", func(c *gin.Context) {
		p, ok := bindPatch(c)
		if !ok {
			return
		}
		j, err := svc.Update(c.Request.Context(), c.Param("id"), p)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "job": j})
	})

	r.DELETE("/jobs/:id", func(c *gin.Context) {
		j, err := svc.Delete(c.Request.Context(), c.Param("id"))
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "message": "Job deleted", "job": j})
	})
}

// bindPatch decodes the request body. An empty body is an empty change set.
// A type mismatch is a validation failure (500, like any other invalid
// payload); unparseable JSON is 400.
func bindPatch(c *gin.Context) (job.Patch, bool) {
	var p job.Patch
	if err := c.ShouldBindJSON(&p); err != nil {
		if errors.Is(err, io.EOF) {
			return job.Patch{}, true
		}
		if verr, ok := job.DecodeError(err); ok {
			c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": verr.Error()})
			return p, false
		}
		c.JSON(http.StatusBadRequest, gin.H{"status": "error", "message": err.Error()})
		return p, false
	}
	return p, true
}

func writeError(c *gin.Context, err error) {
	var verr *job.ValidationError
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": msgNotFound})
	case errors.As(err, &verr):
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": verr.Error()})
	default:
		logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
		c.JSON(http.StatusInternalServerError, gin.H{"status": "error", "message": err.Error()})
	}
}
