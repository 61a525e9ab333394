// Package handlers exposes the export pipeline over HTTP.
package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/campusforge/portal-export/internal/export"
	"github.com/campusforge/portal-export/internal/http/response"
	"github.com/campusforge/portal-export/internal/platform/apierr"
	"github.com/campusforge/portal-export/internal/platform/logger"
)

type ExportHandler struct {
	log     *logger.Logger
	exports export.Service
}

func NewExportHandler(log *logger.Logger, exports export.Service) *ExportHandler {
	return &ExportHandler{log: log.With("Handler", "ExportHandler"), exports: exports}
}

func (h *ExportHandler) CoursePDF(c *gin.Context) {
	h.exportCourse(c, export.FormatPDF)
}

func (h *ExportHandler) CourseMarkdown(c *gin.Context) {
	h.exportCourse(c, export.FormatMarkdown)
}

func (h *ExportHandler) ProgramPDF(c *gin.Context) {
	h.exportProgram(c, export.FormatPDF)
}

func (h *ExportHandler) ProgramMarkdown(c *gin.Context) {
	h.exportProgram(c, export.FormatMarkdown)
}

func (h *ExportHandler) exportCourse(c *gin.Context, format export.Format) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Newf(apierr.KindNotFound, "cours introuvable", "invalid course id %q", c.Param("id")))
		return
	}
	artifact, err := h.exports.ExportCourse(c.Request.Context(), id, format)
	if err != nil {
		h.log.Error("Course export failed", "course_id", id, "format", format, "error", err)
		response.RespondError(c, err)
		return
	}
	streamArtifact(c, artifact)
}

func (h *ExportHandler) exportProgram(c *gin.Context, format export.Format) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.RespondError(c, apierr.Newf(apierr.KindNotFound, "parcours introuvable", "invalid program id %q", c.Param("id")))
		return
	}
	artifact, err := h.exports.ExportProgram(c.Request.Context(), id, format)
	if err != nil {
		h.log.Error("Program export failed", "program_id", id, "format", format, "error", err)
		response.RespondError(c, err)
		return
	}
	streamArtifact(c, artifact)
}

func streamArtifact(c *gin.Context, artifact *export.Artifact) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
	c.Header("Content-Length", fmt.Sprintf("%d", len(artifact.Data)))
	c.Header("Cache-Control", "no-cache")
	c.Data(http.StatusOK, artifact.ContentType, artifact.Data)
}
