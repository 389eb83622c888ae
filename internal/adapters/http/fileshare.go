package http

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/collabhub-in/collabhub/internal/fileshare"
)

type FileshareHandler struct {
	Store *fileshare.Store
}

// Upload stores every part of the "files" field under one share code.
func (h *FileshareHandler) Upload(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "Upload failed"})
		return
	}
	files := form.File["files"]
	code, err := h.Store.Upload(files)
	if err != nil {
		log.Error().Str("module", "adapters.http").Err(err).Msg("upload failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "Upload failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "shareCode": code})
}

// List returns the files stored under a share code.
func (h *FileshareHandler) List(c *gin.Context) {
	files, err := h.Store.FilesByCode(c.Param("code"))
	if err != nil {
		if errors.Is(err, fileshare.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "No files found"})
			return
		}
		log.Error().Str("module", "adapters.http").Err(err).Msg("list files failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error retrieving files"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "files": files})
}

// Download streams one stored blob as an attachment.
func (h *FileshareHandler) Download(c *gin.Context) {
	rec, reader, err := h.Store.Open(c.Param("id"))
	if err != nil {
		if errors.Is(err, fileshare.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "File not found"})
			return
		}
		log.Error().Str("module", "adapters.http").Err(err).Msg("download failed")
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error downloading file"})
		return
	}
	defer reader.Close()

	extra := map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", rec.Filename),
	}
	c.DataFromReader(http.StatusOK, rec.Size, rec.ContentType, reader, extra)
}
