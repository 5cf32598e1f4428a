package handlers

import (
	"io"
	"net/http"
	"path"

	"github.com/gabriel-vasile/mimetype"
	"github.com/gin-gonic/gin"

	"userhub_backend/internal/storage"
	"userhub_backend/pkg/apperrors"
)

// Profile images never change under a given filename (updates store a new
// random name), so clients may cache them for a year.
const imageCacheControl = "public, max-age=31536000"

type FileHandler struct {
	*BaseHandler
	storage    storage.Storage
	profileDir string
}

func NewFileHandler(base *BaseHandler, st storage.Storage, profileDir string) *FileHandler {
	return &FileHandler{
		BaseHandler: base,
		storage:     st,
		profileDir:  profileDir,
	}
}

// RegisterRoutes registers static image serving on the engine root.
func (h *FileHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/images/:filename", h.ServeImage)
}

func (h *FileHandler) ServeImage(c *gin.Context) {
	filename := path.Base(c.Param("filename")) // no traversal

	file, err := h.storage.Get(c.Request.Context(), path.Join(h.profileDir, filename))
	if err != nil {
		apperrors.HandleError(c, apperrors.NotFound("File not found"))
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.Header("Cache-Control", imageCacheControl)
	c.Data(http.StatusOK, mimetype.Detect(data).String(), data)
}
