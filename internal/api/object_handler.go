package api

import (
	"net/http"
	"strings"

	"alcyxob/fitlab/internal/storage"

	"github.com/gin-gonic/gin"
)

// ObjectHandler serves binaries kept by the in-memory storage under the URLs it hands out.
type ObjectHandler struct {
	files storage.MemoryStorage
}

func NewObjectHandler(files storage.MemoryStorage) *ObjectHandler {
	return &ObjectHandler{files: files}
}

func (h *ObjectHandler) Get(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")
	data, ok := h.files.Object(key)
	if !ok {
		abortWithError(c, http.StatusNotFound, "object not found")
		return
	}
	contentType := h.files.ContentType(key)
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	c.Data(http.StatusOK, contentType, data)
}
