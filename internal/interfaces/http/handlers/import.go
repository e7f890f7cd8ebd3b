package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/storefront-backend/internal/domain/catalog"
)

// ImportHandler serves bulk product imports.
type ImportHandler struct {
	importer *catalog.Importer
}

// NewImportHandler creates an import handler.
func NewImportHandler(importer *catalog.Importer) *ImportHandler {
	return &ImportHandler{importer: importer}
}

// Import accepts a multipart CSV upload and runs a best-effort bulk
// import. The response reports created rows and per-line failures.
func (h *ImportHandler) Import(c *gin.Context) {
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file field is required"})
		return
	}
	defer file.Close()

	result, err := h.importer.Import(c.Request.Context(), file)
	if err != nil {
		// The partial result still matters when the stream broke midway.
		c.JSON(http.StatusBadGateway, gin.H{
			"error":  err.Error(),
			"result": result,
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"filename": header.Filename,
		"created":  result.Created,
		"failed":   result.Failed,
	})
}
