package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/your-org/faceauth/internal/faceindex"
)

// IndexHandler exposes diagnostic views of the face index.
type IndexHandler struct {
	index faceindex.Index
}

func NewIndexHandler(index faceindex.Index) *IndexHandler {
	return &IndexHandler{index: index}
}

// Entries lists every template id in the active collection.
func (h *IndexHandler) Entries(c *gin.Context) {
	ids, err := h.index.ListEntries(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
		return
	}

	entries := make([]string, 0, len(ids))
	for _, id := range ids {
		entries = append(entries, id.String())
	}

	c.JSON(http.StatusOK, gin.H{"entries": entries, "total": len(entries)})
}
