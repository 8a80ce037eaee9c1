package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/roomkeep/dataroom/internal/auth"
	"github.com/roomkeep/dataroom/internal/models"
	"github.com/roomkeep/dataroom/internal/services"
)

// DocumentHandler serves the document catalog and the upload, download
// and delete orchestrations.
type DocumentHandler struct {
	docs *services.DocumentService
}

// NewDocumentHandler creates the handler.
func NewDocumentHandler(docs *services.DocumentService) *DocumentHandler {
	return &DocumentHandler{docs: docs}
}

// List returns the documents visible to the caller, filterable by
// category, subcategory and a name substring.
func (h *DocumentHandler) List(c *gin.Context) {
	userID, _ := auth.UserID(c)
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))

	docs, total, err := h.docs.List(c.Request.Context(), userID, services.ListFilter{
		Category:    c.Query("category"),
		Subcategory: c.Query("subcategory"),
		Query:       c.Query("q"),
		Page:        page,
		PageSize:    pageSize,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documents": docs, "total": total, "page": page})
}

// Get returns one catalog row, permission-checked like download.
func (h *DocumentHandler) Get(c *gin.Context) {
	userID, _ := auth.UserID(c)
	doc, err := h.docs.Get(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Upload accepts multipart form data: one or more "files" parts plus
// optional name/description/tags/category/subcategory fields. Files are
// processed sequentially; the response reports how many succeeded.
func (h *DocumentHandler) Upload(c *gin.Context) {
	userID, _ := auth.UserID(c)

	form, err := c.MultipartForm()
	if err != nil {
		badRequest(c, "multipart form required")
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		// single-file clients use the "file" field
		files = form.File["file"]
	}
	if len(files) == 0 {
		badRequest(c, "file is required")
		return
	}

	var tags []string
	if raw := c.PostForm("tags"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				tags = append(tags, t)
			}
		}
	}

	inputs := make([]services.UploadInput, 0, len(files))
	for _, fh := range files {
		src, err := fh.Open()
		if err != nil {
			respondError(c, fmt.Errorf("open upload: %w", err))
			return
		}
		defer src.Close()
		inputs = append(inputs, services.UploadInput{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Size:        fh.Size,
			Reader:      src,
			Name:        c.PostForm("name"),
			Description: c.PostForm("description"),
			Tags:        tags,
			Category:    c.PostForm("category"),
			Subcategory: c.PostForm("subcategory"),
		})
	}

	// Single-file uploads surface their failure directly; batches
	// report an aggregate "N of M succeeded" and never abort early.
	if len(inputs) == 1 {
		doc, err := h.docs.Upload(c.Request.Context(), userID, inputs[0], requestMeta(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, services.UploadResult{
			Uploaded: 1, Total: 1, Documents: []*models.Document{doc},
		})
		return
	}
	result := h.docs.UploadBatch(c.Request.Context(), userID, inputs, requestMeta(c))
	c.JSON(http.StatusCreated, result)
}

// Download streams the file bytes with the original filename and mime
// type.
func (h *DocumentHandler) Download(c *gin.Context) {
	userID, _ := auth.UserID(c)
	doc, obj, err := h.docs.Download(c.Request.Context(), userID, c.Param("id"), requestMeta(c))
	if err != nil {
		respondError(c, err)
		return
	}
	defer obj.Reader.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", doc.Name))
	c.DataFromReader(http.StatusOK, obj.Size, doc.MimeType, obj.Reader, nil)
}

// Delete removes the blob and the catalog row. Admin-only.
func (h *DocumentHandler) Delete(c *gin.Context) {
	userID, _ := auth.UserID(c)
	if err := h.docs.Delete(c.Request.Context(), userID, c.Param("id"), requestMeta(c)); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
