package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"galleria-backend/gallery"
	"galleria-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ImageHandler exposes the gallery ordering engine over HTTP. Shape and range
// checks happen here via binding tags; the engine itself only receives
// validated input.
type ImageHandler struct {
	DB     *gorm.DB
	Engine *gallery.Engine
}

type createImageRequest struct {
	ProductID    uint    `json:"productId" binding:"required"`
	URL          string  `json:"url" binding:"required,url,max=2048"`
	Caption      *string `json:"caption" binding:"omitempty,max=255"`
	IsPrimary    bool    `json:"isPrimary"`
	DisplayOrder int     `json:"displayOrder" binding:"omitempty,min=0"`
	Width        int     `json:"width" binding:"omitempty,min=1"`
	Height       int     `json:"height" binding:"omitempty,min=1"`
	Rotation     int     `json:"rotation" binding:"omitempty,oneof=0 90 180 270"`
}

type updateImageRequest struct {
	URL          string  `json:"url" binding:"required,url,max=2048"`
	Caption      *string `json:"caption" binding:"omitempty,max=255"`
	IsPrimary    *bool   `json:"isPrimary"`
	DisplayOrder *int    `json:"displayOrder" binding:"omitempty,min=0"`
	Width        *int    `json:"width" binding:"omitempty,min=1"`
	Height       *int    `json:"height" binding:"omitempty,min=1"`
	Rotation     *int    `json:"rotation" binding:"omitempty,oneof=0 90 180 270"`
}

type reorderImageRequest struct {
	// A pointer so an explicit 0 passes "required": unlike create, reorder
	// treats zero as a literal order.
	DisplayOrder *int `json:"displayOrder" binding:"required,min=0"`
}

// GetImages lists gallery images, optionally scoped to one product. With a
// product filter the result is in ascending display order, which is the
// sequence viewers index into.
func (h *ImageHandler) GetImages(c *gin.Context) {
	var productID *uint
	if raw := c.Query("product_id"); raw != "" {
		parsed, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			respondError(c, http.StatusBadRequest, CodeValidationError, "product_id must be a positive integer")
			return
		}
		id := uint(parsed)
		productID = &id
	}

	images, err := h.Engine.List(productID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to fetch images")
		return
	}

	summaries := make([]models.ProductImageSummary, 0, len(images))
	for _, img := range images {
		summaries = append(summaries, img.Summary())
	}
	respond(c, http.StatusOK, summaries)
}

func (h *ImageHandler) GetImage(c *gin.Context) {
	id, ok := imageIDParam(c)
	if !ok {
		return
	}

	img, err := h.Engine.Get(id)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to fetch image")
		return
	}
	respond(c, http.StatusOK, img)
}

func (h *ImageHandler) CreateImage(c *gin.Context) {
	var req createImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	// The engine treats productId as an opaque owner reference; referential
	// integrity is checked here, like any other input precondition.
	var product models.Product
	if err := h.DB.First(&product, "id = ?", req.ProductID).Error; err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "productId references a nonexistent product")
		return
	}

	img, err := h.Engine.Create(gallery.CreateInput{
		ProductID:    req.ProductID,
		URL:          req.URL,
		Caption:      req.Caption,
		IsPrimary:    req.IsPrimary,
		DisplayOrder: req.DisplayOrder,
		Width:        req.Width,
		Height:       req.Height,
		Rotation:     req.Rotation,
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create image")
		return
	}
	respond(c, http.StatusCreated, img)
}

func (h *ImageHandler) UpdateImage(c *gin.Context) {
	id, ok := imageIDParam(c)
	if !ok {
		return
	}

	var req updateImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	img, err := h.Engine.Update(id, gallery.UpdateInput{
		URL:          req.URL,
		Caption:      req.Caption,
		IsPrimary:    req.IsPrimary,
		DisplayOrder: req.DisplayOrder,
		Width:        req.Width,
		Height:       req.Height,
		Rotation:     req.Rotation,
	})
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update image")
		return
	}
	respond(c, http.StatusOK, img)
}

func (h *ImageHandler) DeleteImage(c *gin.Context) {
	id, ok := imageIDParam(c)
	if !ok {
		return
	}

	if err := h.Engine.Delete(id); err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to delete image")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Image deleted successfully"})
}

func (h *ImageHandler) ReorderImage(c *gin.Context) {
	id, ok := imageIDParam(c)
	if !ok {
		return
	}

	var req reorderImageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	img, err := h.Engine.Reorder(id, *req.DisplayOrder)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to reorder image")
		return
	}
	respond(c, http.StatusOK, img)
}

func (h *ImageHandler) SetPrimaryImage(c *gin.Context) {
	id, ok := imageIDParam(c)
	if !ok {
		return
	}

	img, err := h.Engine.SetPrimary(id)
	if err != nil {
		if errors.Is(err, gallery.ErrNotFound) {
			respondError(c, http.StatusNotFound, CodeNotFound, "Image not found")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to set primary image")
		return
	}
	respond(c, http.StatusOK, img)
}

// imageIDParam parses the :id path parameter, responding with a validation
// error itself when the value is not a positive integer.
func imageIDParam(c *gin.Context) (uint, bool) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "id must be a positive integer")
		return 0, false
	}
	return uint(parsed), true
}
