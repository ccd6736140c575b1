package handlers

import (
	"net/http"
	"strconv"

	"galleria-backend/models"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// ProductHandler manages the owner records galleries attach to. Products here
// are deliberately minimal; the gallery is the point of this service.
type ProductHandler struct {
	DB *gorm.DB
}

type productRequest struct {
	Name        string `json:"name" binding:"required,max=255"`
	Description string `json:"description" binding:"omitempty,max=2000"`
}

func (h *ProductHandler) GetProducts(c *gin.Context) {
	var products []models.Product
	query := h.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC, id ASC")
	})
	if err := query.Find(&products).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to fetch products")
		return
	}
	respond(c, http.StatusOK, products)
}

func (h *ProductHandler) GetProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var product models.Product
	err := h.DB.Preload("Images", func(db *gorm.DB) *gorm.DB {
		return db.Order("display_order ASC, id ASC")
	}).First(&product, "id = ?", id).Error
	if err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "Product not found")
		return
	}
	respond(c, http.StatusOK, product)
}

func (h *ProductHandler) CreateProduct(c *gin.Context) {
	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product := models.Product{
		Name:        req.Name,
		Description: req.Description,
	}
	if err := h.DB.Create(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to create product")
		return
	}
	respond(c, http.StatusCreated, product)
}

func (h *ProductHandler) UpdateProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "Product not found")
		return
	}

	var req productRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondValidationError(c, err)
		return
	}

	product.Name = req.Name
	product.Description = req.Description
	if err := h.DB.Save(&product).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to update product")
		return
	}
	respond(c, http.StatusOK, product)
}

// DeleteProduct soft-deletes the product and hard-removes its gallery, since
// image records have no tombstone column.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	id, ok := productIDParam(c)
	if !ok {
		return
	}

	var product models.Product
	if err := h.DB.First(&product, "id = ?", id).Error; err != nil {
		respondError(c, http.StatusNotFound, CodeNotFound, "Product not found")
		return
	}

	err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Product{}, "id = ?", id).Error
	})
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternalError, "Failed to delete product")
		return
	}
	respond(c, http.StatusOK, gin.H{"message": "Product deleted successfully"})
}

func productIDParam(c *gin.Context) (uint, bool) {
	parsed, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidationError, "id must be a positive integer")
		return 0, false
	}
	return uint(parsed), true
}
