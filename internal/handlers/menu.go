package handlers

import (
	"errors"
	"net/http"

	"github.com/elastic/go-elasticsearch/v9"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"kitsu-backend/internal/logging"
	"kitsu-backend/internal/models"
	"kitsu-backend/internal/service/search"
)

type MenuHandler struct {
	DB    *gorm.DB
	ES    *elasticsearch.Client
	Index string
}

func (h *MenuHandler) reindex(c echo.Context, item *models.MenuItem) {
	if h.ES == nil {
		return
	}
	ctx := c.Request().Context()
	if err := search.Index(ctx, h.ES, h.Index, item); err != nil {
		logging.FromContext(ctx).Warn("es_index_error", "item_id", item.ID, "error", err)
	}
}

// GetItems returns only the items customers can order right now.
func (h *MenuHandler) GetItems(c echo.Context) error {
	var items []models.MenuItem
	if err := h.DB.Where("available = ?", true).Order("id ASC").Find(&items).Error; err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, items)
}

// pointer fields so a PATCH body only touches what it names
type menuItemRequest struct {
	Name        *string          `json:"name"`
	Description *string          `json:"description"`
	Price       *decimal.Decimal `json:"price"`
	ImageURL    *string          `json:"image_url"`
	Available   *bool            `json:"is_available"`
}

func (req *menuItemRequest) apply(item *models.MenuItem) {
	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Price != nil {
		item.Price = *req.Price
	}
	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}
	if req.Available != nil {
		item.Available = *req.Available
	}
}

func (h *MenuHandler) CreateItem(c echo.Context) error {
	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if req.Name == nil || *req.Name == "" {
		return errorResponse(c, http.StatusBadRequest, errors.New("name is required"))
	}
	if req.Price == nil {
		return errorResponse(c, http.StatusBadRequest, errors.New("price is required"))
	}

	item := models.MenuItem{Available: true}
	req.apply(&item)

	if err := h.DB.Create(&item).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	h.reindex(c, &item)

	return c.JSON(http.StatusCreated, item)
}

func (h *MenuHandler) PatchItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var req menuItemRequest
	if err := c.Bind(&req); err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	var item models.MenuItem
	if err := h.DB.First(&item, id).Error; err != nil {
		return errorResponse(c, http.StatusNotFound, err)
	}

	req.apply(&item)

	if err := h.DB.Save(&item).Error; err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	h.reindex(c, &item)

	return c.JSON(http.StatusOK, item)
}

func (h *MenuHandler) DeleteItem(c echo.Context) error {
	id, err := parseID(c)
	if err != nil {
		return errorResponse(c, http.StatusBadRequest, err)
	}

	if err := h.DB.Delete(&models.MenuItem{}, id).Error; err != nil {
		return errorResponse(c, http.StatusInternalServerError, err)
	}

	if h.ES != nil {
		ctx := c.Request().Context()
		if err := search.Delete(ctx, h.ES, h.Index, id); err != nil {
			logging.FromContext(ctx).Warn("es_delete_error", "item_id", id, "error", err)
		}
	}

	return c.NoContent(http.StatusNoContent)
}
