package handlers

import (
	"errors"

	"admingate/internal/core/domain"
	"admingate/internal/core/services"
	"admingate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// MenuHandler handles menu management endpoints
type MenuHandler struct {
	menuService *services.MenuService
}

// NewMenuHandler creates a new menu handler
func NewMenuHandler(menuService *services.MenuService) *MenuHandler {
	return &MenuHandler{menuService: menuService}
}

// MenuRequest represents menu create/update request body
type MenuRequest struct {
	Name     string `json:"name"`
	Path     string `json:"path"`
	Icon     string `json:"icon"`
	Sort     int    `json:"sort"`
	ParentID *uint  `json:"parent_id"`
}

// Tree returns the full menu tree
// @Summary Get menu tree
// @Description Full menu tree, children nested and ordered by sort
// @Tags Menus
// @Produce json
// @Success 200 {object} response.Response
// @Router /menus/tree [get]
func (h *MenuHandler) Tree(c *fiber.Ctx) error {
	tree, err := h.menuService.Tree(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load menu tree")
	}

	return response.Success(c, "Menu tree retrieved successfully", fiber.Map{
		"menus": tree,
	})
}

// Create creates a new menu
// @Summary Create menu
// @Tags Menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body MenuRequest true "Menu data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /menus [post]
func (h *MenuHandler) Create(c *fiber.Ctx) error {
	var req MenuRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	menu, err := h.menuService.Create(c.Context(), &services.MenuInput{
		Name:     req.Name,
		Path:     req.Path,
		Icon:     req.Icon,
		Sort:     req.Sort,
		ParentID: req.ParentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Menu name and path are required")
		case errors.Is(err, domain.ErrMenuNotFound):
			return response.BadRequest(c, "Parent menu does not exist")
		default:
			return response.InternalServerError(c, "Failed to create menu")
		}
	}

	return response.Created(c, "Menu created successfully", fiber.Map{
		"menu": menu,
	})
}

// Update updates a menu
// @Summary Update menu
// @Tags Menus
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu ID"
// @Param body body MenuRequest true "Menu data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /menus/{id} [put]
func (h *MenuHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid menu ID")
	}

	var req MenuRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	menu, err := h.menuService.Update(c.Context(), id, &services.MenuInput{
		Name:     req.Name,
		Path:     req.Path,
		Icon:     req.Icon,
		Sort:     req.Sort,
		ParentID: req.ParentID,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrMenuNotFound):
			return response.NotFound(c, "Menu not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "A menu cannot be its own parent")
		default:
			return response.InternalServerError(c, "Failed to update menu")
		}
	}

	return response.Success(c, "Menu updated successfully", fiber.Map{
		"menu": menu,
	})
}

// Delete removes a menu; children move to the root level
// @Summary Delete menu
// @Tags Menus
// @Produce json
// @Security BearerAuth
// @Param id path int true "Menu ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /menus/{id} [delete]
func (h *MenuHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid menu ID")
	}

	if err := h.menuService.Delete(c.Context(), id); err != nil {
		if errors.Is(err, domain.ErrMenuNotFound) {
			return response.NotFound(c, "Menu not found")
		}
		return response.InternalServerError(c, "Failed to delete menu")
	}

	return response.Success(c, "Menu deleted successfully", nil)
}
