package handlers

import (
	"errors"

	"admingate/internal/core/domain"
	"admingate/internal/core/services"
	"admingate/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// RoleHandler handles role administration endpoints
type RoleHandler struct {
	roleService *services.RoleService
}

// NewRoleHandler creates a new role handler
func NewRoleHandler(roleService *services.RoleService) *RoleHandler {
	return &RoleHandler{roleService: roleService}
}

// RoleRequest represents role create/update request body
type RoleRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// SetMenusRequest represents menu grant request body
type SetMenusRequest struct {
	MenuIDs []uint `json:"menu_ids"`
}

// SetPermissionsRequest represents permission grant request body
type SetPermissionsRequest struct {
	PermissionIDs []uint `json:"permission_ids"`
}

// List returns all roles
// @Summary List roles
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /roles [get]
func (h *RoleHandler) List(c *fiber.Ctx) error {
	roles, err := h.roleService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list roles")
	}

	return response.Success(c, "Roles retrieved successfully", fiber.Map{
		"roles": roles,
	})
}

// Get returns a single role
// @Summary Get role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [get]
func (h *RoleHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	role, err := h.roleService.Get(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return response.NotFound(c, "Role not found")
		}
		return response.InternalServerError(c, "Failed to get role")
	}

	return response.Success(c, "Role retrieved successfully", fiber.Map{
		"role": role,
	})
}

// Create creates a new role
// @Summary Create role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body RoleRequest true "Role data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /roles [post]
func (h *RoleHandler) Create(c *fiber.Ctx) error {
	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Name == "" {
		return response.BadRequest(c, "Role name is required")
	}

	role, err := h.roleService.Create(c.Context(), &services.RoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Role name already exists")
		}
		return response.InternalServerError(c, "Failed to create role")
	}

	return response.Created(c, "Role created successfully", fiber.Map{
		"role": role,
	})
}

// Update updates a role
// @Summary Update role
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body RoleRequest true "Role data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [put]
func (h *RoleHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req RoleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	role, err := h.roleService.Update(c.Context(), id, &services.RoleInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, domain.ErrRoleProtected):
			return response.Forbidden(c, "Built-in roles cannot be renamed")
		default:
			return response.InternalServerError(c, "Failed to update role")
		}
	}

	return response.Success(c, "Role updated successfully", fiber.Map{
		"role": role,
	})
}

// Delete removes a role
// @Summary Delete role
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id} [delete]
func (h *RoleHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	if err := h.roleService.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, domain.ErrRoleProtected):
			return response.Forbidden(c, "Built-in roles cannot be deleted")
		default:
			return response.InternalServerError(c, "Failed to delete role")
		}
	}

	return response.Success(c, "Role deleted successfully", nil)
}

// GetMenus returns the menus granted to a role
// @Summary Get role menus
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id}/menus [get]
func (h *RoleHandler) GetMenus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	menus, err := h.roleService.GetMenus(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return response.NotFound(c, "Role not found")
		}
		return response.InternalServerError(c, "Failed to get role menus")
	}

	return response.Success(c, "Role menus retrieved successfully", fiber.Map{
		"menus": menus,
	})
}

// SetMenus replaces the menus granted to a role
// @Summary Set role menus
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body SetMenusRequest true "Menu IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id}/menus [put]
func (h *RoleHandler) SetMenus(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req SetMenusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.roleService.SetMenus(c.Context(), id, req.MenuIDs); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, domain.ErrMenuNotFound):
			return response.BadRequest(c, "One or more menus do not exist")
		default:
			return response.InternalServerError(c, "Failed to set role menus")
		}
	}

	return response.Success(c, "Role menus updated successfully", nil)
}

// GetPermissions returns the permissions granted to a role
// @Summary Get role permissions
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id}/permissions [get]
func (h *RoleHandler) GetPermissions(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	permissions, err := h.roleService.GetPermissions(c.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrRoleNotFound) {
			return response.NotFound(c, "Role not found")
		}
		return response.InternalServerError(c, "Failed to get role permissions")
	}

	return response.Success(c, "Role permissions retrieved successfully", fiber.Map{
		"permissions": permissions,
	})
}

// SetPermissions replaces the permissions granted to a role
// @Summary Set role permissions
// @Tags Roles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Role ID"
// @Param body body SetPermissionsRequest true "Permission IDs"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /roles/{id}/permissions [put]
func (h *RoleHandler) SetPermissions(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid role ID")
	}

	var req SetPermissionsRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.roleService.SetPermissions(c.Context(), id, req.PermissionIDs); err != nil {
		switch {
		case errors.Is(err, domain.ErrRoleNotFound):
			return response.NotFound(c, "Role not found")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "One or more permissions do not exist")
		default:
			return response.InternalServerError(c, "Failed to set role permissions")
		}
	}

	return response.Success(c, "Role permissions updated successfully", nil)
}

// ListPermissions returns the full permission catalog
// @Summary List permissions
// @Tags Roles
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /permissions [get]
func (h *RoleHandler) ListPermissions(c *fiber.Ctx) error {
	permissions, err := h.roleService.Permissions(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list permissions")
	}

	return response.Success(c, "Permissions retrieved successfully", fiber.Map{
		"permissions": permissions,
	})
}
