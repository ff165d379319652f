package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/memberdesk/identity-system/internal/api/metrics"
	"github.com/memberdesk/identity-system/internal/api/middleware"
	"github.com/memberdesk/identity-system/internal/core/domain"
	"github.com/memberdesk/identity-system/internal/core/ports"
)

// AdminHandler exposes the role-gated account mutations.
type AdminHandler struct {
	adminService ports.AdminService
}

func NewAdminHandler(adminService ports.AdminService) *AdminHandler {
	return &AdminHandler{adminService: adminService}
}

type listAccountsResponse struct {
	Accounts []domain.Account `json:"accounts"`
	Total    int              `json:"total"`
}

type setRoleRequest struct {
	Role string `json:"role" validate:"required"`
}

// List returns all accounts for an admin session. A non-admin session gets an
// empty list, not an error.
//
// @Summary      List all accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  listAccountsResponse
// @Failure      401  {object}  map[string]string
// @Router       /admin/accounts [get]
func (h *AdminHandler) List(c echo.Context) error {
	session, _ := c.Get(middleware.SessionKey).(*domain.Session)

	accounts, err := h.adminService.ListAccounts(c.Request().Context(), session)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, listAccountsResponse{Accounts: accounts, Total: len(accounts)})
}

// SetRole changes the role of the target account.
//
// @Summary      Change an account's role
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int             true  "Account ID"
// @Param        body  body      setRoleRequest  true  "New role (user or admin)"
// @Success      204   "role updated"
// @Failure      400   {object}  map[string]string
// @Failure      403   {object}  map[string]string
// @Failure      404   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /admin/accounts/{id}/role [put]
func (h *AdminHandler) SetRole(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account id"})
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid payload"})
	}

	session, _ := c.Get(middleware.SessionKey).(*domain.Session)

	if err := h.adminService.SetRole(c.Request().Context(), session, id, req.Role); err != nil {
		metrics.AdminActionsTotal.WithLabelValues("set_role", setRoleResult(err)).Inc()
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("set_role", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}

// Delete removes the target account. No self-protection: an admin deleting
// their own account keeps a live session pointing at a gone account.
//
// @Summary      Delete an account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id  path  int  true  "Account ID"
// @Success      204  "account deleted"
// @Failure      400  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Failure      404  {object}  map[string]string
// @Router       /admin/accounts/{id} [delete]
func (h *AdminHandler) Delete(c echo.Context) error {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid account id"})
	}

	session, _ := c.Get(middleware.SessionKey).(*domain.Session)

	if err := h.adminService.DeleteAccount(c.Request().Context(), session, id); err != nil {
		metrics.AdminActionsTotal.WithLabelValues("delete_account", deleteResult(err)).Inc()
		return err
	}

	metrics.AdminActionsTotal.WithLabelValues("delete_account", "success").Inc()
	return c.NoContent(http.StatusNoContent)
}

func setRoleResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return "denied"
	case errors.Is(err, domain.ErrInvalidRole):
		return "invalid_role"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	}
	return "error"
}

func deleteResult(err error) string {
	switch {
	case errors.Is(err, domain.ErrAuthorizationDenied):
		return "denied"
	case errors.Is(err, domain.ErrAccountNotFound):
		return "not_found"
	}
	return "error"
}
