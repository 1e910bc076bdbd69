package handler

import (
	"net/http"

	"backend/internal/middleware"
	"backend/internal/model"
	"backend/internal/service"
	"backend/pkg/apperr"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
)

// HandleOrderRequest carries the admin name recorded on the handled order.
// It defaults to the authenticated username when omitted.
type HandleOrderRequest struct {
	HandlerName string `json:"handler_name"`
}

type ApprovalHandler struct {
	approvalService service.ApprovalService
}

func NewApprovalHandler(approvalService service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{approvalService: approvalService}
}

func (h *ApprovalHandler) RegisterRoutes(router *gin.RouterGroup) {
	orders := router.Group("/api/orders")
	{
		orders.PUT("/:id/approve", middleware.RequireRole(model.RoleAdmin), h.ApproveOrder)
		orders.PUT("/:id/reject", middleware.RequireRole(model.RoleAdmin), h.RejectOrder)
	}
}

// ApproveOrder approves a pending order and deducts the supplier balance
// @Summary      Approve order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string              true   "Order ID"
// @Param        payload  body  HandleOrderRequest  false  "Handler payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/approve [put]
func (h *ApprovalHandler) ApproveOrder(c *gin.Context) {
	order, err := h.approvalService.Approve(c.Request.Context(), c.Param("id"), handlerName(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), response.Error(apperr.HTTPStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

// RejectOrder rejects a pending order without touching the supplier balance
// @Summary      Reject order
// @Tags         orders
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id       path  string              true   "Order ID"
// @Param        payload  body  HandleOrderRequest  false  "Handler payload"
// @Success      200  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      404  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Router       /api/orders/{id}/reject [put]
func (h *ApprovalHandler) RejectOrder(c *gin.Context) {
	order, err := h.approvalService.Reject(c.Request.Context(), c.Param("id"), handlerName(c))
	if err != nil {
		c.JSON(apperr.HTTPStatus(err), response.Error(apperr.HTTPStatus(err), err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, order))
}

func handlerName(c *gin.Context) string {
	var req HandleOrderRequest
	if err := c.ShouldBindJSON(&req); err == nil && req.HandlerName != "" {
		return req.HandlerName
	}
	return middleware.Actor(c)
}
