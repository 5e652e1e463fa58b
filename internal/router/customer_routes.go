package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/handler"
	"github.com/iliyamo/room-rental-management/internal/middleware"
	"github.com/iliyamo/room-rental-management/internal/model"
)

// RegisterCustomerRoutes sets up the customer rental workflow.  Every
// route requires a valid access token with the customer role.
func RegisterCustomerRoutes(e *echo.Echo, h *handler.CustomerRentingHandler, auth echo.MiddlewareFunc) {
	g := e.Group("/v1", auth, middleware.RequireRole(model.RoleCustomer))

	g.POST("/rentals", h.Book)
	g.GET("/rentals/checkout/:id", h.Checkout)
	g.POST("/rentals/pay", h.Pay)
	g.POST("/rentals/cancel-pending", h.CancelPending)
	g.GET("/my-rentals", h.MyRentals)
}
