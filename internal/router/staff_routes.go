package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/room-rental-management/internal/handler"
	"github.com/iliyamo/room-rental-management/internal/middleware"
	"github.com/iliyamo/room-rental-management/internal/model"
)

// RegisterStaffRoutes sets up inventory management and the staff rental
// views.  Employees and admins share the same permissions.
func RegisterStaffRoutes(e *echo.Echo,
	rooms *handler.StaffRoomHandler,
	furniture *handler.StaffFurnitureHandler,
	renting *handler.StaffRentingHandler,
	auth echo.MiddlewareFunc,
) {
	staff := middleware.RequireRole(model.RoleEmployee, model.RoleAdmin)
	g := e.Group("/v1", auth, staff)

	g.GET("/rentals/pending", renting.PendingCash)
	g.GET("/rentals/in-progress", renting.InProgress)
	g.POST("/payments/:id/confirm", renting.ConfirmPayment)

	rm := g.Group("/staff/rooms")
	rm.GET("", rooms.List)
	rm.GET("/:id", rooms.Get)
	rm.POST("", rooms.Create)
	rm.PUT("/:id", rooms.Update)
	rm.DELETE("/:id", rooms.Delete)

	fn := g.Group("/staff/furniture")
	fn.GET("", furniture.List)
	fn.GET("/:id", furniture.Get)
	fn.POST("", furniture.Create)
	fn.PUT("/:id", furniture.Update)
	fn.DELETE("/:id", furniture.Delete)
}
