// controllers/order.go
package controllers

import (
	"net/http"

	"chiludos-backend/middlewares"
	"chiludos-backend/models"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	orders *services.OrderService
	resp   *utils.ErrorResponder
}

func NewOrderController(orders *services.OrderService, resp *utils.ErrorResponder) *OrderController {
	return &OrderController{orders: orders, resp: resp}
}

// CreateOrder places an order on behalf of the authenticated account.
func (oc *OrderController) CreateOrder(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}

	var input services.CreateOrderInput
	if err := bindJSON(c, &input); err != nil {
		oc.resp.Respond(c, err)
		return
	}

	order, err := oc.orders.Create(c.Request.Context(), userID, input)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Order created", order)
}

// GetOrders supports ?status=, ?date=YYYY-MM-DD and ?tableId=
func (oc *OrderController) GetOrders(c *gin.Context) {
	filter := services.OrderFilter{Status: queryEnum[models.OrderStatus](c, "status")}

	if raw := c.Query("date"); raw != "" {
		day, ok := utils.ParseDate(raw)
		if !ok {
			oc.resp.Respond(c, utils.ValidationError("Date must use the YYYY-MM-DD format"))
			return
		}
		filter.Date = &day
	}

	tableID, err := queryUUID(c, "tableId")
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}
	filter.TableID = tableID

	orders, err := oc.orders.List(c.Request.Context(), filter)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", orders)
}

func (oc *OrderController) GetMyOrders(c *gin.Context) {
	userID, err := middlewares.CurrentUserID(c)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}

	orders, err := oc.orders.ListForUser(c.Request.Context(), userID)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", orders)
}

func (oc *OrderController) GetOrder(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}

	order, err := oc.orders.Get(c.Request.Context(), id)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", order)
}

func (oc *OrderController) UpdateOrderStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}

	var input statusInput[models.OrderStatus]
	if err := bindJSON(c, &input); err != nil {
		oc.resp.Respond(c, err)
		return
	}

	order, err := oc.orders.UpdateStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		oc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Order status updated", order)
}
