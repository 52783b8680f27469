// controllers/table.go
package controllers

import (
	"net/http"
	"strconv"

	"chiludos-backend/models"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

type TableController struct {
	tables *services.TableService
	resp   *utils.ErrorResponder
}

func NewTableController(tables *services.TableService, resp *utils.ErrorResponder) *TableController {
	return &TableController{tables: tables, resp: resp}
}

func (tc *TableController) GetTables(c *gin.Context) {
	active, err := queryBool(c, "active")
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}

	tables, err := tc.tables.List(c.Request.Context(), services.TableFilter{
		Status:   queryEnum[models.TableStatus](c, "status"),
		Location: queryEnum[models.Location](c, "location"),
		Active:   active,
	})
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", tables)
}

// GetAvailableTables is public so guests can pick a table before booking.
func (tc *TableController) GetAvailableTables(c *gin.Context) {
	minCapacity := 0
	if raw := c.Query("minCapacity"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			tc.resp.Respond(c, utils.ValidationError("minCapacity must be a number"))
			return
		}
		minCapacity = n
	}

	tables, err := tc.tables.ListAvailable(c.Request.Context(), minCapacity)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", tables)
}

func (tc *TableController) GetTable(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}

	table, err := tc.tables.Get(c.Request.Context(), id)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", table)
}

func (tc *TableController) GetTableByNumber(c *gin.Context) {
	number, err := strconv.Atoi(c.Param("number"))
	if err != nil {
		tc.resp.Respond(c, utils.ValidationError("Invalid table number"))
		return
	}

	table, err := tc.tables.GetByNumber(c.Request.Context(), number)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", table)
}

func (tc *TableController) CreateTable(c *gin.Context) {
	var input services.TableInput
	if err := bindJSON(c, &input); err != nil {
		tc.resp.Respond(c, err)
		return
	}

	table, err := tc.tables.Create(c.Request.Context(), input)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Table created", table)
}

func (tc *TableController) UpdateTable(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}

	var input services.TableUpdate
	if err := bindJSON(c, &input); err != nil {
		tc.resp.Respond(c, err)
		return
	}

	table, err := tc.tables.Update(c.Request.Context(), id, input)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Table updated", table)
}

func (tc *TableController) DeleteTable(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}

	result, err := tc.tables.Delete(c.Request.Context(), id)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Table deleted", result)
}

func (tc *TableController) ChangeStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}

	var input statusInput[models.TableStatus]
	if err := bindJSON(c, &input); err != nil {
		tc.resp.Respond(c, err)
		return
	}

	table, err := tc.tables.ChangeStatus(c.Request.Context(), id, input.Status)
	if err != nil {
		tc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Table status updated", table)
}
