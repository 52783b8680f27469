// controllers/employee.go
package controllers

import (
	"net/http"

	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

type EmployeeStatusInput struct {
	IsActive *bool `json:"isActive" binding:"required"`
}

type EmployeeController struct {
	employees *services.EmployeeService
	resp      *utils.ErrorResponder
}

func NewEmployeeController(employees *services.EmployeeService, resp *utils.ErrorResponder) *EmployeeController {
	return &EmployeeController{employees: employees, resp: resp}
}

func (ec *EmployeeController) GetEmployees(c *gin.Context) {
	employees, err := ec.employees.List(c.Request.Context())
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", employees)
}

func (ec *EmployeeController) GetEmployee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}

	employee, err := ec.employees.Get(c.Request.Context(), id)
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", employee)
}

// AddEmployee returns the initial password in the body. It is not stored
// anywhere in plain text.
func (ec *EmployeeController) AddEmployee(c *gin.Context) {
	var input services.CreateEmployeeInput
	if err := bindJSON(c, &input); err != nil {
		ec.resp.Respond(c, err)
		return
	}

	created, err := ec.employees.Create(c.Request.Context(), input)
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Employee created", created)
}

func (ec *EmployeeController) UpdateEmployee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}

	var input services.UpdateEmployeeInput
	if err := bindJSON(c, &input); err != nil {
		ec.resp.Respond(c, err)
		return
	}

	employee, err := ec.employees.Update(c.Request.Context(), id, input)
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Employee updated", employee)
}

func (ec *EmployeeController) DeleteEmployee(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}

	result, err := ec.employees.Delete(c.Request.Context(), id)
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Employee deleted", result)
}

func (ec *EmployeeController) SetEmployeeStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}

	var input EmployeeStatusInput
	if err := bindJSON(c, &input); err != nil {
		ec.resp.Respond(c, err)
		return
	}

	employee, err := ec.employees.SetActive(c.Request.Context(), id, *input.IsActive)
	if err != nil {
		ec.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Employee status updated", employee)
}
