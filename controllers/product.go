// controllers/product.go
package controllers

import (
	"net/http"

	"chiludos-backend/models"
	"chiludos-backend/services"
	"chiludos-backend/utils"

	"github.com/gin-gonic/gin"
)

type AvailabilityInput struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}

type ProductController struct {
	products *services.ProductService
	resp     *utils.ErrorResponder
}

func NewProductController(products *services.ProductService, resp *utils.ErrorResponder) *ProductController {
	return &ProductController{products: products, resp: resp}
}

// GetProducts lists the menu, optionally filtered by ?category= and ?available=
func (pc *ProductController) GetProducts(c *gin.Context) {
	available, err := queryBool(c, "available")
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}

	products, err := pc.products.List(c.Request.Context(), services.ProductFilter{
		Category:  queryEnum[models.Category](c, "category"),
		Available: available,
	})
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", products)
}

func (pc *ProductController) GetProductsByCategory(c *gin.Context) {
	products, err := pc.products.ListByCategory(c.Request.Context(), models.Category(c.Param("category")))
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", products)
}

func (pc *ProductController) GetProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}

	product, err := pc.products.Get(c.Request.Context(), id)
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "", product)
}

func (pc *ProductController) CreateProduct(c *gin.Context) {
	var input services.ProductInput
	if err := bindJSON(c, &input); err != nil {
		pc.resp.Respond(c, err)
		return
	}

	product, err := pc.products.Create(c.Request.Context(), input)
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusCreated, "Product created", product)
}

func (pc *ProductController) UpdateProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}

	var input services.ProductUpdate
	if err := bindJSON(c, &input); err != nil {
		pc.resp.Respond(c, err)
		return
	}

	product, err := pc.products.Update(c.Request.Context(), id, input)
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Product updated", product)
}

func (pc *ProductController) DeleteProduct(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}

	result, err := pc.products.Delete(c.Request.Context(), id)
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Product deleted", result)
}

func (pc *ProductController) SetAvailability(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}

	var input AvailabilityInput
	if err := bindJSON(c, &input); err != nil {
		pc.resp.Respond(c, err)
		return
	}

	product, err := pc.products.SetAvailability(c.Request.Context(), id, *input.IsAvailable)
	if err != nil {
		pc.resp.Respond(c, err)
		return
	}
	utils.RespondWithData(c, http.StatusOK, "Product availability updated", product)
}
