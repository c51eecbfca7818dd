package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/cvfolio/cvfolio/api/http/presenter"
	"github.com/cvfolio/cvfolio/pkg/product"
)

type ProductsHandler struct {
	svc product.UseCase
}

func NewProductsHandler(svc product.UseCase) *ProductsHandler {
	return &ProductsHandler{svc: svc}
}

// @Summary List products
// @Tags    products
// @Produce json
// @Success 200 {object} presenter.Response{data=[]product.Product}
// @Router  /products [get]
func (h *ProductsHandler) List(c *fiber.Ctx) error {
	items, err := h.svc.List(c.UserContext())
	if err != nil {
		return err
	}
	return presenter.List(c, items)
}

// @Summary Get product
// @Tags    products
// @Produce json
// @Param   id path int true "product id"
// @Success 200 {object} presenter.Response{data=product.Product}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /products/{id} [get]
func (h *ProductsHandler) Get(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Get(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Success(c, fiber.StatusOK, p)
}

// @Summary Create product
// @Tags    products
// @Accept  json
// @Produce json
// @Param   input body product.Input true "product"
// @Security BearerAuth
// @Success 201 {object} presenter.Response{data=product.Product}
// @Failure 400 {object} presenter.ErrorResponse
// @Router  /products [post]
func (h *ProductsHandler) Create(c *fiber.Ctx) error {
	var in product.Input
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	p, err := h.svc.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusCreated, "Produit créé", p)
}

// @Summary Update product
// @Tags    products
// @Accept  json
// @Produce json
// @Param   id path int true "product id"
// @Param   input body product.Input true "fields to change"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=product.Product}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /products/{id} [put]
func (h *ProductsHandler) Update(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	var in product.Input
	if err := c.BodyParser(&in); err != nil {
		return presenter.Error(c, fiber.StatusBadRequest, "JSON invalide")
	}
	p, err := h.svc.Update(c.UserContext(), id, in)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Produit mis à jour", p)
}

// @Summary Delete product
// @Tags    products
// @Param   id path int true "product id"
// @Security BearerAuth
// @Success 200 {object} presenter.Response{data=product.Product}
// @Failure 404 {object} presenter.ErrorResponse
// @Router  /products/{id} [delete]
func (h *ProductsHandler) Delete(c *fiber.Ctx) error {
	id, err := paramID(c)
	if err != nil {
		return err
	}
	p, err := h.svc.Delete(c.UserContext(), id)
	if err != nil {
		return err
	}
	return presenter.Message(c, fiber.StatusOK, "Produit supprimé", p)
}
