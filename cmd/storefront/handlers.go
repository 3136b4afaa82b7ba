package main

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/mercadito-dev/storefront/internal/cart"
	"github.com/mercadito-dev/storefront/internal/catalog"
	"github.com/mercadito-dev/storefront/internal/checkout"
	"github.com/mercadito-dev/storefront/internal/httpx"
	"github.com/mercadito-dev/storefront/internal/order"
	"github.com/mercadito-dev/storefront/internal/user"
)

//
// ===== DTOs =====
//

// RegisterRequest payload for account creation.
// swagger:model RegisterRequest
type RegisterRequest struct {
	Email    string `json:"email"    example:"ada@example.com"`
	Name     string `json:"name"     example:"Ada"`
	Password string `json:"password" example:"hunter2!"`
}

// LoginRequest payload for authentication.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AddToCartRequest payload for putting a product in the cart.
// swagger:model AddToCartRequest
type AddToCartRequest struct {
	ProductID string `json:"product_id" example:"4e7d4e5c-5cb9-4a3f-9f21-7e1a4f9f2b2a"`
}

// QuantityRequest adjusts a single cart item.
// swagger:model QuantityRequest
type QuantityRequest struct {
	Action string `json:"action" example:"increase"`
}

// PaymentMethodRequest selects the payment path for checkout.
// swagger:model PaymentMethodRequest
type PaymentMethodRequest struct {
	PaymentMethod string `json:"payment_method" example:"cash_on_delivery"`
}

// OnlineConfirmRequest is the self-reported online payment confirmation.
// swagger:model OnlineConfirmRequest
type OnlineConfirmRequest struct {
	PaymentDone *bool `json:"payment_done"`
}

// OrderStatusRequest flips an order's delivery status.
// swagger:model OrderStatusRequest
type OrderStatusRequest struct {
	Status string `json:"status" example:"Delivered"`
}

func currentUserID(c *gin.Context) (string, bool) {
	uid := c.GetString(httpx.UserIDKey)
	return uid, uid != ""
}

func pagination(c *gin.Context) (limit, offset int) {
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	return limit, offset
}

//
// ===== identity =====
//

func registerHandler(users user.Repository, issuer *httpx.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		if req.Email == "" || req.Name == "" || req.Password == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email, name and password are required"})
			return
		}
		hash, err := user.HashPassword(req.Password)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "hash error"})
			return
		}
		u := &user.User{
			ID:           uuid.NewString(),
			Email:        req.Email,
			Name:         req.Name,
			PasswordHash: hash,
		}
		if err := users.Create(c.Request.Context(), u); err != nil {
			if errors.Is(err, user.ErrAlreadyExist) {
				c.JSON(http.StatusConflict, gin.H{"error": "email already registered"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "create error"})
			return
		}
		token, err := issuer.Issue(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"token": token, "user": u})
	}
}

func loginHandler(users user.Repository, issuer *httpx.TokenIssuer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		u, err := users.GetByEmail(c.Request.Context(), req.Email)
		if err != nil || !user.CheckPassword(u.PasswordHash, req.Password) {
			// same answer for unknown email and wrong password
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		token, err := issuer.Issue(u.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "token error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"token": token, "user": u})
	}
}

//
// ===== catalog =====
//

func listProductsHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := pagination(c)
		items, err := products.List(c.Request.Context(), catalog.Query{Limit: limit, Offset: offset})
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if items == nil {
			items = []catalog.Product{}
		}
		c.JSON(http.StatusOK, catalog.ListResponse{Limit: limit, Offset: offset, Items: items})
	}
}

func getProductHandler(products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := products.GetByID(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		c.JSON(http.StatusOK, p)
	}
}

//
// ===== cart =====
//

func getCartHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		sum, err := svc.Summarize(c.Request.Context(), uid)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart error"})
			return
		}
		c.JSON(http.StatusOK, sum)
	}
}

func addToCartHandler(carts cart.Repository, products catalog.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req AddToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.ProductID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "product_id is required"})
			return
		}
		p, err := products.GetByID(c.Request.Context(), req.ProductID)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
			return
		}
		item, err := carts.Add(c.Request.Context(), uid, p.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart error"})
			return
		}
		c.JSON(http.StatusCreated, item)
	}
}

func updateQuantityHandler(carts cart.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req QuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}

		var (
			item *cart.Item
			err  error
		)
		switch req.Action {
		case "increase":
			item, err = carts.Increase(c.Request.Context(), uid, c.Param("id"))
		case "decrease":
			item, err = carts.Decrease(c.Request.Context(), uid, c.Param("id"))
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "action must be increase or decrease"})
			return
		}
		if err != nil {
			if errors.Is(err, cart.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "cart item not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "cart error"})
			return
		}
		c.JSON(http.StatusOK, item)
	}
}

//
// ===== checkout =====
//

func choosePaymentHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req PaymentMethodRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		method, sum, err := svc.SelectMethod(c.Request.Context(), uid, req.PaymentMethod)
		if err != nil {
			if errors.Is(err, checkout.ErrInvalidMethod) {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid payment method"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "checkout error"})
			return
		}
		next := "/checkout/cash"
		if method == checkout.OnlinePayment {
			next = "/checkout/online"
		}
		c.JSON(http.StatusOK, gin.H{
			"payment_method": method,
			"total":          sum.Total,
			"next":           next,
		})
	}
}

func commitResponse(c *gin.Context, orders []order.Order, message string) {
	c.JSON(http.StatusCreated, gin.H{"orders": orders, "message": message})
}

func commitError(c *gin.Context, err error) {
	if errors.Is(err, order.ErrEmptyCart) {
		c.JSON(http.StatusConflict, gin.H{"error": "no items in cart"})
		return
	}
	// rolled back, nothing was written; safe to retry
	c.JSON(http.StatusInternalServerError, gin.H{"error": "order could not be placed, please retry"})
}

func cashConfirmHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		orders, err := svc.ConfirmCash(c.Request.Context(), uid)
		if err != nil {
			commitError(c, err)
			return
		}
		commitResponse(c, orders, "order placed, you will pay on delivery")
	}
}

func onlineConfirmHandler(svc *checkout.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req OnlineConfirmRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.PaymentDone == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "payment_done is required"})
			return
		}
		orders, err := svc.ConfirmOnline(c.Request.Context(), uid, *req.PaymentDone)
		if err != nil {
			if errors.Is(err, checkout.ErrPaymentIncomplete) {
				// not an error: the user stays on the confirmation step
				c.JSON(http.StatusOK, gin.H{"message": "payment not completed, please complete the payment to proceed"})
				return
			}
			commitError(c, err)
			return
		}
		commitResponse(c, orders, "order placed, thank you for your payment")
	}
}

//
// ===== orders =====
//

func listOrdersHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		limit, offset := pagination(c)
		out, err := orders.ListByUser(c.Request.Context(), uid, limit, offset)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "list error"})
			return
		}
		if out == nil {
			out = []order.Order{}
		}
		c.JSON(http.StatusOK, gin.H{"items": out, "limit": limit, "offset": offset})
	}
}

func updateOrderStatusHandler(orders order.Repository) gin.HandlerFunc {
	return func(c *gin.Context) {
		uid, ok := currentUserID(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		var req OrderStatusRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid json"})
			return
		}
		st, ok := order.ParseStatus(req.Status)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		if err := orders.UpdateStatus(c.Request.Context(), uid, c.Param("id"), st); err != nil {
			if errors.Is(err, order.ErrNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "update error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"id": c.Param("id"), "status": st})
	}
}
