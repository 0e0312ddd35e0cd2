package shop

import (
	"github.com/google/uuid"

	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/response"
)

// postCreateOrder turns the cart into an order. It is mounted as its own
// stage ahead of the CSRF check and runs behind the auth guard.
func (a *App) postCreateOrder(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}

	cart, err := a.cartView(ctx, user)
	if err != nil {
		return response.Error(err)
	}
	if len(cart.Lines) == 0 {
		ctx.Flash().Add(FlashError, "Your cart is empty.")
		return response.Redirect("/cart")
	}

	order := store.Order{
		ID:        uuid.New(),
		UserID:    user.ID,
		Email:     user.Email,
		CreatedAt: a.now().UTC(),
	}
	for _, line := range cart.Lines {
		order.Items = append(order.Items, store.OrderItem{Product: line.Product, Quantity: line.Quantity})
	}
	if err := a.repos.Orders.Create(ctx, order); err != nil {
		return response.Error(err)
	}

	user.Cart = store.Cart{}
	if err := a.repos.Users.Update(ctx, user); err != nil {
		return response.Error(err)
	}

	a.logger.InfoContext(ctx, "order created",
		logger.Component("orders"),
		logger.UserID(user.ID.String()),
		logger.Key("order_id", order.ID.String()),
	)
	return response.Redirect("/orders")
}
