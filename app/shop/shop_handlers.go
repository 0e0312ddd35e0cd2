package shop

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/app/shop/views"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/response"
)

const invoiceContentType = "text/plain; charset=utf-8"

type productRef struct {
	ProductID string `form:"productId" path:"productId"`
}

type invoiceRequest struct {
	OrderID  string `path:"orderId"`
	Download bool   `query:"download"`
}

func (a *App) getIndex(ctx *Context) handler.Response {
	return a.listProducts(ctx, views.ShopIndex, "Shop", "/")
}

func (a *App) getProducts(ctx *Context) handler.Response {
	return a.listProducts(ctx, views.ShopProductList, "All Products", "/products")
}

func (a *App) listProducts(ctx *Context, view, title, path string) handler.Response {
	current := pageNumber(ctx)
	perPage := a.config.ItemsPerPage

	total, err := a.repos.Products.Count(ctx)
	if err != nil {
		return response.Error(err)
	}
	products, err := a.repos.Products.List(ctx, (current-1)*perPage, perPage)
	if err != nil {
		return response.Error(err)
	}

	return a.views.Render(view, page(ctx, title, path, ProductList{
		Products:   products,
		Pagination: paginate(current, perPage, total),
	}))
}

func (a *App) getProduct(ctx *Context) handler.Response {
	var ref productRef
	if err := ctx.BindPath(&ref); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	p, err := a.productByParam(ctx, ref.ProductID)
	if err != nil {
		return response.Error(httpError(err))
	}
	return a.views.Render(views.ShopProductDetail, page(ctx, p.Title, "/products", ProductDetail{Product: p}))
}

func (a *App) getCart(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	cart, err := a.cartView(ctx, user)
	if err != nil {
		return response.Error(err)
	}
	return a.views.Render(views.ShopCart, page(ctx, "Your Cart", "/cart", cart))
}

func (a *App) postCart(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	var form productRef
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	p, err := a.productByParam(ctx, form.ProductID)
	if err != nil {
		return response.Error(httpError(err))
	}

	user.Cart.Add(p.ID)
	if err := a.repos.Users.Update(ctx, user); err != nil {
		return response.Error(err)
	}
	return response.Redirect("/cart")
}

func (a *App) postCartDeleteItem(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	var form productRef
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	id, err := uuid.Parse(form.ProductID)
	if err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	user.Cart.Remove(id)
	if err := a.repos.Users.Update(ctx, user); err != nil {
		return response.Error(err)
	}
	return response.Redirect("/cart")
}

func (a *App) getCheckout(ctx *Context) handler.Response {
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
	return a.views.Render(views.ShopCheckout, page(ctx, "Checkout", "/checkout", cart))
}

func (a *App) getOrders(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	orders, err := a.repos.Orders.ListByUser(ctx, user.ID)
	if err != nil {
		return response.Error(err)
	}
	return a.views.Render(views.ShopOrders, page(ctx, "Your Orders", "/orders", OrderList{Orders: orders}))
}

// getInvoice answers the order owner with a plain text invoice, shown
// inline unless ?download=true.
func (a *App) getInvoice(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	var req invoiceRequest
	if err := ctx.BindQuery(&req); err != nil {
		req.Download = false
	}
	if err := ctx.BindPath(&req); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	id, err := uuid.Parse(req.OrderID)
	if err != nil {
		return response.Error(response.ErrNotFound)
	}
	order, err := a.repos.Orders.ByID(ctx, id)
	if err != nil {
		return response.Error(httpError(err))
	}
	if order.UserID != user.ID {
		return response.Error(response.ErrForbidden)
	}

	filename := "invoice-" + order.ID.String() + ".txt"
	body := []byte(a.invoice(order))
	if req.Download {
		return response.WithCache(response.Attachment(body, filename, invoiceContentType), 0)
	}
	return response.WithCache(response.Inline(body, filename, invoiceContentType), 0)
}

func (a *App) invoice(o store.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Invoice\n-----------------------\n")
	fmt.Fprintf(&b, "Order: %s\nDate: %s\nCustomer: %s\n\n", o.ID, o.CreatedAt.UTC().Format("2006-01-02"), o.Email)
	for _, it := range o.Items {
		fmt.Fprintf(&b, "%s - %d x %s\n", it.Product.Title, it.Quantity, formatCents(it.Product.Price))
	}
	fmt.Fprintf(&b, "---\nTotal Price: %s\n", formatCents(o.Total()))
	return b.String()
}

func formatCents(c int64) string {
	return fmt.Sprintf("$%d.%02d", c/100, c%100)
}

// cartView joins the cart with the products that still exist, in cart order.
func (a *App) cartView(ctx *Context, user store.User) (CartView, error) {
	if user.Cart.IsEmpty() {
		return CartView{}, nil
	}
	products, err := a.repos.Products.ByIDs(ctx, user.Cart.ProductIDs())
	if err != nil {
		return CartView{}, err
	}
	byID := make(map[uuid.UUID]store.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var view CartView
	for _, it := range user.Cart.Items {
		p, ok := byID[it.ProductID]
		if !ok {
			continue
		}
		view.Lines = append(view.Lines, CartLine{Product: p, Quantity: it.Quantity})
		view.Total += p.Price * int64(it.Quantity)
	}
	return view, nil
}

// productByParam loads a product by its textual id. Malformed ids are
// reported as missing.
func (a *App) productByParam(ctx *Context, raw string) (store.Product, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return store.Product{}, store.ErrNotFound
	}
	return a.repos.Products.ByID(ctx, id)
}

// httpError maps missing documents to 404.
func httpError(err error) error {
	if errors.Is(err, store.ErrNotFound) {
		return response.ErrNotFound.WithError(err)
	}
	return err
}

func (a *App) currentUser(ctx *Context) (store.User, error) {
	u, ok := ctx.User()
	if !ok {
		return store.User{}, ErrNoUser
	}
	return u, nil
}
