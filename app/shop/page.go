package shop

import (
	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/middleware"
)

// Page is the data every view receives.
type Page struct {
	Title           string
	Path            string
	IsAuthenticated bool
	CSRFToken       string
	ErrorMessage    string
	InfoMessage     string
	Data            any
}

// page collects the common locals and drains the pending flash messages.
func page(ctx *Context, title, path string, data any) Page {
	flashes := ctx.Flash()
	return Page{
		Title:           title,
		Path:            path,
		IsAuthenticated: ctx.IsAuthenticated(),
		CSRFToken:       middleware.CSRFToken(ctx),
		ErrorMessage:    flashes.First(FlashError),
		InfoMessage:     flashes.First(FlashInfo),
		Data:            data,
	}
}

// Pagination describes the page links under a product list.
type Pagination struct {
	CurrentPage     int
	PreviousPage    int
	NextPage        int
	LastPage        int
	HasPreviousPage bool
	HasNextPage     bool
}

func paginate(current, perPage int, total int64) Pagination {
	last := 1
	if perPage > 0 && total > 0 {
		last = int((total + int64(perPage) - 1) / int64(perPage))
	}
	return Pagination{
		CurrentPage:     current,
		PreviousPage:    current - 1,
		NextPage:        current + 1,
		LastPage:        last,
		HasPreviousPage: current > 1,
		HasNextPage:     int64(perPage)*int64(current) < total,
	}
}

type pageQuery struct {
	Page int `query:"page"`
}

// pageNumber reads ?page=, defaulting to 1.
func pageNumber(ctx *Context) int {
	var q pageQuery
	if err := ctx.BindQuery(&q); err != nil || q.Page < 1 {
		return 1
	}
	return q.Page
}

// ProductList is the data of the catalog pages.
type ProductList struct {
	Products   []store.Product
	Pagination Pagination
}

// ProductDetail is the data of a product page.
type ProductDetail struct {
	Product store.Product
}

// CartLine is a cart entry joined with its product.
type CartLine struct {
	Product  store.Product
	Quantity int
}

// CartView is the data of the cart and checkout pages.
type CartView struct {
	Lines []CartLine
	Total int64
}

// OrderList is the data of the orders page.
type OrderList struct {
	Orders []store.Order
}

// ProductForm carries the product editor fields.
type ProductForm struct {
	ProductID   string `form:"productId"`
	Title       string `form:"title"`
	Price       string `form:"price"`
	Description string `form:"description"`
}

// ProductEditor is the data of the add/edit product page.
type ProductEditor struct {
	Editing bool
	Form    ProductForm
}

// Credentials is the data of the login and signup pages.
type Credentials struct {
	Email string
}

// NewPassword is the data of the password reset form.
type NewPassword struct {
	UserID string
	Token  string
}

// StatusPage is the data of the generic error page.
type StatusPage struct {
	Status int
	Text   string
}
