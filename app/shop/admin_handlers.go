package shop

import (
	"errors"
	"math"
	"net/http"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"

	"github.com/dmitrymomot/shopfront/app/shop/store"
	"github.com/dmitrymomot/shopfront/app/shop/views"
	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/logger"
	"github.com/dmitrymomot/shopfront/core/response"
	"github.com/dmitrymomot/shopfront/core/upload"
	"github.com/dmitrymomot/shopfront/middleware"
)

func (a *App) getAddProduct(ctx *Context) handler.Response {
	return a.views.Render(views.AdminEditProduct, page(ctx, "Add Product", "/admin/add-product", ProductEditor{}))
}

func (a *App) postAddProduct(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	var form ProductForm
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	invalid := func(msg string) handler.Response {
		return a.rerenderEditor(ctx, "Add Product", "/admin/add-product", ProductEditor{Form: form}, msg)
	}

	image, ok := middleware.UploadResult(ctx).(upload.Accepted)
	if !ok {
		return invalid(errNotAnImage.Message)
	}
	price, msg := validateProduct(&form)
	if msg != "" {
		return invalid(msg)
	}

	p := store.Product{
		ID:          uuid.New(),
		Title:       form.Title,
		Price:       price,
		Description: form.Description,
		ImagePath:   image.File.RelativePath,
		ImageURL:    image.URL,
		UserID:      user.ID,
		CreatedAt:   a.now().UTC(),
	}
	if err := a.repos.Products.Create(ctx, p); err != nil {
		return response.Error(err)
	}
	middleware.ClaimUpload(ctx)
	return response.Redirect("/admin/products")
}

func (a *App) getAdminProducts(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	products, err := a.repos.Products.ListByOwner(ctx, user.ID)
	if err != nil {
		return response.Error(err)
	}
	return a.views.Render(views.AdminProducts, page(ctx, "Admin Products", "/admin/products", ProductList{Products: products}))
}

type editorQuery struct {
	Edit bool `query:"edit"`
}

func (a *App) getEditProduct(ctx *Context) handler.Response {
	var q editorQuery
	if err := ctx.BindQuery(&q); err != nil || !q.Edit {
		return response.Redirect("/")
	}
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	var ref productRef
	if err := ctx.BindPath(&ref); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}
	p, err := a.productByParam(ctx, ref.ProductID)
	if errors.Is(err, store.ErrNotFound) || (err == nil && !p.OwnedBy(user.ID)) {
		return response.Redirect("/")
	}
	if err != nil {
		return response.Error(err)
	}

	return a.views.Render(views.AdminEditProduct, page(ctx, "Edit Product", "/admin/edit-product", ProductEditor{
		Editing: true,
		Form: ProductForm{
			ProductID:   p.ID.String(),
			Title:       p.Title,
			Price:       strconv.FormatFloat(float64(p.Price)/100, 'f', 2, 64),
			Description: p.Description,
		},
	}))
}

func (a *App) postEditProduct(ctx *Context) handler.Response {
	user, err := a.currentUser(ctx)
	if err != nil {
		return response.Error(err)
	}
	var form ProductForm
	if err := ctx.Bind(&form); err != nil {
		return response.Error(response.ErrBadRequest.WithError(err))
	}

	p, err := a.productByParam(ctx, form.ProductID)
	if err != nil {
		return response.Error(httpError(err))
	}
	if !p.OwnedBy(user.ID) {
		return response.Redirect("/")
	}

	editor := ProductEditor{Editing: true, Form: form}
	res := middleware.UploadResult(ctx)
	if _, rejected := res.(upload.Rejected); rejected {
		return a.rerenderEditor(ctx, "Edit Product", "/admin/edit-product", editor, errNotAnImage.Message)
	}
	price, msg := validateProduct(&form)
	if msg != "" {
		editor.Form = form
		return a.rerenderEditor(ctx, "Edit Product", "/admin/edit-product", editor, msg)
	}

	previous := p.ImagePath
	p.Title, p.Price, p.Description = form.Title, price, form.Description
	if image, ok := res.(upload.Accepted); ok {
		p.ImagePath, p.ImageURL = image.File.RelativePath, image.URL
	}
	if err := a.repos.Products.Update(ctx, p); err != nil {
		return response.Error(err)
	}
	middleware.ClaimUpload(ctx)
	if p.ImagePath != previous {
		a.deleteImage(ctx, previous)
	}
	return response.Redirect("/admin/products")
}

func (a *App) postDeleteProduct(ctx *Context) handler.Response {
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
	if !p.OwnedBy(user.ID) {
		return response.Error(response.ErrForbidden)
	}

	if err := a.repos.Products.Delete(ctx, p.ID); err != nil {
		return response.Error(err)
	}
	a.deleteImage(ctx, p.ImagePath)
	return response.Redirect("/admin/products")
}

func (a *App) rerenderEditor(ctx *Context, title, path string, editor ProductEditor, msg string) handler.Response {
	data := page(ctx, title, path, editor)
	data.ErrorMessage = msg
	return a.views.RenderWithStatus(views.AdminEditProduct, data, http.StatusUnprocessableEntity)
}

// maxPrice bounds prices so cents fit an int64 with room for order totals.
const maxPrice = 1e9

// validateProduct trims the form in place and returns the price in cents,
// or a message for the user.
func validateProduct(form *ProductForm) (int64, string) {
	form.Title = strings.TrimSpace(form.Title)
	form.Description = strings.TrimSpace(form.Description)
	form.Price = strings.TrimSpace(form.Price)

	if utf8.RuneCountInString(form.Title) < 3 {
		return 0, "Title must be at least 3 characters long."
	}
	f, err := strconv.ParseFloat(form.Price, 64)
	if err != nil || math.IsNaN(f) || f <= 0 || f >= maxPrice {
		return 0, "Price must be a positive number."
	}
	cents := int64(math.Round(f * 100))
	if cents < 1 {
		return 0, "Price must be a positive number."
	}
	if n := utf8.RuneCountInString(form.Description); n < 5 || n > 400 {
		return 0, "Description must be between 5 and 400 characters long."
	}
	return cents, ""
}

// deleteImage removes a product image. Failures are only logged.
func (a *App) deleteImage(ctx *Context, path string) {
	if path == "" {
		return
	}
	if err := a.storage.Delete(ctx, path); err != nil {
		a.logger.WarnContext(ctx, "product image could not be removed",
			logger.Component("storage"),
			logger.Key("path", path),
			logger.Error(err),
		)
	}
}
