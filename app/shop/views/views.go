// Package views renders the shop's server-side pages.
//
// Every page under templates/ is parsed together with the shared layout and
// partials, so each page can define its own "content" block.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"path"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrymomot/shopfront/core/handler"
	"github.com/dmitrymomot/shopfront/core/response"
)

//go:embed templates
var files embed.FS

// Page names.
const (
	ShopIndex         = "shop/index"
	ShopProductList   = "shop/product-list"
	ShopProductDetail = "shop/product-detail"
	ShopCart          = "shop/cart"
	ShopCheckout      = "shop/checkout"
	ShopOrders        = "shop/orders"
	AdminEditProduct  = "admin/edit-product"
	AdminProducts     = "admin/products"
	AuthLogin         = "auth/login"
	AuthSignup        = "auth/signup"
	AuthReset         = "auth/reset"
	AuthNewPassword   = "auth/new-password"
	NotFound          = "404"
	ServerError       = "500"
	Status            = "status"
)

// Views holds one parsed template set per page.
type Views struct {
	pages map[string]*template.Template
}

// New parses the embedded templates. Prices are printed for tag.
func New(tag language.Tag) (*Views, error) {
	root, err := fs.Sub(files, "templates")
	if err != nil {
		return nil, err
	}

	printer := message.NewPrinter(tag)
	funcs := template.FuncMap{
		"price": func(cents int64) string {
			return printer.Sprint(currency.Symbol(currency.USD.Amount(float64(cents) / 100)))
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
		"dict": func(kv ...any) map[string]any {
			m := make(map[string]any, len(kv)/2)
			for i := 0; i+1 < len(kv); i += 2 {
				if k, ok := kv[i].(string); ok {
					m[k] = kv[i+1]
				}
			}
			return m
		},
	}

	base, err := template.New("layout").Funcs(funcs).ParseFS(root, "layout.html", "partials/*.html")
	if err != nil {
		return nil, fmt.Errorf("views: parse layout: %w", err)
	}

	pages, err := fs.Glob(root, "pages/*/*.html")
	if err != nil {
		return nil, err
	}
	top, err := fs.Glob(root, "pages/*.html")
	if err != nil {
		return nil, err
	}

	v := &Views{pages: make(map[string]*template.Template)}
	for _, file := range append(pages, top...) {
		t, err := base.Clone()
		if err != nil {
			return nil, err
		}
		if _, err := t.ParseFS(root, file); err != nil {
			return nil, fmt.Errorf("views: parse %s: %w", file, err)
		}
		name := strings.TrimSuffix(strings.TrimPrefix(file, "pages/"), path.Ext(file))
		v.pages[name] = t
	}
	return v, nil
}

// Render renders page inside the layout with 200 OK.
func (v *Views) Render(page string, data any) handler.Response {
	return v.RenderWithStatus(page, data, http.StatusOK)
}

// RenderWithStatus renders page inside the layout.
func (v *Views) RenderWithStatus(page string, data any, status int) handler.Response {
	t, ok := v.pages[page]
	if !ok {
		return response.Error(fmt.Errorf("views: unknown page %q", page))
	}
	return response.TemplateNameWithStatus(t, "layout", data, status)
}

// Has reports whether page exists.
func (v *Views) Has(page string) bool {
	_, ok := v.pages[page]
	return ok
}
