package store

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered customer. Products they create are owned by them.
type User struct {
	ID           uuid.UUID `bson:"_id"`
	Email        string    `bson:"email"`
	PasswordHash []byte    `bson:"password_hash"`
	Cart         Cart      `bson:"cart"`

	ResetToken     string    `bson:"reset_token,omitempty"`
	ResetExpiresAt time.Time `bson:"reset_expires_at,omitempty"`

	CreatedAt time.Time `bson:"created_at"`
}

// HasValidResetToken reports whether token matches an unexpired reset token.
func (u User) HasValidResetToken(token string, now time.Time) bool {
	return token != "" && u.ResetToken == token && now.Before(u.ResetExpiresAt)
}

// Cart holds product references and quantities.
type Cart struct {
	Items []CartItem `bson:"items"`
}

// CartItem is one line of a cart.
type CartItem struct {
	ProductID uuid.UUID `bson:"product_id"`
	Quantity  int       `bson:"quantity"`
}

// Add increments the quantity of productID, appending a new line when needed.
func (c *Cart) Add(productID uuid.UUID) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity++
			return
		}
	}
	c.Items = append(c.Items, CartItem{ProductID: productID, Quantity: 1})
}

// Remove drops the line of productID.
func (c *Cart) Remove(productID uuid.UUID) {
	items := c.Items[:0]
	for _, it := range c.Items {
		if it.ProductID != productID {
			items = append(items, it)
		}
	}
	c.Items = items
}

// ProductIDs returns the referenced product ids in cart order.
func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, len(c.Items))
	for i, it := range c.Items {
		ids[i] = it.ProductID
	}
	return ids
}

// IsEmpty reports whether the cart has no lines.
func (c Cart) IsEmpty() bool { return len(c.Items) == 0 }

// Product is a catalog entry. Price is in cents.
type Product struct {
	ID          uuid.UUID `bson:"_id"`
	Title       string    `bson:"title"`
	Price       int64     `bson:"price"`
	Description string    `bson:"description"`
	// ImagePath is the storage path of the image; ImageURL is where clients fetch it.
	ImagePath string    `bson:"image_path"`
	ImageURL  string    `bson:"image_url"`
	UserID    uuid.UUID `bson:"user_id"`
	CreatedAt time.Time `bson:"created_at"`
}

// OwnedBy reports whether userID created the product.
func (p Product) OwnedBy(userID uuid.UUID) bool {
	return p.UserID == userID
}

// Order is an immutable snapshot of a checked-out cart.
type Order struct {
	ID        uuid.UUID   `bson:"_id"`
	Items     []OrderItem `bson:"items"`
	UserID    uuid.UUID   `bson:"user_id"`
	Email     string      `bson:"email"`
	CreatedAt time.Time   `bson:"created_at"`
}

// OrderItem keeps a copy of the product as it was when ordered.
type OrderItem struct {
	Product  Product `bson:"product"`
	Quantity int     `bson:"quantity"`
}

// Total returns the order sum in cents.
func (o Order) Total() int64 {
	var total int64
	for _, it := range o.Items {
		total += it.Product.Price * int64(it.Quantity)
	}
	return total
}
