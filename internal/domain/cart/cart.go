// Package cart holds the storefront shopping cart. A cart lives inside a
// customer session and is never persisted as a database row.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Item is one line of the cart, keyed by product id
type Item struct {
	ProductID   uuid.UUID       `json:"product_id"`
	ProductName string          `json:"product_name"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
	ImageURL    string          `json:"image_url,omitempty"`
}

// Total returns price times quantity for the line
func (i Item) Total() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Cart is an ordered list of items with at most one line per product
type Cart struct {
	Items []Item `json:"items"`
}

// New returns an empty cart
func New() *Cart {
	return &Cart{Items: []Item{}}
}

// Add merges qty into the existing line for productID, or appends a new line
func (c *Cart) Add(productID uuid.UUID, name string, price decimal.Decimal, qty int, imageURL string) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity += qty
		return
	}
	c.Items = append(c.Items, Item{
		ProductID:   productID,
		ProductName: name,
		Price:       price,
		Quantity:    qty,
		ImageURL:    imageURL,
	})
}

// Update sets the absolute quantity of a line. A quantity of zero or less
// removes the line. Unknown products are ignored.
func (c *Cart) Update(productID uuid.UUID, qty int) {
	if qty <= 0 {
		c.Remove(productID)
		return
	}
	if i := c.indexOf(productID); i >= 0 {
		c.Items[i].Quantity = qty
	}
}

// Remove drops the line for productID
func (c *Cart) Remove(productID uuid.UUID) {
	if i := c.indexOf(productID); i >= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
	}
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// Get returns the line for productID
func (c *Cart) Get(productID uuid.UUID) (Item, bool) {
	if i := c.indexOf(productID); i >= 0 {
		return c.Items[i], true
	}
	return Item{}, false
}

// QuantityOf returns the quantity already in the cart for productID
func (c *Cart) QuantityOf(productID uuid.UUID) int {
	item, _ := c.Get(productID)
	return item.Quantity
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Total sums the line totals
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.Items {
		total = total.Add(item.Total())
	}
	return total
}

// ItemCount sums the quantities across lines
func (c *Cart) ItemCount() int {
	count := 0
	for _, item := range c.Items {
		count += item.Quantity
	}
	return count
}

func (c *Cart) indexOf(productID uuid.UUID) int {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			return i
		}
	}
	return -1
}
