// Package models contains the GORM persistence models behind the store's
// repositories. Domain entities carry no ORM tags; each model converts with
// ToDomain and FromDomain.
//
// Files follow the bounded contexts:
//   - base.go: BaseModel and AggregateModel
//   - catalog.go: products, images, categories, colors, discounts
//   - partner.go: customers, addresses, memberships, coupons
//   - trade.go: orders and order details
//   - warranty.go: warranties and claims
//   - identity.go: admins, roles, permissions
package models
