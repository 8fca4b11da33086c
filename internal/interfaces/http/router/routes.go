package router

import (
	"github.com/gin-gonic/gin"
	"github.com/phonestore/backend/internal/domain/identity"
	"github.com/phonestore/backend/internal/interfaces/http/handler"
	"github.com/phonestore/backend/internal/interfaces/http/middleware"
)

// Handlers bundles every HTTP handler mounted by the route table
type Handlers struct {
	System        *handler.SystemHandler
	StoreCatalog  *handler.StoreCatalogHandler
	StoreCustomer *handler.StoreCustomerHandler
	Cart          *handler.CartHandler
	Checkout      *handler.CheckoutHandler
	StoreWarranty *handler.StoreWarrantyHandler

	Auth         *handler.AuthHandler
	AdminAccount *handler.AdminAccountHandler
	Role         *handler.RoleHandler
	Product      *handler.ProductHandler
	Category     *handler.CategoryHandler
	Color        *handler.ColorHandler
	Discount     *handler.DiscountHandler
	Order        *handler.OrderHandler
	Customer     *handler.CustomerHandler
	Membership   *handler.MembershipHandler
	Coupon       *handler.CouponHandler
	Warranty     *handler.WarrantyHandler
	Report       *handler.ReportHandler
}

// Guards are the request filters the route table places in front of handlers
type Guards struct {
	// Session loads the storefront session; required
	Session gin.HandlerFunc
	// Admin builds the admin gate for a set of policies; required
	Admin func(policies ...identity.Policy) gin.HandlerFunc
	// AuthRateLimit throttles login and registration; optional
	AuthRateLimit gin.HandlerFunc
}

// SystemRoutes mounts /system
func SystemRoutes(h *Handlers) *DomainGroup {
	g := NewDomainGroup("system", "/system")
	g.GET("/info", h.System.GetSystemInfo)
	g.GET("/ping", h.System.Ping)
	return g
}

// StoreRoutes mounts the customer-facing API under /store
func StoreRoutes(h *Handlers, guards Guards) *DomainGroup {
	store := NewDomainGroup("store", "/store").Use(guards.Session)
	signedIn := middleware.RequireCustomer()

	store.GET("/products", h.StoreCatalog.ListProducts)
	store.GET("/products/:id", h.StoreCatalog.GetProduct)
	store.GET("/categories", h.StoreCatalog.ListCategories)
	store.GET("/images/:id", h.StoreCatalog.GetImage)

	customers := store.Group("customers", "/customers")
	customers.POST("/register", guards.AuthRateLimit, h.StoreCustomer.Register)
	customers.POST("/login", guards.AuthRateLimit, h.StoreCustomer.Login)
	customers.POST("/logout", h.StoreCustomer.Logout)
	customers.GET("/me", signedIn, h.StoreCustomer.Me)
	customers.PUT("/me", signedIn, h.StoreCustomer.UpdateProfile)
	customers.PUT("/me/password", signedIn, h.StoreCustomer.ChangePassword)
	customers.GET("/me/addresses", signedIn, h.StoreCustomer.ListAddresses)
	customers.POST("/me/addresses", signedIn, h.StoreCustomer.AddAddress)
	customers.GET("/me/orders", signedIn, h.StoreCustomer.ListOrders)
	customers.GET("/me/orders/:id", signedIn, h.StoreCustomer.GetOrder)
	customers.POST("/me/orders/:id/cancel", signedIn, h.StoreCustomer.CancelOrder)

	cart := store.Group("cart", "/cart")
	cart.GET("", h.Cart.View)
	cart.DELETE("", h.Cart.Clear)
	cart.GET("/count", h.Cart.Count)
	cart.POST("/items", h.Cart.AddItem)
	cart.PUT("/items/:productId", h.Cart.UpdateItem)
	cart.DELETE("/items/:productId", h.Cart.RemoveItem)

	checkout := store.Group("checkout", "/checkout").Use(signedIn)
	checkout.GET("", h.Checkout.View)
	checkout.POST("/orders", middleware.IdempotencyKey(), h.Checkout.PlaceOrder)
	checkout.GET("/orders/:id/confirmation", h.Checkout.Confirmation)

	// check-by-code is public so a scanned QR code works without signing in
	store.GET("/warranties/check", h.StoreWarranty.Check)
	warranties := store.Group("warranties", "/warranties").Use(signedIn)
	warranties.GET("", h.StoreWarranty.List)
	warranties.GET("/:id", h.StoreWarranty.Get)
	warranties.GET("/:id/info", h.StoreWarranty.Info)
	warranties.GET("/:id/qrcode", h.StoreWarranty.QRCode)
	warranties.POST("/:id/claims", h.StoreWarranty.SubmitClaim)
	store.GET("/claims/:id", signedIn, h.StoreWarranty.GetClaim)

	return store
}

// AdminRoutes mounts the back-office API under /admin. Every route past
// login and registration passes the admin gate with its own policy.
func AdminRoutes(h *Handlers, guards Guards) *DomainGroup {
	admin := NewDomainGroup("admin", "/admin")
	can := func(area, action string) gin.HandlerFunc {
		return guards.Admin(identity.RequireAreaAction(area, action))
	}

	authGroup := admin.Group("auth", "/auth")
	authGroup.POST("/login", guards.AuthRateLimit, h.Auth.Login)
	authGroup.POST("/register", guards.AuthRateLimit, h.Auth.Register)
	authGroup.POST("/logout", guards.Admin(identity.Authenticated()), h.Auth.Logout)
	authGroup.GET("/profile", guards.Admin(identity.Authenticated()), h.Auth.Profile)
	authGroup.PUT("/profile", guards.Admin(identity.Authenticated()), h.Auth.UpdateProfile)

	admin.GET("/dashboard", can(identity.AreaDashboard, identity.ActionIndex), h.Report.Dashboard)
	admin.GET("/reports/revenue", can(identity.AreaReport, identity.ActionIndex), h.Report.Overview)
	admin.GET("/reports/revenue/export", can(identity.AreaReport, identity.ActionExport), h.Report.Export)

	accounts := admin.Group("accounts", "/accounts")
	accounts.GET("", can(identity.AreaAdminAccount, identity.ActionIndex), h.AdminAccount.List)
	accounts.GET("/:id", can(identity.AreaAdminAccount, identity.ActionIndex), h.AdminAccount.Get)
	accounts.POST("/:id/approve", can(identity.AreaAdminAccount, identity.ActionApprove), h.AdminAccount.Approve)
	accounts.POST("/:id/revoke", can(identity.AreaAdminAccount, identity.ActionApprove), h.AdminAccount.RevokeApproval)
	accounts.POST("/:id/block", can(identity.AreaAdminAccount, identity.ActionBlock), h.AdminAccount.Block)
	accounts.POST("/:id/unblock", can(identity.AreaAdminAccount, identity.ActionBlock), h.AdminAccount.Unblock)
	accounts.PUT("/:id/role", guards.Admin(identity.RequireRoles(identity.RoleSuperAdmin)), h.AdminAccount.ChangeRole)
	accounts.DELETE("/:id", can(identity.AreaAdminAccount, identity.ActionDelete), h.AdminAccount.Delete)

	roles := admin.Group("roles", "/roles")
	roles.GET("", can(identity.AreaRole, identity.ActionView), h.Role.List)
	roles.GET("/:id", can(identity.AreaRole, identity.ActionView), h.Role.Get)
	roles.POST("", can(identity.AreaRole, identity.ActionCreate), h.Role.Create)
	roles.PUT("/:id", can(identity.AreaRole, identity.ActionEdit), h.Role.Update)
	roles.PUT("/:id/permissions", can(identity.AreaRole, identity.ActionEdit), h.Role.SetPermissions)
	roles.DELETE("/:id", can(identity.AreaRole, identity.ActionDelete), h.Role.Delete)
	admin.GET("/permissions", can(identity.AreaRole, identity.ActionView), h.Role.ListPermissions)

	products := crudGroup(admin, "products", identity.AreaProduct, can, crudHandlers{
		list: h.Product.List, get: h.Product.Get, create: h.Product.Create, update: h.Product.Update, remove: h.Product.Delete,
	})
	edit := can(identity.AreaProduct, identity.ActionEdit)
	products.POST("/:id/publish", edit, h.Product.Publish)
	products.POST("/:id/unpublish", edit, h.Product.Unpublish)
	products.POST("/:id/toggle-publish", edit, h.Product.TogglePublish)
	products.POST("/:id/images", edit, h.Product.UploadImages)
	products.GET("/:id/colors/:colorId/images", can(identity.AreaProduct, identity.ActionIndex), h.Product.ListImagesByColor)
	products.DELETE("/images/:imageId", edit, h.Product.DeleteImage)

	crudGroup(admin, "categories", identity.AreaCategory, can, crudHandlers{
		list: h.Category.List, get: h.Category.Get, create: h.Category.Create, update: h.Category.Update, remove: h.Category.Delete,
	})
	crudGroup(admin, "colors", identity.AreaColor, can, crudHandlers{
		list: h.Color.List, get: h.Color.Get, create: h.Color.Create, update: h.Color.Update, remove: h.Color.Delete,
	})
	crudGroup(admin, "discounts", identity.AreaDiscount, can, crudHandlers{
		list: h.Discount.List, get: h.Discount.Get, create: h.Discount.Create, update: h.Discount.Update, remove: h.Discount.Delete,
	})
	crudGroup(admin, "memberships", identity.AreaMembership, can, crudHandlers{
		list: h.Membership.List, get: h.Membership.Get, create: h.Membership.Create, update: h.Membership.Update, remove: h.Membership.Delete,
	})
	crudGroup(admin, "coupons", identity.AreaCoupon, can, crudHandlers{
		list: h.Coupon.List, get: h.Coupon.Get, create: h.Coupon.Create, update: h.Coupon.Update, remove: h.Coupon.Delete,
	})
	customers := crudGroup(admin, "customers", identity.AreaCustomer, can, crudHandlers{
		list: h.Customer.List, get: h.Customer.Get, create: h.Customer.Create, update: h.Customer.Update, remove: h.Customer.Delete,
	})
	customers.GET("/report", can(identity.AreaCustomer, identity.ActionIndex), h.Customer.Report)

	orders := crudGroup(admin, "orders", identity.AreaOrder, can, crudHandlers{
		list: h.Order.List, get: h.Order.Get, create: h.Order.Create, update: h.Order.Update, remove: h.Order.Delete,
	})
	orders.PUT("/:id/status", can(identity.AreaOrder, identity.ActionEdit), h.Order.ChangeStatus)
	orders.POST("/:id/warranties", can(identity.AreaWarranty, identity.ActionCreate), h.Warranty.AutoCreate)

	warranties := admin.Group("warranties", "/warranties")
	warranties.GET("", can(identity.AreaWarranty, identity.ActionIndex), h.Warranty.List)
	warranties.GET("/stats", can(identity.AreaWarranty, identity.ActionIndex), h.Warranty.Stats)
	warranties.GET("/:id", can(identity.AreaWarranty, identity.ActionIndex), h.Warranty.Get)
	warranties.POST("", can(identity.AreaWarranty, identity.ActionCreate), h.Warranty.Create)
	warranties.PUT("/:id/status", can(identity.AreaWarranty, identity.ActionEdit), h.Warranty.UpdateStatus)

	claims := admin.Group("warranty-claims", "/warranty-claims")
	claims.GET("", can(identity.AreaWarranty, identity.ActionIndex), h.Warranty.ListClaims)
	claims.GET("/pending-count", can(identity.AreaWarranty, identity.ActionIndex), h.Warranty.PendingClaimCount)
	claims.GET("/:id", can(identity.AreaWarranty, identity.ActionIndex), h.Warranty.GetClaim)
	claims.PUT("/:id/process", can(identity.AreaWarranty, identity.ActionProcessClaim), h.Warranty.ProcessClaim)
	claims.PUT("/:id/status", can(identity.AreaWarranty, identity.ActionProcessClaim), h.Warranty.UpdateClaimStatus)

	return admin
}

type crudHandlers struct {
	list, get, create, update, remove gin.HandlerFunc
}

// crudGroup mounts the five standard endpoints of an area, each behind the
// matching area+action permission
func crudGroup(parent *DomainGroup, name, area string, can func(area, action string) gin.HandlerFunc, h crudHandlers) *DomainGroup {
	g := parent.Group(name, "/"+name)
	g.GET("", can(area, identity.ActionIndex), h.list)
	g.GET("/:id", can(area, identity.ActionIndex), h.get)
	g.POST("", can(area, identity.ActionCreate), h.create)
	g.PUT("/:id", can(area, identity.ActionEdit), h.update)
	g.DELETE("/:id", can(area, identity.ActionDelete), h.remove)
	return g
}
