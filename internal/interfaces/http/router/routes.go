package router

import (
	"github.com/gin-gonic/gin"
	"github.com/menswear/backend/internal/interfaces/http/handler"
)

// LegacyPrefix is where the camelCase storefront contract is mounted
const LegacyPrefix = "/api/legacy"

// Handlers bundles every handler the API serves
type Handlers struct {
	Auth        *handler.AuthHandler
	User        *handler.UserHandler
	Customer    *handler.CustomerHandler
	Lead        *handler.LeadHandler
	Product     *handler.ProductHandler
	Order       *handler.OrderHandler
	Appointment *handler.AppointmentHandler
	Dashboard   *handler.DashboardHandler
	Legacy      *handler.LegacyHandler
	System      *handler.SystemHandler
}

// Guards are the access-control middleware applied per route.
// LoginLimit is optional.
type Guards struct {
	Authenticate gin.HandlerFunc
	OptionalAuth gin.HandlerFunc
	Staff        gin.HandlerFunc
	Admin        gin.HandlerFunc
	LoginLimit   gin.HandlerFunc
}

func chain(handlers ...gin.HandlerFunc) []gin.HandlerFunc {
	out := make([]gin.HandlerFunc, 0, len(handlers))
	for _, h := range handlers {
		if h != nil {
			out = append(out, h)
		}
	}
	return out
}

// APIGroups returns the route groups mounted below /api/v1
func APIGroups(h Handlers, g Guards) []RouteRegistrar {
	staff := chain(g.Authenticate, g.Staff)

	system := NewDomainGroup("system", "/system").
		GET("/ping", h.System.Ping).
		GET("/info", h.System.GetSystemInfo)

	authGroup := NewDomainGroup("auth", "/auth").
		POST("/login", chain(g.LoginLimit, h.Auth.Login)...).
		POST("/refresh", chain(g.LoginLimit, h.Auth.Refresh)...)
	authGroup.Group("session", "").
		Use(g.Authenticate).
		POST("/logout", h.Auth.Logout).
		GET("/me", h.Auth.Me).
		PUT("/password", h.Auth.ChangePassword)

	users := NewDomainGroup("users", "/users").
		Use(chain(g.Authenticate, g.Admin)...).
		GET("", h.User.List).
		POST("", h.User.Create).
		GET("/:id", h.User.GetByID).
		PUT("/:id", h.User.Update).
		DELETE("/:id", h.User.Delete)

	customers := NewDomainGroup("customers", "/customers").
		Use(staff...).
		GET("", h.Customer.List).
		POST("", h.Customer.Create).
		GET("/:id", h.Customer.GetByID).
		PUT("/:id", h.Customer.Update).
		DELETE("/:id", h.Customer.Delete).
		GET("/:id/orders", h.Customer.ListOrders)

	leads := NewDomainGroup("leads", "/leads").
		Use(staff...).
		GET("", h.Lead.List).
		POST("", h.Lead.Create).
		GET("/:id", h.Lead.GetByID).
		PUT("/:id", h.Lead.Update).
		DELETE("/:id", h.Lead.Delete).
		POST("/:id/convert", h.Lead.Convert)

	products := NewDomainGroup("products", "/products").
		GET("", chain(g.OptionalAuth, h.Product.List)...).
		GET("/:id", chain(g.OptionalAuth, h.Product.GetByID)...)
	products.Group("catalog-admin", "").
		Use(staff...).
		POST("", h.Product.Create).
		PUT("/:id", h.Product.Update).
		DELETE("/:id", h.Product.Delete).
		GET("/:id/variants", h.Product.ListVariants).
		POST("/:id/variants", h.Product.AddVariant).
		PUT("/:id/variants/:variant_id", h.Product.UpdateVariant).
		DELETE("/:id/variants/:variant_id", h.Product.DeleteVariant).
		POST("/:id/variants/:variant_id/stock", h.Product.AdjustStock).
		POST("/:id/images/upload-url", h.Product.CreateImageUpload).
		POST("/:id/images", h.Product.AddImage).
		DELETE("/:id/images", h.Product.RemoveImage)

	orders := NewDomainGroup("orders", "/orders").
		Use(staff...).
		GET("", h.Order.List).
		POST("", h.Order.Create).
		GET("/:id", h.Order.GetByID).
		PUT("/:id", h.Order.Update).
		DELETE("/:id", h.Order.Delete).
		POST("/:id/status", h.Order.UpdateStatus).
		POST("/:id/payment-intent", h.Order.CreatePaymentIntent)

	payments := NewDomainGroup("payments", "/payments").
		POST("/webhook", h.Order.PaymentWebhook)

	appointments := NewDomainGroup("appointments", "/appointments").
		POST("/book", h.Appointment.Book)
	appointments.Group("appointments-admin", "").
		Use(staff...).
		GET("", h.Appointment.List).
		POST("", h.Appointment.Create).
		GET("/:id", h.Appointment.GetByID).
		PUT("/:id", h.Appointment.Update).
		DELETE("/:id", h.Appointment.Delete).
		POST("/:id/status", h.Appointment.UpdateStatus)

	dashboard := NewDomainGroup("dashboard", "/dashboard").
		Use(staff...).
		GET("/overview", h.Dashboard.Overview).
		GET("/sales-trend", h.Dashboard.SalesTrend).
		GET("/top-products", h.Dashboard.TopProducts).
		GET("/low-stock", h.Dashboard.LowStock).
		GET("/recent-orders", h.Dashboard.RecentOrders).
		GET("/export", h.Dashboard.Export)

	return []RouteRegistrar{
		system, authGroup, users, customers, leads, products,
		orders, payments, appointments, dashboard,
	}
}

// LegacyGroups returns the route groups mounted below /api/legacy
func LegacyGroups(h Handlers, g Guards) []RouteRegistrar {
	legacy := NewDomainGroup("legacy", "").
		GET("/products", h.Legacy.ListProducts).
		GET("/products/:slug", h.Legacy.GetProduct).
		POST("/appointments/book", h.Legacy.Book).
		POST("/contact", h.Legacy.Contact).
		GET("/customers/lookup", chain(g.Authenticate, g.Staff, h.Legacy.LookupCustomer)...)
	return []RouteRegistrar{legacy}
}

// Install registers the versioned API and the legacy layer on r
func Install(r *Router, h Handlers, g Guards) {
	r.Register(APIGroups(h, g)...)
	r.Mount(LegacyPrefix, LegacyGroups(h, g)...)
	r.Setup()
}
