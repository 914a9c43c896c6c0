package handler

import (
	"database/sql"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/docs"
	"storefront/internal/content"
	"storefront/internal/http/middleware"
	"storefront/internal/service"
)

// Services bundles what the routes depend on.
type Services struct {
	Catalog  service.CatalogService
	Cart     service.CartService
	Wishlist service.WishlistService
	Checkout service.CheckoutService
	Account  service.AccountService
	Auth     service.AuthService
	Admin    service.AdminService
	Media    service.MediaService
	Content  service.ContentService
}

// RegisterRoutes attaches HTTP routes to the provided Fiber app. metrics may be nil, in
// which case /metrics is not exposed.
func RegisterRoutes(app *fiber.App, db *sql.DB, metrics prometheus.Gatherer, svc Services) {
	app.Get("/health", HealthCheck(db))
	app.Get("/healthz", LivenessProbe())
	if metrics != nil {
		app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(metrics, promhttp.HandlerOpts{})))
	}

	requireAuth := middleware.RequireAuth(svc.Auth)

	// Catalog
	app.Get("/", middleware.OptionalAuth(svc.Auth), Home(svc.Catalog))
	app.Get("/products", ListProducts(svc.Catalog))
	app.Get("/product/:slug", GetProduct(svc.Catalog))
	app.Get("/categories", ListCategories(svc.Catalog))
	app.Get("/banners", ListBanners(svc.Catalog))
	app.Get("/media/*", ServeMedia(svc.Media))

	// Static content
	app.Get("/about", ContentPage(svc.Content, content.PageAbout))
	app.Get("/faq", ContentPage(svc.Content, content.PageFAQ))
	app.Get("/returns", ContentPage(svc.Content, content.PageReturns))
	app.Get("/contact", ContentPage(svc.Content, content.PageContact))
	app.Post("/contact", Contact(svc.Content))

	// Auth
	authGroup := app.Group("/auth")
	authGroup.Post("/signup", SignUp(svc.Auth))
	authGroup.Post("/signin", SignIn(svc.Auth))
	authGroup.Post("/signout", requireAuth, SignOut(svc.Auth))
	authGroup.Get("/session", requireAuth, CurrentSession(svc.Auth))

	// Cart
	cart := app.Group("/cart", requireAuth)
	cart.Get("/", ViewCart(svc.Cart))
	cart.Get("/count", CartCount(svc.Cart))
	cart.Post("/items", AddToCart(svc.Cart))
	cart.Put("/items/:id", SetCartItemQuantity(svc.Cart))
	cart.Post("/items/:id/increment", IncrementCartItem(svc.Cart))
	cart.Post("/items/:id/decrement", DecrementCartItem(svc.Cart))
	cart.Delete("/items/:id", RemoveCartItem(svc.Cart))

	// Wishlist
	wishlist := app.Group("/wishlist", requireAuth)
	wishlist.Get("/", ViewWishlist(svc.Wishlist))
	wishlist.Get("/count", WishlistCount(svc.Wishlist))
	wishlist.Post("/items", AddToWishlist(svc.Wishlist))
	wishlist.Delete("/items/:id", RemoveFromWishlist(svc.Wishlist))
	wishlist.Post("/items/:id/move-to-cart", MoveWishlistToCart(svc.Wishlist))

	// Checkout
	checkout := app.Group("/checkout", requireAuth)
	checkout.Get("/", CheckoutSummary(svc.Checkout))
	checkout.Post("/", PlaceOrder(svc.Checkout))
	checkout.Post("/addresses", AddAddress(svc.Checkout))

	// Account
	account := app.Group("/account", requireAuth)
	account.Get("/", AccountOverview(svc.Account))
	account.Put("/profile", UpdateProfile(svc.Account))
	account.Get("/orders", ListOrders(svc.Account))
	account.Get("/orders/:id", GetOrder(svc.Account))
	account.Get("/orders/:id/qrcode", OrderQRCode(svc.Account))

	// Admin
	admin := app.Group("/admin", requireAuth, middleware.RequireAdmin(svc.Admin))
	admin.Get("/dashboard", AdminDashboard(svc.Admin))
	admin.Get("/users", AdminUsers(svc.Admin))
	admin.Put("/users/:id/admin", GrantAdmin(svc.Admin))
	admin.Delete("/users/:id/admin", RevokeAdmin(svc.Admin))
	admin.Post("/products", CreateProduct(svc.Admin))
	admin.Put("/products/:id", UpdateProduct(svc.Admin))
	admin.Delete("/products/:id", DeleteProduct(svc.Admin))
	admin.Post("/products/:id/images", UploadProductImage(svc.Media))
	admin.Post("/media", UploadMedia(svc.Media))
}

// RegisterSwagger serves the API docs under /swagger. host is written into the
// document once, before the server starts; when empty, Swagger UI targets the
// host and scheme the page was loaded from.
func RegisterSwagger(app *fiber.App, host string) {
	docs.SwaggerInfo.Host = host
	app.Get("/swagger/*", swagger.HandlerDefault)
}
