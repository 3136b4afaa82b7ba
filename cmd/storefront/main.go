package main

import (
	"context"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/mercadito-dev/storefront/internal/cart"
	"github.com/mercadito-dev/storefront/internal/catalog"
	"github.com/mercadito-dev/storefront/internal/checkout"
	"github.com/mercadito-dev/storefront/internal/config"
	"github.com/mercadito-dev/storefront/internal/httpx"
	"github.com/mercadito-dev/storefront/internal/metrics"
	"github.com/mercadito-dev/storefront/internal/order"
	"github.com/mercadito-dev/storefront/internal/user"
)

// newRouter wires every flow step. Extra middleware (metrics, CORS) goes in
// before any route so it applies to all of them.
func newRouter(
	users user.Repository,
	products catalog.Repository,
	carts cart.Repository,
	orders order.Repository,
	issuer *httpx.TokenIssuer,
	jwtSecret string,
	extra ...gin.HandlerFunc,
) *gin.Engine {
	svc := checkout.NewService(carts, orders)

	r := gin.New()
	r.Use(gin.Recovery(), httpx.RequestID(), httpx.Logger())
	r.Use(extra...)

	r.GET("/healthz", func(c *gin.Context) { c.String(200, "ok") })
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	// UI only; doc.json comes from `swag init` at build time and is not
	// committed, so the route 404s until docs are generated.
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	r.POST("/register", registerHandler(users, issuer))
	r.POST("/login", loginHandler(users, issuer))
	r.GET("/products", listProductsHandler(products))
	r.GET("/products/:id", getProductHandler(products))

	authd := r.Group("/", httpx.Auth(jwtSecret))
	authd.GET("/cart", getCartHandler(svc))
	authd.POST("/cart/items", addToCartHandler(carts, products))
	authd.POST("/cart/items/:id/quantity", updateQuantityHandler(carts))
	authd.POST("/checkout/payment", choosePaymentHandler(svc))
	authd.POST("/checkout/cash", cashConfirmHandler(svc))
	authd.POST("/checkout/online", onlineConfirmHandler(svc))
	authd.GET("/orders", listOrdersHandler(orders))
	authd.PUT("/orders/:id/status", updateOrderStatusHandler(orders))

	return r
}

func main() {
	cfg := config.Load()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	pool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("[storefront] db connect: %v", err)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("[storefront] db ping: %v", err)
	}

	issuer := httpx.NewTokenIssuer(cfg.JWTSecret, 24*time.Hour)
	srvMetrics := metrics.New("api")
	corsMW := cors.New(cors.Config{
		AllowOrigins:     []string{cfg.CORSOrigin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})

	r := newRouter(
		user.NewPGRepo(pool),
		catalog.NewPGRepo(pool),
		cart.NewPGRepo(pool),
		order.NewPGRepo(pool),
		issuer,
		cfg.JWTSecret,
		srvMetrics.Middleware(),
		corsMW,
	)

	log.Printf("[storefront] listening on %s", cfg.HTTPAddr)
	log.Fatal(r.Run(cfg.HTTPAddr))
}
