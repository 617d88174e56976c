package main

import (
	"os"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"backoffice/internal/config"
	"backoffice/internal/database"
	"backoffice/internal/handlers"
	"backoffice/internal/middleware"
)

func main() {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	config.Load()

	client, err := database.Connect(config.AppEnv.MongoURI)
	if err != nil {
		log.Fatal().Err(err).Msg("mongodb connection failed")
	}

	db := client.Database(config.AppEnv.DBName)
	log.Info().Str("database", db.Name()).Msg("mongodb connected")

	// The unique indexes carry the duplicate-name guarantee; serving
	// without them would silently reintroduce the create race.
	if err := database.EnsureCustomerIndexes(db); err != nil {
		log.Fatal().Err(err).Msg("customer index bootstrap failed")
	}
	if err := database.EnsureProductIndexes(db); err != nil {
		log.Fatal().Err(err).Msg("product index bootstrap failed")
	}
	if err := database.EnsureCredentialIndexes(db); err != nil {
		log.Fatal().Err(err).Msg("credential index bootstrap failed")
	}

	r := gin.New()
	r.Use(middleware.RequestLogger(), gin.Recovery())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/signup", handlers.Signup(db))
	r.POST("/auth/login", handlers.Login(db, config.AppEnv.JWTSecret, config.AppEnv.AccessTokenTTL))
	r.GET("/auth/me", middleware.UserAuth(config.AppEnv.JWTSecret), handlers.Me())

	r.POST("/customers", handlers.CreateCustomer(db))
	r.GET("/customers", handlers.GetCustomers(db))
	r.GET("/customers/nearby", handlers.NearbyCustomers(db))
	r.GET("/customers/:name", handlers.GetCustomer(db))
	r.PUT("/customers/:name", handlers.UpdateCustomer(db))
	r.DELETE("/customers/:name", handlers.DeleteCustomer(db))

	r.POST("/products", handlers.CreateProduct(db))
	r.GET("/products", handlers.GetProducts(db))
	r.GET("/products/search", handlers.SearchProducts(db))
	r.GET("/products/:name", handlers.GetProduct(db))
	r.PUT("/products/:name", handlers.UpdateProduct(db))
	r.DELETE("/products/:name", handlers.DeleteProduct(db))

	analytics := r.Group("/analytics")
	{
		analytics.GET("/top-products", handlers.TopProducts(db))
		analytics.GET("/sales", handlers.SalesByDateRange(db))
		analytics.GET("/product-sales", handlers.ProductSalesByDateRange(db))
	}

	if err := r.Run(":" + config.AppEnv.Port); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
