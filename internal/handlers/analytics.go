package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"backoffice/internal/apperr"
	"backoffice/internal/models"
)

const defaultTopProductsLimit = 5

// ProductQuantity is one row of the top-products ranking.
type ProductQuantity struct {
	Name          string `bson:"_id" json:"name"`
	TotalQuantity int64  `bson:"totalQuantity" json:"totalQuantity"`
}

// DailySales is one calendar day's summed revenue.
type DailySales struct {
	Day        string  `bson:"_id" json:"day"`
	TotalSales float64 `bson:"totalSales" json:"totalSales"`
}

func TopProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics/top-products"

		limit, err := parseLimit(c.Query("limit"), defaultTopProductsLimit)
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection(customersCollection).Aggregate(ctx, topProductsPipeline(limit))
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		ranking := make([]ProductQuantity, 0)
		if err := cursor.All(ctx, &ranking); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, ranking)
	}
}

func SalesByDateRange(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics/sales"

		start, end, err := parseDateRange(c.Query("start"), c.Query("end"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection(customersCollection).Aggregate(ctx, salesByDayPipeline(start, end))
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		sales := make([]DailySales, 0)
		if err := cursor.All(ctx, &sales); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, sales)
	}
}

func ProductSalesByDateRange(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /analytics/product-sales"

		productName := strings.TrimSpace(c.Query("productName"))
		if productName == "" {
			respondError(c, route, apperr.ErrMissingProductName)
			return
		}

		start, end, err := parseDateRange(c.Query("start"), c.Query("end"))
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection(customersCollection).Aggregate(ctx, productSalesByDayPipeline(productName, start, end))
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		sales := make([]DailySales, 0)
		if err := cursor.All(ctx, &sales); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, sales)
	}
}

func NearbyCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers/nearby"

		lon, lat, dist, err := parseCoordinates(
			c.Query("longitude"),
			c.Query("latitude"),
			c.Query("maxDistance"),
		)
		if err != nil {
			respondError(c, route, err)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection(customersCollection).Find(ctx, nearFilter(lon, lat, dist))
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		customers := make([]models.Customer, 0)
		if err := cursor.All(ctx, &customers); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, customers)
	}
}

func SearchProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/search"

		query := strings.TrimSpace(c.Query("query"))
		if query == "" {
			respondError(c, route, apperr.ErrMissingQuery)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		findOptions := options.Find().
			SetProjection(bson.M{"score": bson.M{"$meta": "textScore"}}).
			SetSort(bson.M{"score": bson.M{"$meta": "textScore"}})

		cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{
			"$text": bson.M{"$search": query},
		}, findOptions)
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		defer cursor.Close(ctx)

		products := make([]models.Product, 0)
		if err := cursor.All(ctx, &products); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, products)
	}
}
