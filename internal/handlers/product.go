package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/apperr"
	"backoffice/internal/models"
)

type ProductCreateRequest struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category"`
}

type ProductUpdateRequest struct {
	Name        *string  `json:"name"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	Category    *string  `json:"category"`
}

func buildProductUpdate(req ProductUpdateRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Description != nil {
		set["description"] = strings.TrimSpace(*req.Description)
	}
	if req.Price != nil {
		set["price"] = *req.Price
	}
	if req.Category != nil {
		set["category"] = strings.TrimSpace(*req.Category)
	}
	return set
}

// newProduct applies the write normalization: submitted strings are
// stored with leading and trailing whitespace dropped.
func newProduct(req ProductCreateRequest) models.Product {
	return models.Product{
		Name:        strings.TrimSpace(req.Name),
		Description: strings.TrimSpace(req.Description),
		Price:       req.Price,
		Category:    strings.TrimSpace(req.Category),
	}
}

func CreateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /products"

		var req ProductCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if req.Price < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "price must be zero or greater"})
			return
		}

		product := newProduct(req)

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection(productsCollection).InsertOne(ctx, product)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.ErrProductExists)
				return
			}
			respondInternal(c, route, err)
			return
		}

		product.ID = res.InsertedID.(primitive.ObjectID)
		log.Ctx(c.Request.Context()).Info().Str("name", product.Name).Msg("product created")
		c.JSON(http.StatusCreated, product)
	}
}

func GetProducts(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products"

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection(productsCollection).Find(ctx, bson.M{})
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

func GetProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /products/:name"

		ctx, cancel := requestContext(c)
		defer cancel()

		var product models.Product
		err := db.Collection(productsCollection).FindOne(ctx, bson.M{"name": c.Param("name")}).Decode(&product)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.ErrProductNotFound)
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func UpdateProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /products/:name"

		var req ProductUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if req.Price != nil && *req.Price < 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "price must be zero or greater"})
			return
		}

		set := buildProductUpdate(req)
		if len(set) == 0 {
			respondError(c, route, apperr.ErrEmptyUpdate)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		name := c.Param("name")
		res, err := db.Collection(productsCollection).UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": set})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.ErrProductExists)
				return
			}
			respondInternal(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, route, apperr.ErrProductNotFound)
			return
		}

		lookup := name
		if renamed, ok := set["name"].(string); ok {
			lookup = renamed
		}
		var product models.Product
		if err := db.Collection(productsCollection).FindOne(ctx, bson.M{"name": lookup}).Decode(&product); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, product)
	}
}

func DeleteProduct(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /products/:name"

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection(productsCollection).DeleteOne(ctx, bson.M{"name": c.Param("name")})
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, route, apperr.ErrProductNotFound)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
