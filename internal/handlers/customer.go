package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"backoffice/internal/apperr"
	"backoffice/internal/models"
)

type CustomerCreateRequest struct {
	Name     string                `json:"name" binding:"required"`
	Email    string                `json:"email" binding:"required"`
	Location *models.GeoPoint      `json:"location"`
	Products []models.PurchaseLine `json:"products"`
	Total    float64               `json:"total"`
	Date     *time.Time            `json:"date"`
}

type CustomerUpdateRequest struct {
	Name     *string                `json:"name"`
	Email    *string                `json:"email"`
	Location *models.GeoPoint       `json:"location"`
	Products *[]models.PurchaseLine `json:"products"`
	Total    *float64               `json:"total"`
	Date     *time.Time             `json:"date"`
}

// buildCustomerUpdate turns a partial payload into a $set document.
// Only fields present in the request appear; everything else in the
// stored record is left untouched. An untyped location gets the same
// "Point" default as on create, or the 2dsphere index would reject
// the write.
func buildCustomerUpdate(req CustomerUpdateRequest) bson.M {
	set := bson.M{}
	if req.Name != nil {
		set["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Email != nil {
		set["email"] = strings.TrimSpace(*req.Email)
	}
	if req.Location != nil {
		location := *req.Location
		if location.Type == "" {
			location.Type = "Point"
		}
		set["location"] = location
	}
	if req.Products != nil {
		set["products"] = *req.Products
	}
	if req.Total != nil {
		set["total"] = *req.Total
	}
	if req.Date != nil {
		set["date"] = *req.Date
	}
	return set
}

func validGeoPoint(p *models.GeoPoint) bool {
	if p == nil {
		return true
	}
	if p.Type != "" && p.Type != "Point" {
		return false
	}
	if len(p.Coordinates) != 2 {
		return false
	}
	lon, lat := p.Coordinates[0], p.Coordinates[1]
	return lon >= -180 && lon <= 180 && lat >= -90 && lat <= 90
}

// newCustomer applies the write normalization: leading and trailing
// whitespace is dropped from submitted strings, an untyped location
// becomes a "Point", and a missing date defaults to now. Reads return
// the normalized form.
func newCustomer(req CustomerCreateRequest) models.Customer {
	customer := models.Customer{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(req.Email),
		Location: req.Location,
		Products: req.Products,
		Total:    req.Total,
		Date:     time.Now(),
	}
	if customer.Location != nil && customer.Location.Type == "" {
		customer.Location.Type = "Point"
	}
	if customer.Products == nil {
		customer.Products = []models.PurchaseLine{}
	}
	if req.Date != nil {
		customer.Date = *req.Date
	}
	return customer
}

func CreateCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "POST /customers"

		var req CustomerCreateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}

		if strings.TrimSpace(req.Name) == "" {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "name is required"})
			return
		}
		if !validGeoPoint(req.Location) {
			respondError(c, route, apperr.ErrInvalidLocation)
			return
		}

		customer := newCustomer(req)

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection(customersCollection).InsertOne(ctx, customer)
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.ErrCustomerExists)
				return
			}
			respondInternal(c, route, err)
			return
		}

		customer.ID = res.InsertedID.(primitive.ObjectID)
		log.Ctx(c.Request.Context()).Info().Str("name", customer.Name).Msg("customer created")
		c.JSON(http.StatusCreated, customer)
	}
}

func GetCustomers(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers"

		ctx, cancel := requestContext(c)
		defer cancel()

		cursor, err := db.Collection(customersCollection).Find(ctx, bson.M{})
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

func GetCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "GET /customers/:name"

		ctx, cancel := requestContext(c)
		defer cancel()

		var customer models.Customer
		err := db.Collection(customersCollection).FindOne(ctx, bson.M{"name": c.Param("name")}).Decode(&customer)
		if err == mongo.ErrNoDocuments {
			respondError(c, route, apperr.ErrCustomerNotFound)
			return
		}
		if err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

func UpdateCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "PUT /customers/:name"

		var req CustomerUpdateRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondValidationError(c, err)
			return
		}
		if !validGeoPoint(req.Location) {
			respondError(c, route, apperr.ErrInvalidLocation)
			return
		}

		set := buildCustomerUpdate(req)
		if len(set) == 0 {
			respondError(c, route, apperr.ErrEmptyUpdate)
			return
		}

		ctx, cancel := requestContext(c)
		defer cancel()

		name := c.Param("name")
		res, err := db.Collection(customersCollection).UpdateOne(ctx, bson.M{"name": name}, bson.M{"$set": set})
		if err != nil {
			if mongo.IsDuplicateKeyError(err) {
				respondError(c, route, apperr.ErrCustomerExists)
				return
			}
			respondInternal(c, route, err)
			return
		}
		if res.MatchedCount == 0 {
			respondError(c, route, apperr.ErrCustomerNotFound)
			return
		}

		// Re-read under the possibly renamed key.
		lookup := name
		if renamed, ok := set["name"].(string); ok {
			lookup = renamed
		}
		var customer models.Customer
		if err := db.Collection(customersCollection).FindOne(ctx, bson.M{"name": lookup}).Decode(&customer); err != nil {
			respondInternal(c, route, err)
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

func DeleteCustomer(db *mongo.Database) gin.HandlerFunc {
	return func(c *gin.Context) {
		const route = "DELETE /customers/:name"

		ctx, cancel := requestContext(c)
		defer cancel()

		res, err := db.Collection(customersCollection).DeleteOne(ctx, bson.M{"name": c.Param("name")})
		if err != nil {
			respondInternal(c, route, err)
			return
		}
		if res.DeletedCount == 0 {
			respondError(c, route, apperr.ErrCustomerNotFound)
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "customer deleted"})
	}
}
