package handlers

import (
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"

	"backoffice/internal/apperr"
)

const dayFormat = "2006-01-02"

// parseDateRange rejects anything that is not a YYYY-MM-DD date before
// a query is built. An unguarded parse would silently turn bad input
// into the epoch and match nothing the caller intended.
func parseDateRange(startRaw, endRaw string) (time.Time, time.Time, error) {
	start, err := time.Parse(dayFormat, strings.TrimSpace(startRaw))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.ErrInvalidDateRange
	}
	end, err := time.Parse(dayFormat, strings.TrimSpace(endRaw))
	if err != nil {
		return time.Time{}, time.Time{}, apperr.ErrInvalidDateRange
	}
	return start, end, nil
}

// dateWindow covers the closed calendar-day interval [start, end]:
// half-open on the instant after end's last moment.
func dateWindow(start, end time.Time) bson.M {
	return bson.M{"$gte": start, "$lt": end.AddDate(0, 0, 1)}
}

func parseLimit(raw string, defaultLimit int64) (int64, error) {
	if strings.TrimSpace(raw) == "" {
		return defaultLimit, nil
	}
	limit, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || limit < 1 {
		return 0, apperr.ErrInvalidLimit
	}
	return limit, nil
}

func parseCoordinates(lonRaw, latRaw, distRaw string) (lon, lat, dist float64, err error) {
	lon, lonErr := strconv.ParseFloat(strings.TrimSpace(lonRaw), 64)
	lat, latErr := strconv.ParseFloat(strings.TrimSpace(latRaw), 64)
	dist, distErr := strconv.ParseFloat(strings.TrimSpace(distRaw), 64)
	if lonErr != nil || latErr != nil || distErr != nil {
		return 0, 0, 0, apperr.ErrInvalidCoordinates
	}
	if lon < -180 || lon > 180 || lat < -90 || lat > 90 || dist < 0 {
		return 0, 0, 0, apperr.ErrInvalidCoordinates
	}
	return lon, lat, dist, nil
}

func topProductsPipeline(limit int64) []bson.M {
	return []bson.M{
		{"$unwind": "$products"},
		{"$group": bson.M{
			"_id":           "$products.name",
			"totalQuantity": bson.M{"$sum": "$products.quantity"},
		}},
		{"$sort": bson.M{"totalQuantity": -1}},
		{"$limit": limit},
	}
}

func salesByDayPipeline(start, end time.Time) []bson.M {
	return []bson.M{
		{"$match": bson.M{"date": dateWindow(start, end)}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$date",
			}},
			"totalSales": bson.M{"$sum": "$total"},
		}},
		{"$sort": bson.M{"_id": 1}},
	}
}

// productSalesByDayPipeline sums quantity*price per line instead of
// the record's precomputed total, since only matching lines count.
func productSalesByDayPipeline(productName string, start, end time.Time) []bson.M {
	return []bson.M{
		{"$match": bson.M{"date": dateWindow(start, end)}},
		{"$unwind": "$products"},
		{"$match": bson.M{"products.name": productName}},
		{"$group": bson.M{
			"_id": bson.M{"$dateToString": bson.M{
				"format": "%Y-%m-%d",
				"date":   "$date",
			}},
			"totalSales": bson.M{"$sum": bson.M{
				"$multiply": bson.A{"$products.quantity", "$products.price"},
			}},
		}},
		{"$sort": bson.M{"_id": 1}},
	}
}

// nearFilter orders results nearest-first; that is implicit in the
// $nearSphere semantics, not an extra sort stage.
func nearFilter(longitude, latitude, maxDistanceMeters float64) bson.M {
	return bson.M{
		"location": bson.M{
			"$nearSphere": bson.M{
				"$geometry": bson.M{
					"type":        "Point",
					"coordinates": []float64{longitude, latitude},
				},
				"$maxDistance": maxDistanceMeters,
			},
		},
	}
}
