package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"crbs/src/common"
	"crbs/src/db"
	"crbs/src/lib"
	"crbs/src/models"
	"crbs/src/types"
	"crbs/src/utils"

	"github.com/gin-gonic/gin"
)

func vehicleHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		GET("/vehicles", func(ctx *gin.Context) {
			var query types.VehicleListQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			db := db.GetDb()
			q := db.Model(&models.Vehicle{}).Where("is_available = ?", true)
			if query.Category != "" {
				if !types.VehicleCategory(query.Category).Valid() {
					ctx.JSON(http.StatusBadRequest, gin.H{"error": "unknown category", "field": "category"})
					return
				}
				q = q.Where("category = ?", query.Category)
			}
			if query.Transmission != "" {
				q = q.Where("transmission = ?", query.Transmission)
			}
			if query.Capacity > 0 {
				q = q.Where("capacity >= ?", query.Capacity)
			}
			var vehicles []models.Vehicle
			if err := q.Order("daily_rate asc").Find(&vehicles).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}

			// Without a date range this is a plain catalog listing. With one,
			// each vehicle carries its unit availability for the range,
			// derived by the same engine that gates reservation writes.
			if query.PickupDate == "" || query.DropoffDate == "" {
				ctx.JSON(http.StatusOK, gin.H{"data": vehicles, "count": len(vehicles)})
				return
			}
			pickup, err := common.ParseDate("pickup_date", query.PickupDate)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}
			dropoff, err := common.ParseDate("dropoff_date", query.DropoffDate)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}
			type vehicleWithAvailability struct {
				models.Vehicle
				Availability *common.AvailabilityResult `json:"availability"`
			}
			data := make([]vehicleWithAvailability, 0, len(vehicles))
			for i := range vehicles {
				active, err := common.FindActiveBookingsOverlapping(db, vehicles[i].ID, pickup, dropoff, 0)
				if err != nil {
					ctx.JSON(http.StatusInternalServerError, gin.H{"error": "something went wrong"})
					return
				}
				result, err := common.ComputeAvailability(&vehicles[i], active, pickup, dropoff, 0)
				if err != nil {
					respondDomainError(ctx, err)
					return
				}
				data = append(data, vehicleWithAvailability{Vehicle: vehicles[i], Availability: result})
			}
			ctx.JSON(http.StatusOK, gin.H{"data": data, "count": len(data)})
		}).
		GET("/vehicles/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			db := db.GetDb()
			var vehicle models.Vehicle
			if err := db.
				Model(&models.Vehicle{}).
				Where(&models.Vehicle{ID: params.ID}).
				First(&vehicle).
				Error; err != nil {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
				return
			}
			ctx.JSON(http.StatusOK, gin.H{"data": vehicle})
		}).
		GET("/vehicles/:id/availability", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var query types.AvailabilityQuery
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			pickup, err := common.ParseDate("pickup_date", query.PickupDate)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}
			dropoff, err := common.ParseDate("dropoff_date", query.DropoffDate)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}

			cacheKey := fmt.Sprintf("vehicle_availability:%d:%s:%s:%d",
				params.ID, query.PickupDate, query.DropoffDate, query.ExcludeID)
			if cached, ok := lib.GetCachedAvailability(cacheKey); ok {
				var result common.AvailabilityResult
				if err := json.Unmarshal([]byte(cached), &result); err == nil {
					ctx.JSON(http.StatusOK, gin.H{"data": result, "cached": true})
					return
				}
			}

			_, result, err := common.CheckAvailability(params.ID, pickup, dropoff, query.ExcludeID)
			if err != nil {
				respondDomainError(ctx, err)
				return
			}
			if payload, err := json.Marshal(result); err == nil {
				lib.CacheAvailability(cacheKey, string(payload), 30*time.Second)
			}
			ctx.JSON(http.StatusOK, gin.H{"data": result})
		})
	return g
}

func adminVehicleHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/vehicles", func(ctx *gin.Context) {
			var body types.CreateVehicleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			vehicle := models.Vehicle{
				Name:         body.Name,
				Slug:         utils.VehicleSlug(body.Name),
				Category:     types.VehicleCategory(body.Category),
				Capacity:     body.Capacity,
				Transmission: types.Transmission(body.Transmission),
				DailyRate:    body.DailyRate,
				Quantity:     body.Quantity,
				IsAvailable:  true,
				ImageURL:     body.ImageURL,
			}
			db := db.GetDb()
			if err := db.Create(&vehicle).Error; err != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusCreated, gin.H{"data": vehicle})
		}).
		PATCH("/vehicles/:id", func(ctx *gin.Context) {
			var params types.SimpleRequestParams
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateVehicleRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{}
			if body.DailyRate != nil {
				updates["daily_rate"] = *body.DailyRate
			}
			if body.Quantity != nil {
				updates["quantity"] = *body.Quantity
			}
			if body.IsAvailable != nil {
				updates["is_available"] = *body.IsAvailable
			}
			if len(updates) == 0 {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": "no updatable fields in request"})
				return
			}
			db := db.GetDb()
			res := db.Model(&models.Vehicle{}).Where("id = ?", params.ID).Updates(updates)
			if res.Error != nil {
				ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": res.Error.Error()})
				return
			}
			if res.RowsAffected == 0 {
				ctx.JSON(http.StatusNotFound, gin.H{"error": "vehicle not found"})
				return
			}
			ctx.Status(http.StatusNoContent)
		})
	return g
}
