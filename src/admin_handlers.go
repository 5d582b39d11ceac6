package main

import (
	"errors"
	"log"
	"net/http"
	"path"
	"srs/src/common"
	"srs/src/config"
	"srs/src/db"
	"srs/src/models"
	"srs/src/types"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

var errSeatNumberTaken = errors.New("seat number already exists")

func adminHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	g.
		POST("/seat", func(ctx *gin.Context) {
			var body types.CreateSeatRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			seat := models.Seat{
				SeatNumber: body.SeatNumber,
				Location:   body.Location,
				Status:     string(types.SEAT_AVAILABLE),
			}
			err := db.GetDb().Transaction(func(tx *gorm.DB) error {
				var existing int64
				if err := tx.Model(&models.Seat{}).Where("seat_number = ?", body.SeatNumber).Count(&existing).Error; err != nil {
					return err
				}
				if existing > 0 {
					return errSeatNumberTaken
				}
				return tx.Create(&seat).Error
			})
			if err != nil {
				log.Printf("Could not create seat: %s\n", err.Error())
				status := http.StatusInternalServerError
				if errors.Is(err, errSeatNumberTaken) {
					status = http.StatusConflict
				}
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			go common.NotifySeatAdded(&seat, body.AdminEmail)
			ctx.JSON(http.StatusCreated, gin.H{"message": "Seat added successfully!", "seat": seat})
		}).
		PUT("/seat/:seatId", func(ctx *gin.Context) {
			var params struct {
				SeatID uint `uri:"seatId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body types.UpdateSeatRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			var seat models.Seat
			if err := db.GetDb().First(&seat, params.SeatID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "seat not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			updates := map[string]any{
				"seat_number": body.SeatNumber,
				"location":    body.Location,
				"status":      body.Status,
			}
			if err := db.GetDb().Model(&seat).Updates(updates).Error; err != nil {
				log.Printf("Could not update seat [%d]: %s\n", params.SeatID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			go common.NotifySeatUpdated(&seat, body.AdminEmail)
			ctx.JSON(http.StatusOK, gin.H{"message": "Seat updated"})
		}).
		DELETE("/seat/:seatId", func(ctx *gin.Context) {
			var params struct {
				SeatID uint `uri:"seatId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			var body struct {
				AdminEmail string `json:"admin_email,omitempty"`
			}
			ctx.ShouldBindJSON(&body)
			var seat models.Seat
			if err := db.GetDb().First(&seat, params.SeatID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					ctx.JSON(http.StatusNotFound, gin.H{"error": "seat not found"})
					return
				}
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			if err := db.GetDb().Delete(&seat).Error; err != nil {
				log.Printf("Could not delete seat [%d]: %s\n", params.SeatID, err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			go common.NotifySeatRemoved(&seat, body.AdminEmail)
			ctx.JSON(http.StatusOK, gin.H{"message": "Seat deleted"})
		}).
		GET("/seats", func(ctx *gin.Context) {
			seats := []models.Seat{}
			if err := db.GetDb().
				Order("location, seat_number").
				Find(&seats).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, seats)
		}).
		GET("/view-seats", func(ctx *gin.Context) {
			var query struct {
				Floor string `form:"floor" binding:"required"`
				Date  string `form:"date,omitempty"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date := query.Date
			if date == "" {
				date = time.Now().Format(config.DATE_FORMAT)
			}
			seats := []models.Seat{}
			if err := db.GetDb().
				Where("location = ?", query.Floor).
				Preload("Reservations", "date = ? AND status = ?", date, types.RESERVATION_ACTIVE).
				Preload("Reservations.Intern").
				Order("seat_number").
				Find(&seats).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			result := make([]gin.H, 0, len(seats))
			for _, seat := range seats {
				entry := gin.H{
					"id":              seat.ID,
					"seat_number":     seat.SeatNumber,
					"location":        seat.Location,
					"status":          seat.Status,
					"booked":          len(seat.Reservations) > 0,
					"booking_details": nil,
				}
				if len(seat.Reservations) > 0 {
					r := seat.Reservations[0]
					details := gin.H{
						"date":       r.Date,
						"start_time": r.StartTime,
						"end_time":   r.EndTime,
						"status":     r.Status,
						"created_at": r.CreatedAt,
					}
					if r.Intern != nil {
						details["intern_name"] = r.Intern.Name
					}
					entry["booking_details"] = details
				}
				result = append(result, entry)
			}
			ctx.JSON(http.StatusOK, result)
		}).
		GET("/reservations", func(ctx *gin.Context) {
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Preload("Seat").
				Preload("Intern").
				Order("date DESC").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/reservations/:internId", func(ctx *gin.Context) {
			var params struct {
				InternID uint `uri:"internId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Where("intern_id = ?", params.InternID).
				Preload("Seat").
				Order("date DESC").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/reports", func(ctx *gin.Context) {
			type seatUsage struct {
				SeatNumber        string `json:"seat_number"`
				TotalReservations int64  `json:"total_reservations"`
			}
			report := []seatUsage{}
			if err := db.GetDb().
				Model(&models.Reservation{}).
				Select("seats.seat_number, COUNT(reservations.id) AS total_reservations").
				Joins("JOIN seats ON seats.id = reservations.seat_id").
				Where("reservations.status = ?", types.RESERVATION_ACTIVE).
				Group("seats.seat_number").
				Order("total_reservations DESC").
				Scan(&report).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, report)
		}).
		GET("/used-seats", func(ctx *gin.Context) {
			now := time.Now().Format(config.TIME_PARSE_FORMAT)
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Where("status = ?", types.RESERVATION_ACTIVE).
				Where("(date || ' ' || end_time)::timestamp < ?", now).
				Preload("Seat").
				Preload("Intern").
				Order("date DESC, end_time DESC").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/current-seats", func(ctx *gin.Context) {
			now := time.Now().Format(config.TIME_PARSE_FORMAT)
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Where("status = ?", types.RESERVATION_ACTIVE).
				Where("(date || ' ' || start_time)::timestamp <= ? AND (date || ' ' || end_time)::timestamp >= ?", now, now).
				Preload("Seat").
				Preload("Intern").
				Order("start_time").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/cancelled-reservations", func(ctx *gin.Context) {
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Where("status = ?", types.RESERVATION_CANCELLED).
				Preload("Seat").
				Preload("Intern").
				Order("date DESC").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/export/csv", func(ctx *gin.Context) {
			rows, err := allReservationRows()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filepath, err := exportReservationsCSV("Seat Reservation System - All Reservations Report", rows)
			if err != nil {
				log.Printf("Could not export CSV: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "CSV export failed"})
				return
			}
			ctx.FileAttachment(filepath, path.Base(filepath))
		}).
		GET("/export/pdf", func(ctx *gin.Context) {
			rows, err := allReservationRows()
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filepath, err := exportReservationsPDF("Seat Reservation Report", rows)
			if err != nil {
				log.Printf("Could not export PDF: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "PDF export failed"})
				return
			}
			ctx.FileAttachment(filepath, path.Base(filepath))
		})
	return g
}

func allReservationRows() ([]*models.Reservation, error) {
	rows := []*models.Reservation{}
	err := db.GetDb().
		Preload("Seat").
		Preload("Intern").
		Order("date DESC").
		Find(&rows).
		Error
	return rows, err
}
