package main

import (
	"log"
	"net/http"
	"path"
	"srs/src/common"
	"srs/src/config"
	"srs/src/db"
	"srs/src/models"
	"srs/src/types"
	"srs/src/utils"
	"time"

	"github.com/gin-gonic/gin"
)

func loadReservationForNotify(id uint) *models.Reservation {
	var reservation models.Reservation
	if err := db.GetDb().
		Preload("Seat").
		Preload("Intern").
		First(&reservation, id).
		Error; err != nil {
		log.Printf("Could not load reservation [%d] for notification: %s\n", id, err.Error())
		return nil
	}
	return &reservation
}

func internHandlers(g *gin.RouterGroup) *gin.RouterGroup {
	intern := g.Group("/intern")
	intern.
		GET("/seats/by-floor", func(ctx *gin.Context) {
			var query struct {
				Floor string `form:"floor" binding:"required"`
			}
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			seats := []models.Seat{}
			if err := db.GetDb().
				Where("location = ? AND status = ?", query.Floor, types.SEAT_AVAILABLE).
				Order("seat_number").
				Find(&seats).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, seats)
		}).
		GET("/seats/available", func(ctx *gin.Context) {
			var query types.AvailabilityQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			seats, status, err := utils.AvailableSeats(query.Floor, query.Date, query.Start, query.End)
			if err != nil {
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(status, seats)
		}).
		POST("/reserve", func(ctx *gin.Context) {
			var body types.ReserveSeatRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			// the authenticated identity always wins over the payload
			if id := ctx.GetUint("id"); id != 0 {
				body.InternID = id
			}
			reservation, status, err := utils.CreateReservation(&body)
			if err != nil {
				log.Printf("[CreateReservation] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			if full := loadReservationForNotify(reservation.ID); full != nil {
				go common.NotifySeatReserved(full)
			}
			ctx.JSON(status, gin.H{"message": "Seat reserved successfully!", "reservation": reservation})
		}).
		GET("/my-reservations/:userId", func(ctx *gin.Context) {
			var params struct {
				UserID uint `uri:"userId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Where("intern_id = ?", params.UserID).
				Preload("Seat").
				Order("date DESC, start_time DESC").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/past-reservations/:userId", func(ctx *gin.Context) {
			var params struct {
				UserID uint `uri:"userId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			now := time.Now().Format(config.TIME_PARSE_FORMAT)
			reservations := []models.Reservation{}
			if err := db.GetDb().
				Where("intern_id = ?", params.UserID).
				Where("(date || ' ' || end_time)::timestamp < ?", now).
				Preload("Seat").
				Order("date DESC").
				Find(&reservations).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			ctx.JSON(http.StatusOK, reservations)
		}).
		GET("/manual-seats", func(ctx *gin.Context) {
			var query types.SeatMapQueryParams
			if err := ctx.ShouldBindQuery(&query); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			date := query.Date
			if date == "" {
				date = time.Now().Format(config.DATE_FORMAT)
			}
			userId := query.UserID
			if userId == 0 {
				userId = ctx.GetUint("id")
			}
			seats := []models.Seat{}
			if err := db.GetDb().
				Where("location = ?", query.Floor).
				Preload("Reservations", "date = ? AND status = ?", date, types.RESERVATION_ACTIVE).
				Order("seat_number").
				Find(&seats).
				Error; err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			result := make([]gin.H, 0, len(seats))
			for _, seat := range seats {
				bookedByMe := false
				bookedByOther := false
				for _, r := range seat.Reservations {
					if r.InternID == userId {
						bookedByMe = true
					} else {
						bookedByOther = true
					}
				}
				result = append(result, gin.H{
					"id":          seat.ID,
					"seat_number": seat.SeatNumber,
					"location":    seat.Location,
					"bookedByMe":  bookedByMe,
					"booked":      bookedByOther,
				})
			}
			ctx.JSON(http.StatusOK, result)
		}).
		PUT("/edit", func(ctx *gin.Context) {
			var body types.EditReservationRequestBody
			if err := ctx.ShouldBindJSON(&body); err != nil {
				ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			internId := ctx.GetUint("id")
			reservation, status, err := utils.EditReservation(&body, internId)
			if err != nil {
				log.Printf("[EditReservation] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			if full := loadReservationForNotify(reservation.ID); full != nil {
				go common.NotifyReservationEdited(full)
			}
			ctx.JSON(status, gin.H{"message": "Reservation updated.", "reservation": reservation})
		}).
		DELETE("/cancel/:reservationId", func(ctx *gin.Context) {
			var params struct {
				ReservationID uint `uri:"reservationId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			internId := ctx.GetUint("id")
			reservation, status, err := utils.CancelReservation(params.ReservationID, internId)
			if err != nil {
				log.Printf("[CancelReservation] error: %s\n", err.Error())
				ctx.JSON(status, gin.H{"error": err.Error()})
				return
			}
			if full := loadReservationForNotify(reservation.ID); full != nil {
				go common.NotifyReservationCancelled(full)
			}
			ctx.JSON(status, gin.H{"message": "Reservation cancelled."})
		}).
		GET("/my-reservations/export/:userId", func(ctx *gin.Context) {
			var params struct {
				UserID uint `uri:"userId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			rows, err := internReservationRows(params.UserID)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filepath, err := exportReservationsCSV("My Seat Reservations Report", rows)
			if err != nil {
				log.Printf("Could not export CSV: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export CSV"})
				return
			}
			ctx.FileAttachment(filepath, path.Base(filepath))
		}).
		GET("/my-reservations/export/pdf/:userId", func(ctx *gin.Context) {
			var params struct {
				UserID uint `uri:"userId" binding:"required"`
			}
			if err := ctx.ShouldBindUri(&params); err != nil {
				ctx.Status(http.StatusBadRequest)
				return
			}
			rows, err := internReservationRows(params.UserID)
			if err != nil {
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
				return
			}
			filepath, err := exportReservationsPDF("My Seat Reservations", rows)
			if err != nil {
				log.Printf("Could not export PDF: %s\n", err.Error())
				ctx.JSON(http.StatusInternalServerError, gin.H{"error": "PDF export failed"})
				return
			}
			ctx.FileAttachment(filepath, path.Base(filepath))
		})
	return g
}

func internReservationRows(userId uint) ([]*models.Reservation, error) {
	rows := []*models.Reservation{}
	err := db.GetDb().
		Where("intern_id = ?", userId).
		Preload("Seat").
		Preload("Intern").
		Order("date DESC").
		Find(&rows).
		Error
	return rows, err
}
