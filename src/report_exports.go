package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"path"
	"srs/src/models"
	"strconv"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/jung-kurt/gofpdf"
)

func exportFilePath(title, ext string) (string, error) {
	wd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("%s-%d.%s", slug.Make(title), time.Now().Unix(), ext)
	return path.Join(wd, os.Getenv("TEMP_DIR"), filename), nil
}

func reservationInternName(r *models.Reservation) string {
	if r.Intern == nil {
		return ""
	}
	return r.Intern.Name
}

func reservationSeatColumns(r *models.Reservation) (string, string) {
	if r.Seat == nil {
		return "", ""
	}
	return r.Seat.SeatNumber, r.Seat.Location
}

// exportReservationsCSV renders the rows into a spreadsheet-friendly report
// with a small metadata preamble, written under TEMP_DIR.
func exportReservationsCSV(title string, rows []*models.Reservation) (string, error) {
	filepath, err := exportFilePath(title, "csv")
	if err != nil {
		return "", err
	}
	f, err := os.Create(filepath)
	if err != nil {
		return "", err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	records := [][]string{
		{title},
		{"Generated on:", time.Now().Format("2006-01-02 15:04:05")},
		{"Total Records:", strconv.Itoa(len(rows))},
		{},
		{"Intern Name", "Seat Number", "Floor/Location", "Reservation Date", "Start Time", "End Time", "Status", "Booking Date"},
	}
	for _, r := range rows {
		seatNumber, location := reservationSeatColumns(r)
		records = append(records, []string{
			reservationInternName(r),
			seatNumber,
			location,
			r.Date,
			r.StartTime,
			r.EndTime,
			strings.ToUpper(r.Status),
			r.CreatedAt.Format("2006-01-02"),
		})
	}
	if err := w.WriteAll(records); err != nil {
		return "", err
	}
	return filepath, nil
}

// exportReservationsPDF renders the rows as an A4 table.
func exportReservationsPDF(title string, rows []*models.Reservation) (string, error) {
	filepath, err := exportFilePath(title, "pdf")
	if err != nil {
		return "", err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Arial", "B", 16)
	pdf.SetTextColor(26, 54, 93)
	pdf.CellFormat(0, 10, strings.ToUpper(title), "", 1, "C", false, 0, "")
	pdf.SetFont("Arial", "", 9)
	pdf.SetTextColor(130, 130, 130)
	pdf.CellFormat(0, 6, fmt.Sprintf("Generated on: %s", time.Now().Format("2006-01-02 15:04:05")), "", 1, "C", false, 0, "")
	pdf.CellFormat(0, 6, fmt.Sprintf("Total Records: %d", len(rows)), "", 1, "C", false, 0, "")
	pdf.Ln(4)

	if len(rows) == 0 {
		pdf.SetFont("Arial", "", 12)
		pdf.SetTextColor(100, 100, 100)
		pdf.CellFormat(0, 10, "No reservations found.", "", 1, "C", false, 0, "")
		return filepath, pdf.OutputFileAndClose(filepath)
	}

	headers := []string{"#", "Intern", "Seat", "Floor", "Date", "Start", "End", "Status"}
	widths := []float64{10, 40, 20, 30, 30, 20, 20, 20}
	pdf.SetFont("Arial", "B", 9)
	pdf.SetFillColor(26, 54, 93)
	pdf.SetTextColor(255, 255, 255)
	for i, h := range headers {
		pdf.CellFormat(widths[i], 8, h, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for i, r := range rows {
		if i%2 == 0 {
			pdf.SetFillColor(248, 249, 250)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}
		seatNumber, location := reservationSeatColumns(r)
		cols := []string{
			strconv.Itoa(i + 1),
			reservationInternName(r),
			seatNumber,
			location,
			r.Date,
			r.StartTime,
			r.EndTime,
			strings.ToUpper(r.Status),
		}
		for j, c := range cols {
			if j == len(cols)-1 {
				if r.Status == "active" {
					pdf.SetTextColor(34, 197, 94)
				} else {
					pdf.SetTextColor(220, 53, 69)
				}
			} else {
				pdf.SetTextColor(51, 51, 51)
			}
			pdf.CellFormat(widths[j], 7, c, "1", 0, "C", true, 0, "")
		}
		pdf.Ln(-1)
	}

	return filepath, pdf.OutputFileAndClose(filepath)
}
