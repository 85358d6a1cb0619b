package utils

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"neowatch/internal/models"
)

const (
	flybySheet = "Flybys"
	infoSheet  = "Info"

	hazardFill    = "#FFCCCC"
	timestampFmt  = "2006-01-02 15:04"
	numFmtTwoDecs = 4 // #,##0.00
)

var flybyHeaders = []string{
	"Date", "NASA ID", "Name", "Potentially Hazardous", "Velocity (km/h)", "Miss Distance (km)", "Absolute Magnitude",
}

// CreateFlybyWorkbook writes flybys to an xlsx file at path. Rows of
// potentially hazardous asteroids are highlighted.
func CreateFlybyWorkbook(path, title string, flybys []models.Flyby) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), flybySheet); err != nil {
		return err
	}

	for i, header := range flybyHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(flybySheet, cell, header)
	}

	numberStyle, err := f.NewStyle(&excelize.Style{NumFmt: numFmtTwoDecs})
	if err != nil {
		return err
	}
	hazardStyle, err := f.NewStyle(&excelize.Style{
		NumFmt: numFmtTwoDecs,
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{hazardFill},
			Pattern: 1,
		},
	})
	if err != nil {
		return err
	}

	for idx, flyby := range flybys {
		row := idx + 2
		asteroid := flyby.Asteroid
		if asteroid == nil {
			asteroid = &models.Asteroid{}
		}

		values := []interface{}{
			flyby.Date.Format(timestampFmt),
			asteroid.NasaID,
			asteroid.Name,
			yesNo(asteroid.IsPotentiallyHazardous),
			flyby.VelocityKmh,
			flyby.MissDistanceKm,
			"",
		}
		if asteroid.AbsoluteMagnitude != nil {
			values[6] = *asteroid.AbsoluteMagnitude
		}

		start, _ := excelize.CoordinatesToCellName(1, row)
		if err := f.SetSheetRow(flybySheet, start, &values); err != nil {
			return err
		}

		style := numberStyle
		if asteroid.IsPotentiallyHazardous {
			style = hazardStyle
		}
		f.SetCellStyle(flybySheet, fmt.Sprintf("E%d", row), fmt.Sprintf("F%d", row), style)
		if asteroid.IsPotentiallyHazardous {
			f.SetCellStyle(flybySheet, fmt.Sprintf("A%d", row), fmt.Sprintf("D%d", row), hazardStyle)
		}
	}

	for i := 1; i <= len(flybyHeaders); i++ {
		colName, _ := excelize.ColumnNumberToName(i)
		f.SetColWidth(flybySheet, colName, colName, 20)
	}

	if len(flybys) > 1 {
		createVelocityChart(f, len(flybys))
	}

	if err := createInfoSheet(f, title, flybys); err != nil {
		return err
	}

	f.SetActiveSheet(0)

	return f.SaveAs(path)
}

func createVelocityChart(f *excelize.File, rows int) {
	last := rows + 1
	chart := &excelize.Chart{
		Type: excelize.Line,
		Series: []excelize.ChartSeries{
			{
				Name:       "Velocity (km/h)",
				Categories: fmt.Sprintf("%s!$A$2:$A$%d", flybySheet, last),
				Values:     fmt.Sprintf("%s!$E$2:$E$%d", flybySheet, last),
			},
		},
		Title: []excelize.RichTextRun{
			{Text: "Flyby Velocity"},
		},
		XAxis:     excelize.ChartAxis{MajorGridLines: true},
		YAxis:     excelize.ChartAxis{MajorGridLines: true},
		Dimension: excelize.ChartDimension{Width: 600, Height: 400},
	}

	f.AddChart(flybySheet, "I2", chart)
}

func createInfoSheet(f *excelize.File, title string, flybys []models.Flyby) error {
	if _, err := f.NewSheet(infoSheet); err != nil {
		return err
	}

	hazardous := 0
	for _, flyby := range flybys {
		if flyby.Asteroid != nil && flyby.Asteroid.IsPotentiallyHazardous {
			hazardous++
		}
	}

	closest := "-"
	if c := closestApproach(flybys); c != nil {
		closest = fmt.Sprintf("%s, %.0f km", c.String(), c.MissDistanceKm)
	}

	metadata := [][]interface{}{
		{"Report", title},
		{"Report Generated", time.Now().UTC().Format(timestampFmt)},
		{"Total Flybys", len(flybys)},
		{"Hazardous Flybys", hazardous},
		{"Closest Approach", closest},
	}

	for i, row := range metadata {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(infoSheet, cell, &row); err != nil {
			return err
		}
	}
	f.SetColWidth(infoSheet, "A", "B", 30)

	return nil
}

func closestApproach(flybys []models.Flyby) *models.Flyby {
	var closest *models.Flyby
	for i := range flybys {
		if closest == nil || flybys[i].MissDistanceKm < closest.MissDistanceKm {
			closest = &flybys[i]
		}
	}
	return closest
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
