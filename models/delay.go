package models

import (
	"fmt"
	"strconv"
)

// DelayRecord is one delayed commuter rail prediction, produced once
// per ETL run and immutable after write. DirectionID is a pointer
// because the trip reference data can be missing from the payload.
type DelayRecord struct {
	RouteID       string   `gorm:"column:route_id" json:"route_id"`
	RouteName     string   `gorm:"column:route_name" json:"route_name"`
	TripID        string   `gorm:"column:trip_id;primaryKey" json:"trip_id"`
	Headsign      string   `gorm:"column:headsign" json:"headsign"`
	DirectionID   *int     `gorm:"column:direction_id" json:"direction_id"`
	Status        string   `gorm:"column:status" json:"status"`
	DelaySeconds  float64  `gorm:"column:delay_seconds" json:"delay_seconds"`
	DelayMinutes  float64  `gorm:"column:delay_minutes" json:"delay_minutes"`
	DepartureTime string   `gorm:"column:departure_time;primaryKey" json:"departure_time"`
	ExecutionDate string   `gorm:"column:execution_date;primaryKey" json:"execution_date"`
}

func (DelayRecord) TableName() string { return "delay_records" }

// DelayCSVHeader is the fixed column order of the clean and warehouse
// CSV files.
var DelayCSVHeader = []string{
	"route_id", "route_name", "trip_id", "headsign", "direction_id",
	"status", "delay_seconds", "delay_minutes", "departure_time", "execution_date",
}

// CSVRow renders the record in DelayCSVHeader order. Formatting is
// fixed so the same record always produces the same bytes.
func (r DelayRecord) CSVRow() []string {
	direction := ""
	if r.DirectionID != nil {
		direction = strconv.Itoa(*r.DirectionID)
	}
	return []string{
		r.RouteID,
		r.RouteName,
		r.TripID,
		r.Headsign,
		direction,
		r.Status,
		strconv.FormatFloat(r.DelaySeconds, 'g', -1, 64),
		strconv.FormatFloat(r.DelayMinutes, 'g', -1, 64),
		r.DepartureTime,
		r.ExecutionDate,
	}
}

// DelayRecordFromCSVRow parses a row written by CSVRow.
func DelayRecordFromCSVRow(row []string) (DelayRecord, error) {
	if len(row) != len(DelayCSVHeader) {
		return DelayRecord{}, fmt.Errorf("csv row has %d columns, want %d", len(row), len(DelayCSVHeader))
	}

	var rec DelayRecord
	rec.RouteID = row[0]
	rec.RouteName = row[1]
	rec.TripID = row[2]
	rec.Headsign = row[3]
	if row[4] != "" {
		d, err := strconv.Atoi(row[4])
		if err != nil {
			return DelayRecord{}, fmt.Errorf("invalid direction_id %q: %w", row[4], err)
		}
		rec.DirectionID = &d
	}
	rec.Status = row[5]

	seconds, err := strconv.ParseFloat(row[6], 64)
	if err != nil {
		return DelayRecord{}, fmt.Errorf("invalid delay_seconds %q: %w", row[6], err)
	}
	rec.DelaySeconds = seconds

	minutes, err := strconv.ParseFloat(row[7], 64)
	if err != nil {
		return DelayRecord{}, fmt.Errorf("invalid delay_minutes %q: %w", row[7], err)
	}
	rec.DelayMinutes = minutes

	rec.DepartureTime = row[8]
	rec.ExecutionDate = row[9]
	return rec, nil
}
