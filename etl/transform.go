package etl

import (
	"encoding/json"
	"fmt"

	"mbta-delay-pipeline/mbta"
	"mbta-delay-pipeline/models"
)

type routeInfo struct {
	name string
}

type tripInfo struct {
	headsign    string
	directionID *int
}

// TransformPayload parses a raw predictions payload and projects each
// prediction with a known delay into a DelayRecord. Route and trip
// names come from the side-loaded reference data; when a reference is
// missing the fields stay empty rather than failing the row.
// Predictions with a null delay are dropped. The output order follows
// the payload order, so the same payload always yields the same rows.
func TransformPayload(raw []byte, executionDate string) ([]models.DelayRecord, error) {
	var env mbta.Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("parse raw payload: %w", err)
	}

	routes := make(map[string]routeInfo)
	trips := make(map[string]tripInfo)
	for _, item := range env.Included {
		switch item.Type {
		case "route":
			routes[item.ID] = routeInfo{name: item.Attributes.RouteName()}
		case "trip":
			trips[item.ID] = tripInfo{
				headsign:    item.Attributes.Headsign,
				directionID: item.Attributes.DirectionID,
			}
		}
	}

	var records []models.DelayRecord
	for _, pred := range env.Data {
		delay := pred.Attributes.Delay
		if delay == nil {
			continue
		}

		routeID := pred.RelatedID("route")
		tripID := pred.RelatedID("trip")

		records = append(records, models.DelayRecord{
			RouteID:       routeID,
			RouteName:     routes[routeID].name,
			TripID:        tripID,
			Headsign:      trips[tripID].headsign,
			DirectionID:   trips[tripID].directionID,
			Status:        pred.Attributes.Status,
			DelaySeconds:  *delay,
			DelayMinutes:  *delay / 60.0,
			DepartureTime: pred.Attributes.DepartureTime,
			ExecutionDate: executionDate,
		})
	}
	return records, nil
}
