package etl

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"mbta-delay-pipeline/models"
)

// LiveChannel is the Redis pub/sub channel carrying loaded delay rows.
const LiveChannel = "mbta:delays"

// mirrorToPostgres upserts loaded rows into the delay_records table so
// the API can serve history queries. Best effort: failures are counted
// and logged, never returned.
func (p *Pipeline) mirrorToPostgres(ctx context.Context, records []models.DelayRecord) int {
	mirrored := 0
	for _, rec := range records {
		_, err := p.DB.Exec(ctx, `
			INSERT INTO delay_records (route_id, route_name, trip_id, headsign, direction_id,
				status, delay_seconds, delay_minutes, departure_time, execution_date)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			ON CONFLICT (trip_id, departure_time, execution_date) DO UPDATE SET
				status = EXCLUDED.status,
				delay_seconds = EXCLUDED.delay_seconds,
				delay_minutes = EXCLUDED.delay_minutes
		`, rec.RouteID, rec.RouteName, rec.TripID, rec.Headsign, rec.DirectionID,
			rec.Status, rec.DelaySeconds, rec.DelayMinutes, normalizeUTC(rec.DepartureTime), rec.ExecutionDate)
		if err != nil {
			log.Printf("postgres mirror failed for trip=%s: %v", rec.TripID, err)
			continue
		}
		rowsMirrored.Inc()
		mirrored++
	}
	return mirrored
}

// normalizeUTC rewrites an ISO-8601 timestamp to UTC so the mirrored
// departure_time values order lexicographically even across offset
// changes. Values that do not parse pass through unchanged.
func normalizeUTC(iso string) string {
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format(time.RFC3339)
}

// publishLive publishes each loaded row as JSON on the live channel.
func (p *Pipeline) publishLive(ctx context.Context, records []models.DelayRecord) int {
	published := 0
	for _, rec := range records {
		data, err := json.Marshal(rec)
		if err != nil {
			log.Printf("json marshal failed for trip=%s: %v", rec.TripID, err)
			continue
		}
		if err := p.Redis.Publish(ctx, LiveChannel, data).Err(); err != nil {
			log.Printf("redis publish failed for trip=%s: %v", rec.TripID, err)
			continue
		}
		rowsPublished.Inc()
		published++
	}
	return published
}
