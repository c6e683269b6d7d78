package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mbta-delay-pipeline/mbta"
	"mbta-delay-pipeline/textutil"
)

const (
	northeasternStopID = "place-nuniv"
	northeasternName   = "Northeastern University Station"
)

// ChatHandler answers simple rider questions about the next trains at
// Northeastern University Station using live MBTA predictions.
type ChatHandler struct {
	client *mbta.Client
	now    func() time.Time
}

func NewChatHandler(client *mbta.Client) *ChatHandler {
	return &ChatHandler{client: client, now: time.Now}
}

type ChatRequest struct {
	Message string `json:"message" binding:"required"`
}

type ChatResponse struct {
	Reply string `json:"reply"`
}

func (h *ChatHandler) HandleChat(c *gin.Context) {
	var req ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, ChatResponse{Reply: h.reply(c.Request.Context(), req.Message)})
}

func (h *ChatHandler) reply(ctx context.Context, message string) string {
	tokens := textutil.Tokenize(message)
	has := func(words ...string) bool {
		for _, tok := range tokens {
			for _, w := range words {
				if tok == w {
					return true
				}
			}
		}
		return false
	}

	atNortheastern := has("northeastern", "neu", "here") ||
		strings.Contains(textutil.Normalize(message), "this station")
	asksTrain := has("train", "trains", "next", "when", "where", "coming", "arrive")

	if atNortheastern && asksTrain {
		reply, err := h.nextTrainsNortheastern(ctx)
		if err != nil {
			return fmt.Sprintf("I tried to look up the live trains for Northeastern, but I hit an error: %v", err)
		}
		return reply
	}

	if has("help") || strings.Contains(textutil.Normalize(message), "what can you do") {
		return "You can ask things like:\n" +
			"• Where is the train right now? I'm at Northeastern\n" +
			"• When is the next train at Northeastern?\n\n" +
			"Right now I'm focused on Northeastern University Station (Green Line E)."
	}

	return "I'm a simple MBTA helper.\n\n" +
		"Try asking:\n" +
		"• Where is the train right now? I'm at Northeastern\n" +
		"• When is the next train at Northeastern?\n" +
		"I'll use live MBTA data for Northeastern University Station."
}

func (h *ChatHandler) nextTrainsNortheastern(ctx context.Context) (string, error) {
	env, err := h.client.Predictions(ctx, mbta.PredictionsQuery{
		StopFilter: northeasternStopID,
		Sort:       "departure_time",
		Include:    "route",
		Limit:      5,
	})
	if err != nil {
		return "", err
	}

	if len(env.Data) == 0 {
		return fmt.Sprintf("I don't see any upcoming Green Line trains at %s right now.", northeasternName), nil
	}

	routeNames := make(map[string]string)
	for _, item := range env.Included {
		if item.Type == "route" {
			name := item.Attributes.RouteName()
			if name == "" {
				name = item.ID
			}
			routeNames[item.ID] = name
		}
	}

	preds := env.Data
	if len(preds) > 3 {
		preds = preds[:3]
	}

	var lines []string
	for _, p := range preds {
		dep := p.Attributes.DepartureTime
		if dep == "" {
			dep = p.Attributes.ArrivalTime
		}

		status := p.Attributes.Status
		if status == "" || status == "No status" {
			status = "No status"
			if tripID := p.RelatedID("trip"); tripID != "" {
				if prev := h.previousStopForTrip(ctx, tripID); prev != "" {
					status = "Left " + prev
				}
			}
		}

		routeName := p.RelatedID("route")
		if name, ok := routeNames[routeName]; ok {
			routeName = name
		}
		if routeName == "" {
			routeName = "Unknown route"
		}

		direction := "Unknown direction"
		if p.Attributes.DirectionID != nil {
			switch *p.Attributes.DirectionID {
			case 0:
				direction = "Outbound"
			case 1:
				direction = "Inbound"
			}
		}

		tStr := formatTime(dep)
		var when string
		mins, ok := minutesUntil(dep, h.now())
		switch {
		case !ok:
			when = "at " + tStr
		case mins <= 0:
			when = "arriving now"
		case mins == 1:
			when = "in 1 minute"
		default:
			when = fmt.Sprintf("in %d minutes", mins)
		}

		lines = append(lines, fmt.Sprintf("• %s (%s): %s (scheduled at %s, %s)",
			routeName, direction, when, tStr, status))
	}

	header := fmt.Sprintf("You're at %s.\nHere are the next trains:", northeasternName)
	return header + "\n" + strings.Join(lines, "\n"), nil
}

// previousStopForTrip infers the last known stop for the vehicle on a
// trip. Best effort: any failure yields "".
func (h *ChatHandler) previousStopForTrip(ctx context.Context, tripID string) string {
	env, err := h.client.Vehicles(ctx, tripID, 1)
	if err != nil || len(env.Data) == 0 {
		return ""
	}
	stopID := env.Data[0].RelatedID("stop")
	if stopID == "" {
		return ""
	}
	name, err := h.client.StopName(ctx, stopID)
	if err != nil {
		return ""
	}
	return name
}

// formatTime renders an ISO timestamp as "7:31 PM". Unparseable input
// is returned unchanged; empty input becomes "Unknown time".
func formatTime(iso string) string {
	if iso == "" {
		return "Unknown time"
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return iso
	}
	return t.Format("3:04 PM")
}

// minutesUntil reports the rounded minutes from now until the ISO
// timestamp, and false when the timestamp is empty or unparseable.
func minutesUntil(iso string, now time.Time) (int, bool) {
	if iso == "" {
		return 0, false
	}
	t, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return 0, false
	}
	mins := int(t.Sub(now).Round(time.Minute) / time.Minute)
	return mins, true
}
