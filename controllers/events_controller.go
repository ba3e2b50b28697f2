package controllers

import (
	"io"

	"github.com/gin-gonic/gin"
	"github.com/tallesnicacio/a-pay-sub001/middleware"
	"github.com/tallesnicacio/a-pay-sub001/realtime"
)

// EventsController streams tenant events over SSE so kitchen displays and
// cashier screens update without polling.
type EventsController struct {
	Hub *realtime.Hub
}

func NewEventsController(hub *realtime.Hub) *EventsController {
	return &EventsController{Hub: hub}
}

// Stream handles GET /api/v1/events. Buffered events are replayed first so a
// reconnecting display catches up, then live events follow until the client
// disconnects.
func (ctl *EventsController) Stream(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}

	events, cancel := ctl.Hub.Subscribe(establishmentID)
	defer cancel()

	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	for _, ev := range ctl.Hub.Recent(establishmentID) {
		c.SSEvent(ev.Type, ev)
	}
	c.Writer.Flush()

	clientGone := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case ev, ok := <-events:
			if !ok {
				return false
			}
			c.SSEvent(ev.Type, ev)
			return true
		case <-clientGone:
			return false
		}
	})
}

// Recent handles GET /api/v1/events/recent - a polling fallback returning
// the buffered events.
func (ctl *EventsController) Recent(c *gin.Context) {
	establishmentID, err := middleware.GetEstablishmentID(c)
	if err != nil {
		respondErrorCode(c, 401, "UNAUTHORIZED", "Could not extract user information")
		return
	}
	respondOK(c, ctl.Hub.Recent(establishmentID))
}
