package operator

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"zapcrm/internal/infrastructure/realtime"
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins for now; plug a proper checker when auth is added.
		return true
	},
}

const readTimeout = 60 * time.Second

type ackFrame struct {
	Type      string `json:"type"`
	CompanyID int64  `json:"company_id"`
}

// FeedSocketController upgrades operators onto the realtime feed. The stream
// is one-way: the server pushes timeline events, inbound frames are ignored
// except as liveness signals.
type FeedSocketController struct {
	feed *Feed
}

func NewFeedSocketController(feed *Feed) *FeedSocketController {
	return &FeedSocketController{feed: feed}
}

// Handle upgrades the connection and keeps it attached until the operator disconnects.
func (ctl *FeedSocketController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		operatorID := c.Query("operator_id")
		if operatorID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "operator_id is required"})
			return
		}
		companyID, err := strconv.ParseInt(c.Query("company_id"), 10, 64)
		if err != nil || companyID <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "company_id is required"})
			return
		}

		ws, err := wsUpgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			// Upgrade already wrote the response; just log and return.
			return
		}

		conn := realtime.NewConnection(operatorID, companyID, ws)
		ctl.feed.Hub().Attach(conn)
		defer func() {
			ctl.feed.Hub().Detach(conn)
			conn.Close(websocket.CloseNormalClosure, "session closed")
		}()

		ws.SetReadLimit(1 << 16)
		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		ws.SetPongHandler(func(string) error {
			return ws.SetReadDeadline(time.Now().Add(readTimeout))
		})

		if payload, err := json.Marshal(ackFrame{Type: "connected", CompanyID: companyID}); err == nil {
			_ = conn.Send(payload)
		}

		// drain inbound frames to keep the read deadline moving
		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return
			}
			_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
		}
	}
}
