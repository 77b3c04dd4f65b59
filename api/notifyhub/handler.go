package notifyhub

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// clients only send close and ping frames on this stream
const clientReadLimit = 512

var upgrader = websocket.Upgrader{
	// the route sits behind OnlyAllowLocal
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleNotifyWS upgrades to a websocket and streams generate/command events until the client leaves.
func HandleNotifyWS(hub *Hub) gin.HandlerFunc {
	return func(c *gin.Context) {
		conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.SetReadLimit(clientReadLimit)

		hub.Register(conn)
		defer hub.Unregister(conn)

		// returns once the client closes or the hub drops it
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}
}
