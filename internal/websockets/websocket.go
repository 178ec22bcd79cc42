// Package websockets pushes live map updates to connected clients. Every
// experience event published on the bus is fanned out to all open
// connections so maps refresh without polling.
package websockets

import (
	"time"

	"brokex/config"
	"brokex/internal/database"
	"brokex/internal/events"

	logger "github.com/Bparsons0904/goLogger"

	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

const (
	MESSAGE_TYPE_PING  = "ping"
	MESSAGE_TYPE_PONG  = "pong"
	MESSAGE_TYPE_EVENT = "event"
	MESSAGE_TYPE_ERROR = "error"
	PING_INTERVAL      = 30 * time.Second
	PONG_TIMEOUT       = 60 * time.Second
	WRITE_TIMEOUT      = 10 * time.Second
	MAX_MESSAGE_SIZE   = 64 * 1024
	SEND_CHANNEL_SIZE  = 64
)

type Message struct {
	ID        string         `json:"id"`
	Type      string         `json:"type"`
	Event     string         `json:"event,omitempty"`
	Data      map[string]any `json:"data,omitempty"`
	Timestamp time.Time      `json:"timestamp"`
}

type Client struct {
	ID         string
	Connection *websocket.Conn
	Manager    *Manager
	send       chan Message
}

type Manager struct {
	hub      *Hub
	db       database.DB
	config   config.Config
	log      logger.Logger
	eventBus *events.EventBus
}

func New(
	db database.DB,
	eventBus *events.EventBus,
	config config.Config,
) (*Manager, error) {
	log := logger.New("websockets")

	manager := &Manager{
		hub: &Hub{
			broadcast:  make(chan Message),
			register:   make(chan *Client),
			unregister: make(chan *Client),
			clients:    make(map[string]*Client),
		},
		db:       db,
		config:   config,
		log:      log,
		eventBus: eventBus,
	}

	log.Function("New").Info("Starting websocket hub")
	go manager.hub.run(manager)

	go manager.subscribeToExperienceEvents()

	return manager, nil
}

func (m *Manager) HandleWebSocket(c *websocket.Conn) {
	log := m.log.Function("HandleWebSocket")
	clientID := uuid.New().String()

	client := &Client{
		ID:         clientID,
		Connection: c,
		Manager:    m,
		send:       make(chan Message, SEND_CHANNEL_SIZE),
	}

	m.hub.register <- client
	defer func() {
		m.hub.unregister <- client
		if err := c.Close(); err != nil {
			log.Er("failed to close connection", err)
		}
	}()

	go client.readPump()
	client.writePump()
}

// subscribeToExperienceEvents forwards every experience event to all
// connected clients. Map state is public, so no per-client filtering.
func (m *Manager) subscribeToExperienceEvents() {
	log := m.log.Function("subscribeToExperienceEvents")

	err := m.eventBus.Subscribe(events.EXPERIENCE_CHANNEL, func(event events.Event) error {
		m.BroadcastMessage(Message{
			ID:        uuid.New().String(),
			Type:      MESSAGE_TYPE_EVENT,
			Event:     string(event.Type),
			Data:      event.Data,
			Timestamp: time.Now(),
		})
		return nil
	})
	if err != nil {
		log.Er("failed to subscribe to experience events", err)
	}
}

func (m *Manager) BroadcastMessage(message Message) {
	log := m.log.Function("BroadcastMessage")

	select {
	case m.hub.broadcast <- message:
	default:
		log.Warn("Broadcast channel is full, dropping message", "messageID", message.ID)
	}
}

func (c *Client) readPump() {
	log := c.Manager.log.Function("readPump")
	defer func() {
		c.Manager.hub.unregister <- c
		_ = c.Connection.Close()
	}()

	c.Connection.SetReadLimit(MAX_MESSAGE_SIZE)
	if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
		log.Er("failed to set read deadline", err, "clientID", c.ID)
	}
	c.Connection.SetPongHandler(func(string) error {
		if err := c.Connection.SetReadDeadline(time.Now().Add(PONG_TIMEOUT)); err != nil {
			log.Er("failed to set read deadline in pong handler", err, "clientID", c.ID)
		}
		return nil
	})

	for {
		var message Message
		if err := c.Connection.ReadJSON(&message); err != nil {
			if websocket.IsUnexpectedCloseError(
				err,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure,
			) {
				log.Er("unexpected close error", err, "clientID", c.ID)
			}
			break
		}

		if message.Type == MESSAGE_TYPE_PING {
			c.send <- Message{
				ID:        uuid.New().String(),
				Type:      MESSAGE_TYPE_PONG,
				Timestamp: time.Now(),
			}
		}
	}
}

func (c *Client) writePump() {
	log := c.Manager.log.Function("writePump")

	ticker := time.NewTicker(PING_INTERVAL)
	defer func() {
		ticker.Stop()
		_ = c.Connection.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline", err, "clientID", c.ID)
			}
			if !ok {
				_ = c.Connection.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Connection.WriteJSON(message); err != nil {
				log.Er("websocket write error", err, "clientID", c.ID)
				return
			}

		case <-ticker.C:
			if err := c.Connection.SetWriteDeadline(time.Now().Add(WRITE_TIMEOUT)); err != nil {
				log.Er("failed to set write deadline for ping", err, "clientID", c.ID)
			}
			if err := c.Connection.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
