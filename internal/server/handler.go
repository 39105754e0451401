package server

import (
	"net"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/quentin-auge/caskdb/core"
	"github.com/quentin-auge/caskdb/internal/config"
	"github.com/quentin-auge/caskdb/internal/protocol"
)

// Handler serves the command protocol over one DiskStore.
type Handler struct {
	store  *core.DiskStore
	logger *zap.SugaredLogger
}

func NewHandler(store *core.DiskStore, logger *zap.SugaredLogger) *Handler {
	return &Handler{store: store, logger: logger}
}

// HandleConn reads commands off a connection until the client disconnects
// or goes idle past the configured timeout. The timeout is re-read from the
// live config before each command, so config reloads apply to open
// connections.
func (h *Handler) HandleConn(conn net.Conn) {
	defer conn.Close()

	for {
		if timeout := config.Get().IdleTimeout; timeout > 0 {
			conn.SetReadDeadline(time.Now().Add(timeout))
		}

		command, err := protocol.DecodeCommand(conn)
		if err != nil {
			h.logger.Debugf("client %s disconnected: %v", conn.RemoteAddr(), err)
			return
		}

		h.handleCommand(command, conn)
	}
}

func (h *Handler) handleCommand(command *protocol.Command, conn net.Conn) {
	switch strings.ToLower(command.Cmd) {
	case "ping":
		h.reply(conn, protocol.StatusOK, "PONG")
	case "set":
		h.handleSet(conn, command.Key, command.Val)
	case "get":
		h.handleGet(conn, command.Key)
	case "exists":
		h.handleExists(conn, command.Key)
	case "count":
		h.reply(conn, protocol.StatusOK, strconv.Itoa(h.store.Len()))
	case "list":
		h.reply(conn, protocol.StatusOK, strings.Join(h.store.Keys(), "\n"))
	case "help":
		h.reply(conn, protocol.StatusOK, helpText)
	default:
		h.reply(conn, protocol.StatusErr, "invalid command")
	}
}

func (h *Handler) handleSet(conn net.Conn, key, value string) {
	if err := h.store.Set(key, value); err != nil {
		h.logger.Errorf("set %q failed: %v", key, err)
		h.reply(conn, protocol.StatusErr, err.Error())
		return
	}

	h.reply(conn, protocol.StatusOK, "ok")
}

func (h *Handler) handleGet(conn net.Conn, key string) {
	value, found, err := h.store.Get(key)
	if err != nil {
		h.logger.Errorf("get %q failed: %v", key, err)
		h.reply(conn, protocol.StatusErr, err.Error())
		return
	}
	if !found {
		h.reply(conn, protocol.StatusNil, "")
		return
	}

	h.reply(conn, protocol.StatusOK, value)
}

func (h *Handler) handleExists(conn net.Conn, key string) {
	if h.store.Has(key) {
		h.reply(conn, protocol.StatusOK, "true")
		return
	}

	h.reply(conn, protocol.StatusOK, "false")
}

func (h *Handler) reply(conn net.Conn, status protocol.Status, payload string) {
	if _, err := conn.Write(protocol.EncodeResponse(status, payload)); err != nil {
		h.logger.Debugf("client %s disconnected: %v", conn.RemoteAddr(), err)
	}
}

const helpText = `Available Commands:

PING
  Check if the server is alive.
  Response: PONG

SET <key> <value>
  Store a value for the given key.
  Overwrites the value if the key already exists.
  Response: ok

GET <key>
  Retrieve the value associated with the key.
  Response: value | nil

EXISTS <key>
  Check if a key exists.
  Response: true | false

COUNT
  Return the total number of keys stored.
  Response: integer

LIST
  List all stored keys.
  Response: list of keys

HELP (cli only)
  Show this help message.

EXIT (cli only)
  Close the client connection.`
