package caskdb

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/quentin-auge/caskdb/internal/protocol"
)

type Client struct {
	conn net.Conn
}

func Connect(opts ...Option) (*Client, error) {
	cfg := defaultClientConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	addr := net.JoinHostPort(cfg.host, strconv.Itoa(cfg.port))

	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	return &Client{conn: conn}, nil
}

// Get retrieves the value stored under key. An absent key is reported with
// found == false and a nil error, mirroring the engine contract.
func (c *Client) Get(key string) (value string, found bool, err error) {
	status, payload, err := c.sendCommand("get", key, "")
	if err != nil {
		return "", false, err
	}

	switch status {
	case protocol.StatusNil:
		return "", false, nil
	case protocol.StatusErr:
		return "", false, errors.New(payload)
	default:
		return payload, true, nil
	}
}

// Set stores value under key, overwriting any previous value.
func (c *Client) Set(key, value string) error {
	status, payload, err := c.sendCommand("set", key, value)
	if err != nil {
		return err
	}
	if status == protocol.StatusErr {
		return errors.New(payload)
	}

	return nil
}

// Exists reports whether key is live on the server.
func (c *Client) Exists(key string) (bool, error) {
	status, payload, err := c.sendCommand("exists", key, "")
	if err != nil {
		return false, err
	}
	if status == protocol.StatusErr {
		return false, errors.New(payload)
	}

	return payload == "true", nil
}

// Count returns the number of live keys on the server.
func (c *Client) Count() (int, error) {
	status, payload, err := c.sendCommand("count", "", "")
	if err != nil {
		return 0, err
	}
	if status == protocol.StatusErr {
		return 0, errors.New(payload)
	}

	return strconv.Atoi(payload)
}

// List returns all live keys on the server, in no particular order.
func (c *Client) List() ([]string, error) {
	status, payload, err := c.sendCommand("list", "", "")
	if err != nil {
		return nil, err
	}
	if status == protocol.StatusErr {
		return nil, errors.New(payload)
	}
	if payload == "" {
		return nil, nil
	}

	return strings.Split(payload, "\n"), nil
}

// Ping checks that the server is alive.
func (c *Client) Ping() error {
	status, payload, err := c.sendCommand("ping", "", "")
	if err != nil {
		return err
	}
	if status == protocol.StatusErr {
		return errors.New(payload)
	}
	if payload != "PONG" {
		return fmt.Errorf("unexpected ping response %q", payload)
	}

	return nil
}

// Execute sends a raw command and renders the response as a human-readable
// string: absent keys come back as "nil", errors as an error. Used by the
// interactive CLI.
func (c *Client) Execute(cmd, key, value string) (string, error) {
	status, payload, err := c.sendCommand(cmd, key, value)
	if err != nil {
		return "", err
	}

	switch status {
	case protocol.StatusNil:
		return "nil", nil
	case protocol.StatusErr:
		return "", errors.New(payload)
	default:
		return payload, nil
	}
}

func (c *Client) Close() error {
	return c.conn.Close()
}

func (c *Client) sendCommand(cmd, key, value string) (protocol.Status, string, error) {
	payload, err := protocol.EncodeCommand(cmd, key, value)
	if err != nil {
		return 0, "", err
	}

	if _, err := c.conn.Write(payload); err != nil {
		return 0, "", err
	}

	return protocol.DecodeResponse(c.conn)
}
