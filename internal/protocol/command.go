package protocol

import (
	"errors"
	"io"
)

// Command represents a decoded client command received by the server.
//
// A Command consists of a command name (Cmd), an optional key, and an
// optional value. The meaning of Key and Val depends on the command type
// (e.g. GET, SET, EXISTS).
type Command struct {
	Cmd string // Command name (e.g. "get", "set", "exists")
	Key string // Key argument (may be empty)
	Val string // Value argument (may be empty)
}

// EncodeCommand serializes a client command into its wire format:
//
//	<cmd_len:uint8><key_len:uint32><val_len:uint32><cmd><key><val>
//
// All integer fields are encoded big-endian. The command name length is
// limited to 255 bytes.
//
// The returned byte slice is suitable for writing directly to a TCP
// connection.
func EncodeCommand(cmd, key, val string) ([]byte, error) {
	if len(cmd) > 255 {
		return nil, errors.New("command name too long")
	}

	data := make([]byte, 0, 1+8+len(cmd)+len(key)+len(val))
	data = append(data, uint8(len(cmd)))
	data = appendUint32(data, uint32(len(key)))
	data = appendUint32(data, uint32(len(val)))
	data = append(data, cmd...)
	data = append(data, key...)
	data = append(data, val...)

	return data, nil
}

// DecodeCommand reads and decodes one command from a connection.
//
// It first reads the length-prefixed header fields, then the command name,
// key, and value payloads in sequence. DecodeCommand blocks until the full
// command has been read or an error occurs.
func DecodeCommand(conn io.Reader) (*Command, error) {
	header := make([]byte, 9)
	if _, err := io.ReadFull(conn, header); err != nil {
		return nil, err
	}

	cmdLen := int(header[0])
	keyLen := readUint32(header[1:5])
	valLen := readUint32(header[5:9])

	payload := make([]byte, cmdLen+int(keyLen)+int(valLen))
	if _, err := io.ReadFull(conn, payload); err != nil {
		return nil, err
	}

	return &Command{
		Cmd: string(payload[:cmdLen]),
		Key: string(payload[cmdLen : cmdLen+int(keyLen)]),
		Val: string(payload[cmdLen+int(keyLen):]),
	}, nil
}
