package protocol

import (
	"encoding/binary"
	"fmt"
	"io"
)

// Status classifies a server response so clients can tell an absent key
// from an error without parsing the payload.
type Status uint8

const (
	StatusOK  Status = iota // Command succeeded, payload is the result
	StatusNil               // Key absent, payload is empty
	StatusErr               // Command failed, payload is the error message
)

// EncodeResponse serializes a server response into its wire format:
//
//	<status:uint8><payload_len:uint32><payload>
//
// The payload length is encoded big-endian.
func EncodeResponse(status Status, payload string) []byte {
	data := make([]byte, 0, 5+len(payload))
	data = append(data, uint8(status))
	data = appendUint32(data, uint32(len(payload)))
	data = append(data, payload...)

	return data
}

// DecodeResponse reads and decodes one response from a connection,
// blocking until it is complete.
func DecodeResponse(conn io.Reader) (Status, string, error) {
	header := make([]byte, 5)
	if _, err := io.ReadFull(conn, header); err != nil {
		return 0, "", err
	}

	status := Status(header[0])
	if status > StatusErr {
		return 0, "", fmt.Errorf("unknown response status %d", header[0])
	}

	payload := make([]byte, readUint32(header[1:5]))
	if _, err := io.ReadFull(conn, payload); err != nil {
		return 0, "", err
	}

	return status, string(payload), nil
}

func appendUint32(data []byte, v uint32) []byte {
	return binary.BigEndian.AppendUint32(data, v)
}

func readUint32(data []byte) uint32 {
	return binary.BigEndian.Uint32(data)
}
