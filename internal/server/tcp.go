package server

import (
	"context"
	"net"

	"go.uber.org/zap"
)

// Start runs a TCP server on addr, invoking handler in a new goroutine for
// every accepted connection. It blocks until ctx is cancelled, which closes
// the listener and shuts the accept loop down cleanly.
func Start(ctx context.Context, addr string, handler func(conn net.Conn), logger *zap.SugaredLogger) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	// When ctx is cancelled, close listener
	go func() {
		<-ctx.Done()
		ln.Close()
	}()

	// Accept Loop
	for {
		conn, err := ln.Accept()
		if err != nil {
			// When ln.Close() is called, Accept() returns an error.
			// This is how we break out of the loop cleanly.
			select {
			case <-ctx.Done():
				return nil // graceful shutdown
			default:
				logger.Errorf("error accepting connection: %v", err)
				continue
			}
		}

		go handler(conn)
	}
}
