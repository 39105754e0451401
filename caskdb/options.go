package caskdb

import "github.com/quentin-auge/caskdb/internal/config"

type clientConfig struct {
	host string
	port int
}

type Option func(*clientConfig)

func defaultClientConfig() *clientConfig {
	return &clientConfig{
		host: config.DefaultHost,
		port: config.DefaultPort,
	}
}

func WithHost(host string) Option {
	return func(c *clientConfig) {
		c.host = host
	}
}

func WithPort(port int) Option {
	return func(c *clientConfig) {
		c.port = port
	}
}
