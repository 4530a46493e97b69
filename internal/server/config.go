package server

import (
	"time"
)

type Config struct {
	Port int `yaml:"port"`
	// Host is the canonical host name. Requests for other hosts are redirected.
	Host            string        `yaml:"host"`
	ThrottleBuckets int           `yaml:"throttleBuckets"`
	ThrottleRate    float64       `yaml:"throttleRate"`
	ThrottleBurst   int           `yaml:"throttleBurst"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout"`
	AdminKey        string        `yaml:"adminKey"`
	TLS             TLSConfig     `yaml:"tls"`
}

type TLSConfig struct {
	CertFile       string        `yaml:"certFile"`
	KeyFile        string        `yaml:"keyFile"`
	ReloadInterval time.Duration `yaml:"reloadInterval"`
}
