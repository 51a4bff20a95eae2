package cache

import (
	"net"
	"testing"

	"teleradiology-case-routing/config"

	"github.com/alicebob/miniredis/v2"
)

func TestNewRedisClient(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	if err != nil {
		t.Fatalf("split addr: %v", err)
	}

	client, err := NewRedisClient(config.RedisConfig{Host: host, Port: port})
	if err != nil {
		t.Fatalf("NewRedisClient: %v", err)
	}
	defer client.Close()
}

func TestNewRedisClient_Unreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, _ := net.SplitHostPort(mr.Addr())
	mr.Close()

	if _, err := NewRedisClient(config.RedisConfig{Host: host, Port: port}); err == nil {
		t.Fatal("expected connection error")
	}
}
