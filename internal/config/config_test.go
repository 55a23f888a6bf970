package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ADDR", "REDIS_ADDR", "DATABASE_URL", "JWT_SECRET", "SEND_QUEUE_SIZE", "CORS_ALLOWED_ORIGINS"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Addr != defaultAddr {
		t.Errorf("Addr: got %q, want %q", cfg.Addr, defaultAddr)
	}
	if cfg.RedisAddr != "" {
		t.Errorf("RedisAddr: got %q, want empty (bus disabled)", cfg.RedisAddr)
	}
	if cfg.SendQueueSize != defaultSendQueueSize {
		t.Errorf("SendQueueSize: got %d, want %d", cfg.SendQueueSize, defaultSendQueueSize)
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("SEND_QUEUE_SIZE", "8")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg := Load()
	if cfg.Addr != ":9090" {
		t.Errorf("Addr: got %q, want :9090", cfg.Addr)
	}
	if cfg.SendQueueSize != 8 {
		t.Errorf("SendQueueSize: got %d, want 8", cfg.SendQueueSize)
	}
	want := []string{"https://a.example", "https://b.example"}
	if len(cfg.AllowedOrigin) != len(want) {
		t.Fatalf("AllowedOrigin: got %v, want %v", cfg.AllowedOrigin, want)
	}
	for i := range want {
		if cfg.AllowedOrigin[i] != want[i] {
			t.Errorf("AllowedOrigin[%d]: got %q, want %q", i, cfg.AllowedOrigin[i], want[i])
		}
	}
}

func TestLoadInvalidInt(t *testing.T) {
	t.Setenv("SEND_QUEUE_SIZE", "lots")

	cfg := Load()
	if cfg.SendQueueSize != defaultSendQueueSize {
		t.Errorf("SendQueueSize: got %d, want default %d", cfg.SendQueueSize, defaultSendQueueSize)
	}
}
