package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Name != "paigong" {
		t.Errorf("App.Name = %q", cfg.App.Name)
	}
	if cfg.App.Port != 7013 {
		t.Errorf("App.Port = %d", cfg.App.Port)
	}
	if cfg.Engine.DefaultTimeout != 30*time.Second {
		t.Errorf("Engine.DefaultTimeout = %v", cfg.Engine.DefaultTimeout)
	}
	if cfg.Engine.DefaultTeamFilter != "all" || cfg.Engine.DefaultSkillFilter != "all" {
		t.Errorf("默认过滤器 = %q / %q", cfg.Engine.DefaultTeamFilter, cfg.Engine.DefaultSkillFilter)
	}
	if cfg.Engine.ClearConflicts {
		t.Error("冲突清除默认应关闭")
	}
	if cfg.Database.Enabled || cfg.Redis.Enabled {
		t.Error("持久化默认应关闭")
	}
	if cfg.Redis.TTL != 24*time.Hour {
		t.Errorf("Redis.TTL = %v", cfg.Redis.TTL)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("APP_PORT", "9000")
	t.Setenv("APP_ENV", "production")
	t.Setenv("ENGINE_CLEAR_CONFLICTS", "true")
	t.Setenv("ENGINE_TIMEOUT", "5s")
	t.Setenv("DB_ENABLED", "true")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.App.Port != 9000 {
		t.Errorf("App.Port = %d", cfg.App.Port)
	}
	if !cfg.IsProduction() {
		t.Error("IsProduction() 应为 true")
	}
	if !cfg.Engine.ClearConflicts {
		t.Error("ENGINE_CLEAR_CONFLICTS 未生效")
	}
	if cfg.Engine.DefaultTimeout != 5*time.Second {
		t.Errorf("超时 = %v", cfg.Engine.DefaultTimeout)
	}
	if !cfg.Database.Enabled {
		t.Error("DB_ENABLED 未生效")
	}
}

func TestLoad_InvalidEnvFallsBack(t *testing.T) {
	t.Setenv("APP_PORT", "not-a-number")
	t.Setenv("ENGINE_TIMEOUT", "garbage")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	// 非法值回落到默认
	if cfg.App.Port != 7013 {
		t.Errorf("App.Port = %d", cfg.App.Port)
	}
	if cfg.Engine.DefaultTimeout != 30*time.Second {
		t.Errorf("Engine.DefaultTimeout = %v", cfg.Engine.DefaultTimeout)
	}
}

func TestLoadFile_YAMLOverlay(t *testing.T) {
	content := `
app:
  name: paigong-test
  port: 8088
engine:
  default_team_filter: "all mechanics"
  clear_conflicts: true
`
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}

	if cfg.App.Name != "paigong-test" || cfg.App.Port != 8088 {
		t.Errorf("YAML覆盖未生效: %+v", cfg.App)
	}
	if cfg.Engine.DefaultTeamFilter != "all mechanics" || !cfg.Engine.ClearConflicts {
		t.Errorf("引擎配置覆盖未生效: %+v", cfg.Engine)
	}
	// 未出现在YAML中的字段保留环境默认值
	if cfg.Engine.DefaultSkillFilter != "all" {
		t.Errorf("DefaultSkillFilter = %q", cfg.Engine.DefaultSkillFilter)
	}
}

func TestLoadFile_Missing(t *testing.T) {
	if _, err := LoadFile("/nonexistent/config.yaml"); err == nil {
		t.Error("缺失的配置文件应返回错误")
	}
}

func TestDatabaseConfig_DSN(t *testing.T) {
	c := DatabaseConfig{
		Host: "db.local", Port: 5432, Name: "paigong",
		User: "svc", Password: "secret", SSLMode: "disable",
	}
	expected := "host=db.local port=5432 user=svc password=secret dbname=paigong sslmode=disable"
	if dsn := c.DSN(); dsn != expected {
		t.Errorf("DSN() = %q", dsn)
	}
}

func TestRedisConfig_Addr(t *testing.T) {
	c := RedisConfig{Host: "cache.local", Port: 6380}
	if addr := c.Addr(); addr != "cache.local:6380" {
		t.Errorf("Addr() = %q", addr)
	}
}
