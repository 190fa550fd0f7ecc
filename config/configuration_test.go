package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gocrud/easytest/config"
)

func TestInMemoryAndPath(t *testing.T) {
	cfg, err := config.NewConfigurationBuilder().
		AddInMemory(map[string]any{
			"app": map[string]any{
				"name": "demo",
				"port": 8080,
			},
			"debug": true,
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := cfg.Get("app.name"); got != "demo" {
		t.Errorf("Expected 'demo', got %q", got)
	}
	// 冒号分隔符同样有效
	if got := cfg.Get("app:name"); got != "demo" {
		t.Errorf("Expected 'demo' via colon path, got %q", got)
	}

	port, err := cfg.GetInt("app.port")
	if err != nil || port != 8080 {
		t.Errorf("Expected 8080, got %d (err=%v)", port, err)
	}

	debug, err := cfg.GetBool("debug")
	if err != nil || !debug {
		t.Errorf("Expected true, got %v (err=%v)", debug, err)
	}

	if got := cfg.GetWithDefault("app.missing", "fallback"); got != "fallback" {
		t.Errorf("Expected fallback, got %q", got)
	}
}

func TestEnvironmentVariables(t *testing.T) {
	t.Setenv("EZT_APP_NAME", "FromEnv")
	t.Setenv("EZT_APP_PORT", "9000")

	cfg, err := config.NewConfigurationBuilder().
		AddEnvironmentVariables("EZT_").
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := cfg.Get("app.name"); got != "FromEnv" {
		t.Errorf("Expected 'FromEnv', got %q", got)
	}
	port, err := cfg.GetInt("app.port")
	if err != nil || port != 9000 {
		t.Errorf("Expected 9000, got %d (err=%v)", port, err)
	}
}

func TestYamlFileAndOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.yaml")
	content := []byte("app:\n  name: yaml-app\n  port: 7070\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	// 后注册的源覆盖先注册的
	cfg, err := config.NewConfigurationBuilder().
		AddYamlFile(path).
		AddInMemory(map[string]any{
			"app": map[string]any{"port": 7071},
		}).
		Build()
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	if got := cfg.Get("app.name"); got != "yaml-app" {
		t.Errorf("Expected 'yaml-app', got %q", got)
	}
	port, _ := cfg.GetInt("app.port")
	if port != 7071 {
		t.Errorf("Expected override 7071, got %d", port)
	}
}

func TestOptionalFileMissing(t *testing.T) {
	_, err := config.NewConfigurationBuilder().
		AddYamlFile("does-not-exist.yaml", true).
		AddJsonFile("does-not-exist.json", true).
		Build()
	if err != nil {
		t.Errorf("Optional missing files should not fail the build: %v", err)
	}

	_, err = config.NewConfigurationBuilder().
		AddYamlFile("does-not-exist.yaml").
		Build()
	if err == nil {
		t.Error("Required missing file should fail the build")
	}
}

type appSetting struct {
	Name string `json:"name"`
	Port int    `json:"port"`
}

func TestLoadAndBind(t *testing.T) {
	cfg := config.NewConfiguration(map[string]any{
		"app": map[string]any{
			"name": "bound",
			"port": 8081,
		},
	})

	setting, err := config.Load[appSetting](cfg, "app")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if setting.Name != "bound" || setting.Port != 8081 {
		t.Errorf("Unexpected binding result: %+v", setting)
	}

	section := cfg.GetSection("app")
	if got := section.Get("name"); got != "bound" {
		t.Errorf("Expected 'bound' from section, got %q", got)
	}
}
