package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFile_YAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "audioconv.yaml")

	yamlContent := `
format: mp3
bitrate: 256k
concurrency: 4
output:
  placement: subdir
  subdir: mp3
audio:
  mp3_vbr: "2"
  stereo_mode: joint
filters:
  loudnorm: true
  fade_in: "1.5"
overwrite: sequence
post_action: move
`
	if err := os.WriteFile(configPath, []byte(yamlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Format != "mp3" {
		t.Errorf("Expected format 'mp3', got '%s'", cfg.Format)
	}
	if cfg.Bitrate != "256k" {
		t.Errorf("Expected bitrate '256k', got '%s'", cfg.Bitrate)
	}
	if cfg.Concurrency != 4 {
		t.Errorf("Expected concurrency 4, got %d", cfg.Concurrency)
	}
	if cfg.Output.Placement != PlacementSubdir || cfg.Output.Subdir != "mp3" {
		t.Errorf("Expected subdir placement 'mp3', got %+v", cfg.Output)
	}
	if cfg.Audio.MP3VBR != "2" {
		t.Errorf("Expected mp3 vbr '2', got '%s'", cfg.Audio.MP3VBR)
	}
	if !cfg.Filters.Loudnorm {
		t.Error("Expected loudnorm to be true")
	}
	if cfg.Overwrite != OverwriteSequence {
		t.Errorf("Expected overwrite 'sequence', got '%s'", cfg.Overwrite)
	}
	if cfg.PostAction != PostActionMove {
		t.Errorf("Expected post action 'move', got '%s'", cfg.PostAction)
	}
	// Untouched keys keep defaults
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level 'info', got '%s'", cfg.Log.Level)
	}
}

func TestLoadConfigFile_TOML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	tomlContent := `
format = "opus"
concurrency = 2

[opus]
bandwidth = "full"
application = "audio"

[naming]
template = "{n}-{name}"
`
	if err := os.WriteFile(configPath, []byte(tomlContent), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.Format != "opus" {
		t.Errorf("Expected format 'opus', got '%s'", cfg.Format)
	}
	if cfg.Concurrency != 2 {
		t.Errorf("Expected concurrency 2, got %d", cfg.Concurrency)
	}
	if cfg.Opus.Bandwidth != "full" || cfg.Opus.Application != "audio" {
		t.Errorf("Unexpected opus settings: %+v", cfg.Opus)
	}
	if cfg.Naming.Template != "{n}-{name}" {
		t.Errorf("Expected template '{n}-{name}', got '%s'", cfg.Naming.Template)
	}
	if cfg.Output.Placement != PlacementSibling {
		t.Errorf("Expected default placement, got '%s'", cfg.Output.Placement)
	}
}

func TestLoadConfigFile_Empty(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "empty.yaml")
	if err := os.WriteFile(configPath, nil, 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadConfigFile(configPath)
	if err != nil {
		t.Fatalf("Expected empty file to load, got: %v", err)
	}
	if cfg.Format != "wav" {
		t.Errorf("Expected default format, got '%s'", cfg.Format)
	}
}

func TestLoadConfigFile_NotFound(t *testing.T) {
	_, err := LoadConfigFile("/nonexistent/config.yaml")
	if err == nil {
		t.Error("Expected error for nonexistent file, got nil")
	}
}

func TestLoadConfigFile_UnknownKey(t *testing.T) {
	tmpDir := t.TempDir()

	for name, content := range map[string]string{
		"bad.yaml": "fromat: mp3\n",
		"bad.toml": "fromat = \"mp3\"\n",
	} {
		path := filepath.Join(tmpDir, name)
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to write test config: %v", err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Errorf("Expected error for unknown key in %s, got nil", name)
		}
	}
}

func TestSaveConfigFile(t *testing.T) {
	tmpDir := t.TempDir()

	for _, name := range []string{"nested/dir/config.yaml", "nested/dir/config.toml"} {
		t.Run(name, func(t *testing.T) {
			configPath := filepath.Join(tmpDir, name)

			cfg := DefaultConfig()
			cfg.Format = "flac"
			cfg.Audio.FLACLevel = "8"
			cfg.Filters.SilenceTrim = true

			if err := SaveConfigFile(cfg, configPath); err != nil {
				t.Fatalf("Failed to save config: %v", err)
			}

			loaded, err := LoadConfigFile(configPath)
			if err != nil {
				t.Fatalf("Failed to load saved config: %v", err)
			}
			if *loaded != *cfg {
				t.Errorf("Saved and loaded config differ:\nsaved:  %+v\nloaded: %+v", cfg, loaded)
			}
		})
	}
}

func TestFindConfigFile_CurrentDirectory(t *testing.T) {
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	if err := os.WriteFile("audioconv.toml", []byte("format = \"mp3\"\n"), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}

	if got := FindConfigFile(); got != "./audioconv.toml" {
		t.Errorf("Expected './audioconv.toml', got '%s'", got)
	}
}
