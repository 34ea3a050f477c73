package repo

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/ini.v1"
)

// Config holds the two-level repository configuration. Only core.bare and
// remote.<name>.url are recognized.
type Config struct {
	Bare    bool
	Remotes map[string]string // remote name -> url
}

func (r *Repo) configPath() string {
	return filepath.Join(r.VersionDir, "config")
}

// ReadConfig parses the INI config file. A missing file yields an empty,
// non-bare config.
func (r *Repo) ReadConfig() (*Config, error) {
	cfg := &Config{Remotes: make(map[string]string)}

	if _, err := os.Stat(r.configPath()); os.IsNotExist(err) {
		return cfg, nil
	}
	f, err := ini.Load(r.configPath())
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg.Bare = f.Section("core").Key("bare").MustBool(false)
	for _, sec := range f.Sections() {
		name := sec.Name()
		if child, ok := strings.CutPrefix(name, `remote "`); ok {
			remote := strings.TrimSuffix(child, `"`)
			cfg.Remotes[remote] = sec.Key("url").String()
		}
	}
	return cfg, nil
}

// WriteConfig atomically serializes the config back to INI form. Sections
// are emitted in a stable order: [core] first, then remotes by name.
func (r *Repo) WriteConfig(cfg *Config) error {
	f := ini.Empty()
	f.Section("core").Key("bare").SetValue(fmt.Sprintf("%t", cfg.Bare))

	names := make([]string, 0, len(cfg.Remotes))
	for name := range cfg.Remotes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		sec, err := f.NewSection(fmt.Sprintf("remote %q", name))
		if err != nil {
			return fmt.Errorf("write config: section %q: %w", name, err)
		}
		sec.Key("url").SetValue(cfg.Remotes[name])
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return atomicWriteFile(r.configPath(), buf.Bytes())
}

// RemoteURL returns the configured URL for the given remote name.
func (r *Repo) RemoteURL(name string) (string, error) {
	cfg, err := r.ReadConfig()
	if err != nil {
		return "", err
	}
	url, ok := cfg.Remotes[name]
	if !ok || strings.TrimSpace(url) == "" {
		return "", RemoteMissingError(name)
	}
	return url, nil
}

// RemoteAdd registers a named remote. Only the "add" command is supported.
func (r *Repo) RemoteAdd(command, name, url string) error {
	if command != "add" {
		return UnsupportedError()
	}
	cfg, err := r.ReadConfig()
	if err != nil {
		return err
	}
	if _, ok := cfg.Remotes[name]; ok {
		return errRemoteAlreadyExists(name)
	}
	cfg.Remotes[name] = url
	return r.WriteConfig(cfg)
}

// atomicWriteFile writes data to path via a temp file in the same directory
// followed by a rename, so each write appears atomic.
func atomicWriteFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("atomic write mkdir %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("atomic write tmpfile: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("atomic write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("atomic write close: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("atomic write rename: %w", err)
	}
	return nil
}
