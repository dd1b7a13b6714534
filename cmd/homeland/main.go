package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tvnguyen/homeland/internal/api"
	"github.com/tvnguyen/homeland/internal/app"
	"github.com/tvnguyen/homeland/internal/credential"
	"github.com/tvnguyen/homeland/internal/model"
	"github.com/tvnguyen/homeland/internal/notify"
	"github.com/tvnguyen/homeland/internal/store"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "homeland: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := model.LoadConfig(model.DefaultConfigPath())
	if err != nil {
		return err
	}

	dataDir, err := ensureDataDir()
	if err != nil {
		return err
	}

	// The TUI owns stdout, so structured logs go to a file.
	logFile, err := os.OpenFile(
		filepath.Join(dataDir, "homeland.log"),
		os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600,
	)
	if err != nil {
		return fmt.Errorf("opening log file: %w", err)
	}
	defer logFile.Close()
	logger := slog.New(slog.NewTextHandler(logFile, nil))

	cache, err := store.NewSQLiteStore(filepath.Join(dataDir, "homeland.db"))
	if err != nil {
		return err
	}
	defer cache.Close()

	client := api.NewClient(cfg.API.BaseURL)
	engine := notify.NewEngine(client, notify.ConfigFromPush(cfg.Push), logger)
	defer engine.Stop()

	token := restoreToken()

	program := tea.NewProgram(
		app.New(client, cache, engine, token),
		tea.WithAltScreen(),
	)
	if _, err := program.Run(); err != nil {
		return fmt.Errorf("running program: %w", err)
	}
	return nil
}

// restoreToken loads the stored credential, discarding it when expired so
// the app opens on the login screen instead of failing the first request.
func restoreToken() string {
	token := credential.StoredToken()
	if token == "" {
		return ""
	}
	claims, err := credential.DecodeClaims(token)
	if err != nil || claims.Expired(time.Now()) {
		_ = credential.ClearToken()
		return ""
	}
	return token
}

// ensureDataDir creates and returns ~/.local/share/homeland.
func ensureDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home dir: %w", err)
	}
	dir := filepath.Join(home, ".local", "share", "homeland")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return dir, nil
}
