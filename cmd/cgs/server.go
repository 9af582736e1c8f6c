package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/mark3labs/mcp-go/server"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/kalambet/cgs/internal/api"
	"github.com/kalambet/cgs/internal/auth"
	"github.com/kalambet/cgs/internal/catalog"
	"github.com/kalambet/cgs/internal/config"
	"github.com/kalambet/cgs/internal/profile"
	"github.com/kalambet/cgs/internal/recommend"
	"github.com/kalambet/cgs/internal/storage"
)

const sessionPurgeInterval = 10 * time.Minute

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the cgs server (foreground)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer()
	},
}

var stopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running cgs server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return stopServer()
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show cgs server status",
	RunE: func(cmd *cobra.Command, args []string) error {
		return showStatus()
	},
}

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Serve the MCP tools over stdio",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runMCP()
	},
}

func pidFilePath(dataDir string) string {
	return filepath.Join(dataDir, "cgs.pid")
}

func writePIDFile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(strconv.Itoa(os.Getpid())), 0o644)
}

func readPIDFile(path string) (int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(data)))
}

func removePIDFile(path string) {
	os.Remove(path)
}

// services are the components shared by the HTTP and MCP front ends.
type services struct {
	store       *storage.Store
	catalog     *catalog.Loader
	auth        *auth.Service
	profile     *profile.Manager
	recommender *recommend.Service
}

func buildServices(cfg config.Config) (*services, error) {
	store, err := storage.Open(cfg.Storage.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	verifier, err := auth.NewVerifier(cfg.Auth.PasswordScheme, cfg.Auth.BcryptCost)
	if err != nil {
		store.Close()
		return nil, err
	}
	ttl, err := cfg.SessionTTL()
	if err != nil {
		store.Close()
		return nil, err
	}

	loader := catalog.NewLoader(cfg.Catalog.Path)
	return &services{
		store:       store,
		catalog:     loader,
		auth:        auth.NewService(store, verifier, ttl),
		profile:     profile.NewManager(store),
		recommender: recommend.NewService(store, recommend.NewEngine(loader)),
	}, nil
}

func (s *services) Close() {
	if err := s.store.Close(); err != nil {
		fmt.Fprintf(os.Stderr, "warning: closing storage: %v\n", err)
	}
}

func runServer() error {
	fmt.Fprintf(os.Stderr, "cgs version %s\n", version)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	// Write PID file. Check if server is already running via health endpoint.
	pidPath := pidFilePath(cfg.Storage.DataDir)
	healthClient := &http.Client{Timeout: 2 * time.Second}
	if resp, err := healthClient.Get(cfg.BaseURL() + "/health"); err == nil {
		resp.Body.Close()
		if pid, pidErr := readPIDFile(pidPath); pidErr == nil {
			printWarning("cgs is already running (PID %d)", pid)
			return fmt.Errorf("server already running (PID %d)", pid)
		}
		printWarning("cgs is already running on %s", cfg.Addr())
		return fmt.Errorf("server already running on %s", cfg.Addr())
	}
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("writing PID file: %w", err)
	}
	defer removePIDFile(pidPath)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	if cfg.Auth.AdminEmail != "" {
		if err := svc.auth.EnsureAdmin(cfg.Auth.AdminEmail, cfg.Auth.AdminPassword); err != nil {
			return fmt.Errorf("bootstrapping admin: %w", err)
		}
	} else {
		slog.Warn("no admin configured; course management endpoints will be unusable", "hint", "set CGS_AUTH_ADMIN_EMAIL")
	}

	handler := api.NewHandler(api.Deps{
		Store:          svc.store,
		Auth:           svc.auth,
		Profile:        svc.profile,
		Recommender:    svc.recommender,
		Catalog:        svc.catalog,
		CORSOrigins:    cfg.CORSOrigins(),
		LoginRateLimit: cfg.HTTP.LoginRateLimit,
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		fmt.Fprintf(os.Stderr, "cgs listening on %s\n", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		fmt.Fprintln(os.Stderr, "shutting down...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		purgeSessions(gctx, svc.auth, sessionPurgeInterval)
		return nil
	})

	return g.Wait()
}

// purgeSessions deletes expired sessions every interval until ctx is done.
func purgeSessions(ctx context.Context, a *auth.Service, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := a.PurgeExpired()
			if err != nil {
				slog.Warn("purging expired sessions", "error", err)
				continue
			}
			if n > 0 {
				slog.Debug("expired sessions purged", "count", n)
			}
		}
	}
}

func runMCP() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	setupLogging(cfg.Log.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	svc, err := buildServices(cfg)
	if err != nil {
		return err
	}
	defer svc.Close()

	mcpSrv := api.NewMCPServer(api.MCPDeps{
		Store:       svc.store,
		Profile:     svc.profile,
		Recommender: svc.recommender,
		Catalog:     svc.catalog,
	})
	slog.Info("MCP server started (stdio transport)")

	stdioSrv := server.NewStdioServer(mcpSrv)
	if err := stdioSrv.Listen(ctx, os.Stdin, os.Stdout); err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("MCP stdio server: %w", err)
	}
	return nil
}

func stopServer() error {
	cfg, err := config.Load()
	if err != nil {
		printError("could not load config: %v", err)
		return err
	}

	pidPath := pidFilePath(cfg.Storage.DataDir)
	pid, err := readPIDFile(pidPath)
	if err != nil {
		printError("cgs is not running (no PID file)")
		return fmt.Errorf("not running: %w", err)
	}

	process, err := os.FindProcess(pid)
	if err != nil {
		printError("could not find process %d", pid)
		return err
	}

	if err := process.Signal(syscall.SIGTERM); err != nil {
		printError("could not stop cgs (PID %d): %v", pid, err)
		removePIDFile(pidPath)
		return err
	}

	printSuccess("Sent stop signal to cgs (PID %d)", pid)
	return nil
}

func showStatus() error {
	cfg, err := config.Load()
	if err != nil {
		// Still show partial status even if config fails.
		printError("config error: %v", err)
		return nil
	}

	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(cfg.BaseURL() + "/health")
	running := false
	if err != nil {
		printStatus("Server", "stopped")
	} else {
		resp.Body.Close()
		if resp.StatusCode == http.StatusOK {
			running = true
			printStatus("Server", "running on %s", cfg.Addr())
		} else {
			printStatus("Server", "error (HTTP %d)", resp.StatusCode)
		}
	}

	if running {
		c := &apiClient{baseURL: cfg.BaseURL(), httpClient: client}
		if courses, err := c.listCourses(context.Background()); err == nil {
			printStatus("Courses", "%d", len(courses))
		}
	}

	if cfg.Catalog.Path != "" {
		printStatus("Catalog", "%s", cfg.Catalog.Path)
	} else {
		printStatus("Catalog", "built-in")
	}
	if cfg.Auth.AdminEmail != "" {
		printStatus("Admin", "%s", cfg.Auth.AdminEmail)
	}
	printStatus("Data dir", "%s", cfg.Storage.DataDir)
	return nil
}
