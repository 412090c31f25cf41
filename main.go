// Command mazerunner is a tile maze game: collect the keys, avoid the slimes
// and traps, and leave through the exit.
//
// Commands:
//
//	play      play in the terminal (default)
//	serve     run the REST API, the WebSocket stream and an /mcp endpoint
//	mcp       run an MCP stdio server backed by the REST API
//	validate  check level files and maze connectivity
//	maze      print a level's maze as text
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/mark3labs/mcp-go/server"
	"github.com/urfave/cli/v3"
	"golang.ngrok.com/ngrok"
	ngrokConfig "golang.ngrok.com/ngrok/config"

	"github.com/fop-maze/mazerunner/api"
	"github.com/fop-maze/mazerunner/audio"
	"github.com/fop-maze/mazerunner/game/config"
	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/service"
	"github.com/fop-maze/mazerunner/game/session"
	"github.com/fop-maze/mazerunner/transport/mcp"
	"github.com/fop-maze/mazerunner/transport/websocket"
	"github.com/fop-maze/mazerunner/tui"
	"github.com/fop-maze/mazerunner/validate"
)

// Version information
const (
	Version = "1.0.0"
	AppName = "mazerunner"
)

// Background maintenance intervals for serve mode
const (
	syncInterval    = 5 * time.Second
	cleanupInterval = time.Hour
	sessionMaxAge   = 24 * time.Hour
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: Error loading .env file: %v", err)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newCommand().Run(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", AppName, err)
		os.Exit(1)
	}
}

// newCommand builds the command tree
func newCommand() *cli.Command {
	return &cli.Command{
		Name:    AppName,
		Usage:   "collect the keys, dodge the slimes, find the exit",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "levels",
				Usage:   "directory of level files",
				Value:   "levels",
				Sources: cli.EnvVars("MAZERUNNER_LEVELS_DIR"),
			},
			&cli.StringFlag{
				Name:    "settings",
				Usage:   "player settings file",
				Value:   "settings.yaml",
				Sources: cli.EnvVars("MAZERUNNER_SETTINGS"),
			},
			&cli.StringFlag{
				Name:    "sessions",
				Usage:   "directory for saved sessions",
				Value:   "sessions",
				Sources: cli.EnvVars("MAZERUNNER_SESSIONS_DIR"),
			},
			&cli.StringFlag{
				Name:    "database-url",
				Usage:   "store sessions in PostgreSQL instead of files",
				Sources: cli.EnvVars("DATABASE_URL"),
			},
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "enable debug logging",
				Sources: cli.EnvVars("MAZERUNNER_DEBUG"),
			},
		},
		Action: playAction,
		Commands: []*cli.Command{
			{
				Name:  "play",
				Usage: "play in the terminal",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "level", Usage: "level to start on"},
					&cli.StringFlag{Name: "session", Usage: "session to resume (defaults to the settings profile)"},
				},
				Action: playAction,
			},
			{
				Name:  "serve",
				Usage: "run the HTTP API, WebSocket stream and /mcp endpoint",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "addr",
						Usage:   "listen address",
						Value:   "localhost:8080",
						Sources: cli.EnvVars("MAZERUNNER_ADDR"),
					},
					&cli.BoolFlag{
						Name:    "ngrok",
						Usage:   "expose the server through an ngrok tunnel",
						Sources: cli.EnvVars("NGROK_ENABLED"),
					},
					&cli.StringFlag{
						Name:    "ngrok-auth",
						Usage:   "ngrok auth token",
						Sources: cli.EnvVars("NGROK_AUTHTOKEN", "NGROK_AUTH_TOKEN"),
					},
					&cli.StringFlag{
						Name:    "ngrok-domain",
						Usage:   "custom ngrok domain",
						Sources: cli.EnvVars("NGROK_DOMAIN"),
					},
				},
				Action: serveAction,
			},
			{
				Name:  "mcp",
				Usage: "run an MCP stdio server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "api-url",
						Usage:   "REST API to use; an internal server starts when it is not reachable",
						Value:   "http://localhost:8080",
						Sources: cli.EnvVars("MAZERUNNER_API_URL"),
					},
				},
				Action: mcpAction,
			},
			{
				Name:      "validate",
				Usage:     "check level files and maze connectivity",
				ArgsUsage: "[level.json ...]",
				Action:    validateAction,
			},
			{
				Name:      "maze",
				Usage:     "print a level's maze as text",
				ArgsUsage: "[level]",
				Action:    mazeAction,
			},
		},
	}
}

// loadSettings reads the settings file named by --settings
func loadSettings(cmd *cli.Command) (*config.Settings, error) {
	settings, err := config.LoadSettings(cmd.String("settings"))
	if err != nil {
		return nil, err
	}
	return settings, nil
}

// newLevels creates the level manager. A missing levels directory falls
// back to the built-in level.
func newLevels(cmd *cli.Command, settings *config.Settings) (*config.Manager, error) {
	dir := cmd.String("levels")
	if dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			log.Printf("Warning: levels directory %s not found, using the built-in level", dir)
			dir = ""
		}
	}
	return config.NewManager(dir, config.WithBaseTuning(settings.Tuning))
}

// newPersistence picks PostgreSQL when a database URL is set and session
// files otherwise
func newPersistence(cmd *cli.Command, levels service.LevelManager) (session.SessionPersistence, func(), error) {
	if url := cmd.String("database-url"); url != "" {
		pg, err := session.NewPostgresPersistence(url, levels)
		if err != nil {
			return nil, nil, err
		}
		return pg, func() {
			if err := pg.Close(); err != nil {
				log.Printf("Warning: closing database: %v", err)
			}
		}, nil
	}
	fp, err := session.NewFilePersistence(cmd.String("sessions"), levels)
	if err != nil {
		return nil, nil, err
	}
	return fp, func() {}, nil
}

// initializeServices wires the level manager, session persistence and the
// game service. The returned func releases the persistence backend.
func initializeServices(cmd *cli.Command, settings *config.Settings) (service.GameService, func(), error) {
	levels, err := newLevels(cmd, settings)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create level manager: %w", err)
	}

	persistence, closePersistence, err := newPersistence(cmd, levels)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create session persistence: %w", err)
	}

	sessions := session.NewManagerWithPersistence(persistence)
	if err := sessions.LoadPersistedSessions(); err != nil {
		log.Printf("Warning: Failed to load persisted sessions: %v", err)
	}

	return service.NewGameService(sessions, levels), closePersistence, nil
}

// playAction runs the terminal game
func playAction(ctx context.Context, cmd *cli.Command) (err error) {
	logFile := setupLogging(cmd.Bool("debug"))
	if logFile != nil {
		defer logFile.Close()
	}

	// tview restores the terminal before re-panicking
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "\n\x1b[31mMAZERUNNER CRASHED: %v\x1b[0m\n", r)
			fmt.Fprintf(os.Stderr, "Stack Trace:\n%s\n", debug.Stack())
			err = cli.Exit("", 1)
		}
	}()

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	theme, err := tui.DefaultTheme().WithColors(settings.Theme)
	if err != nil {
		return err
	}

	svc, closeServices, err := initializeServices(cmd, settings)
	if err != nil {
		return err
	}
	defer closeServices()

	sounds := audio.New(settings.Audio)
	defer sounds.Close()
	if err := sounds.StartMusic(settings.Audio.Music); err != nil {
		log.Printf("Warning: %v", err)
	}

	sessionID := cmd.String("session")
	if sessionID == "" {
		sessionID = settings.Profile
	}
	levelID := cmd.String("level")
	if levelID == "" {
		levelID = settings.Level
	}

	app, err := tui.NewApp(svc, tui.Options{
		SessionID:     sessionID,
		LevelID:       levelID,
		HoldWindow:    settings.HoldWindow,
		FrameInterval: settings.FrameInterval(),
		Theme:         theme,
		Sounds:        sounds,
	})
	if err != nil {
		return err
	}
	log.Printf("Playing session %s", app.SessionID())

	runErr := app.Run(ctx)
	if err := svc.SaveSession(context.Background(), app.SessionID()); err != nil {
		log.Printf("Warning: Failed to save session: %v", err)
	}
	return runErr
}

// newRouter mounts the REST API at / and the MCP endpoint at /mcp
func newRouter(svc service.GameService, hub *websocket.Hub, mcpClient *mcp.Client) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("/", api.NewServer(svc, hub))
	mux.HandleFunc("/mcp", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}
		defer r.Body.Close()
		body, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, "Failed to read request", http.StatusBadRequest)
			return
		}

		response := mcpClient.GetMCPServer().HandleMessage(r.Context(), body)

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(response); err != nil {
			log.Printf("Failed to write MCP response: %v", err)
		}
	})
	return mux
}

// serveAction runs the HTTP server until ctx is cancelled
func serveAction(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("debug") {
		log.SetFlags(log.LstdFlags | log.Lshortfile)
	}

	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	svc, closeServices, err := initializeServices(cmd, settings)
	if err != nil {
		return err
	}
	defer closeServices()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	hub := websocket.NewHub()
	addr := cmd.String("addr")
	handler := newRouter(svc, hub, mcp.NewClient("http://"+addr))

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		hub.Run(ctx)
	}()
	go func() {
		defer wg.Done()
		service.RunMaintenance(ctx, svc, syncInterval, cleanupInterval, sessionMaxAge)
	}()

	serveErr := make(chan error, 1)
	go func() {
		log.Printf("Starting %s v%s", AppName, Version)
		log.Printf("REST API: http://%s/api", addr)
		log.Printf("WebSocket: ws://%s/ws?session=<session_id>", addr)
		log.Printf("MCP endpoint: http://%s/mcp", addr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	if cmd.Bool("ngrok") {
		wg.Add(1)
		go func() {
			defer wg.Done()
			runNgrok(ctx, cmd.String("ngrok-auth"), cmd.String("ngrok-domain"), handler)
		}()
	}

	select {
	case <-ctx.Done():
		log.Println("Shutting down...")
	case err := <-serveErr:
		if err != nil {
			cancel()
			wg.Wait()
			return fmt.Errorf("HTTP server failed: %w", err)
		}
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("HTTP server shutdown error: %v", err)
	}
	cancel()
	wg.Wait()
	log.Println("Server stopped")
	return nil
}

// runNgrok serves handler through an ngrok tunnel until ctx is done
func runNgrok(ctx context.Context, authToken, domain string, handler http.Handler) {
	if authToken == "" {
		log.Println("WARNING: Ngrok enabled but no auth token provided (use --ngrok-auth or NGROK_AUTHTOKEN)")
		return
	}

	var tunnel ngrokConfig.Tunnel
	if domain != "" {
		tunnel = ngrokConfig.HTTPEndpoint(ngrokConfig.WithDomain(domain))
	} else {
		tunnel = ngrokConfig.HTTPEndpoint()
	}

	tun, err := ngrok.Listen(ctx, tunnel, ngrok.WithAuthtoken(authToken))
	if err != nil {
		log.Printf("Failed to start ngrok tunnel: %v", err)
		return
	}
	go func() {
		<-ctx.Done()
		tun.Close()
	}()

	url := tun.URL()
	log.Printf("Ngrok tunnel established: %s", url)
	log.Printf("  REST API (ngrok): %s/api", url)
	log.Printf("  MCP endpoint (ngrok): %s/mcp", url)

	if err := http.Serve(tun, handler); err != nil && !errors.Is(err, http.ErrServerClosed) && ctx.Err() == nil {
		log.Printf("Ngrok server error: %v", err)
	}
	log.Println("Ngrok tunnel closed")
}

// apiReachable reports whether a REST API answers at baseURL
func apiReachable(baseURL string) bool {
	client := &http.Client{Timeout: 2 * time.Second}
	resp, err := client.Get(strings.TrimRight(baseURL, "/") + "/api/health")
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode == http.StatusOK
}

// mcpAction serves MCP over stdio. It uses the API at --api-url when one is
// running and otherwise starts an internal one on a loopback port.
func mcpAction(ctx context.Context, cmd *cli.Command) error {
	// stdout carries the protocol
	log.SetOutput(os.Stderr)

	baseURL := cmd.String("api-url")
	if apiReachable(baseURL) {
		log.Printf("Using API server at %s", baseURL)
	} else {
		log.Printf("No API server at %s, starting an internal one", baseURL)

		settings, err := loadSettings(cmd)
		if err != nil {
			return err
		}
		svc, closeServices, err := initializeServices(cmd, settings)
		if err != nil {
			return err
		}
		defer closeServices()

		listener, err := net.Listen("tcp", "127.0.0.1:0")
		if err != nil {
			return fmt.Errorf("failed to get available port: %w", err)
		}

		hub := websocket.NewHub()
		go hub.Run(ctx)

		internal := &http.Server{Handler: api.NewServer(svc, hub)}
		go func() {
			if err := internal.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.Printf("Internal HTTP server error: %v", err)
			}
		}()
		defer internal.Close()

		baseURL = "http://" + listener.Addr().String()
	}

	log.Println("MCP stdio server ready")
	if err := server.ServeStdio(mcp.NewClient(baseURL).GetMCPServer()); err != nil {
		return fmt.Errorf("MCP stdio server error: %w", err)
	}
	return nil
}

// validateAction checks the named level files, or every level in --levels
func validateAction(ctx context.Context, cmd *cli.Command) error {
	var results []validate.Result
	if cmd.Args().Len() > 0 {
		for _, path := range cmd.Args().Slice() {
			results = append(results, validate.Level(path))
		}
	} else {
		var err error
		results, err = validate.Dir(cmd.String("levels"))
		if err != nil {
			return err
		}
	}

	if !validate.Print(cmd.Root().Writer, results) {
		return cli.Exit("", 1)
	}
	return nil
}

// mazeAction prints the raw maze of a level
func mazeAction(ctx context.Context, cmd *cli.Command) error {
	settings, err := loadSettings(cmd)
	if err != nil {
		return err
	}
	levels, err := newLevels(cmd, settings)
	if err != nil {
		return err
	}

	id := cmd.Args().First()
	level := levels.GetDefault()
	if id != "" {
		if level, err = levels.LoadLevel(id); err != nil {
			return err
		}
	}

	w := cmd.Root().Writer
	if level.Config != nil {
		fmt.Fprintf(w, "%s (%dx%d)\n", level.Config.Name, level.Tiles.Width(), level.Tiles.Height())
	}
	for _, line := range engine.RenderTiles(level.Tiles) {
		fmt.Fprintln(w, line)
	}
	return nil
}
