package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/service"
)

// Version is reported to MCP clients during initialization
const Version = "1.0.0"

// Client is a thin MCP client that proxies to the REST API
type Client struct {
	baseURL    string
	httpClient *http.Client
	mcpServer  *server.MCPServer
}

// NewClient creates a new MCP client that calls the REST API
func NewClient(baseURL string) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}

	c.initMCPServer()
	return c
}

// initMCPServer initializes the MCP server with all tools
func (c *Client) initMCPServer() {
	c.mcpServer = server.NewMCPServer(
		"Maze Runner",
		Version,
		server.WithToolCapabilities(true),
		server.WithInstructions(`Maze Runner - MCP Interface

This is a thin client that proxies all requests to the REST API server.

GAME OBJECTIVE:
Collect every key (k) and reach the exit (E). Slimes (s) and traps (^) cost
hearts. Lives (+) restore a heart, power-ups (*) give speed or a shield.

AVAILABLE TOOLS:
- create_session: Create a new session on a level
- list_sessions: List all sessions
- game_state: Snapshot of a session
- render_maze: Text drawing of the maze with entities
- step: Advance the simulation while holding directions
- reset_game: Rebuild the world, optionally as a new game
- change_level: Move a session to another level
- list_levels: List installed levels
- game_instructions: Rules, legend and coordinates`),
	)

	c.registerTools()
}

func sessionIDProperty() map[string]any {
	return map[string]any{
		"type":        "string",
		"description": "Session ID",
	}
}

// registerTools registers all MCP tools
func (c *Client) registerTools() {
	// Session management
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "create_session",
		Description: "Create a new game session on a level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"level_id": map[string]any{
					"type":        "string",
					"description": "Level to play (optional, defaults to the server's default level)",
				},
				"session_id": map[string]any{
					"type":        "string",
					"description": "Reuse or create a session with this ID (optional)",
				},
			},
		},
	}, c.handleCreateSession)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_sessions",
		Description: "List all game sessions",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListSessions)

	// Game state
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_state",
		Description: "Get the current snapshot of a session",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleGameState)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "render_maze",
		Description: "Draw the maze with the player, slimes and remaining items as text",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
			},
			Required: []string{"session_id"},
		},
	}, c.handleRenderMaze)

	// Game operations
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "step",
		Description: "Advance the simulation while holding the given directions",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"direction": map[string]any{
					"type":        "string",
					"description": "Held directions, e.g. \"right\" or \"up,left\". Empty means stand still.",
				},
				"run": map[string]any{
					"type":        "boolean",
					"description": "Hold the run modifier",
				},
				"frames": map[string]any{
					"type":        "number",
					"description": fmt.Sprintf("Frames to advance (default 1, max %d)", service.MaxStepFrames),
				},
				"dt": map[string]any{
					"type":        "number",
					"description": "Seconds per frame (default 1/60, clamped to the level's max frame step)",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleStep)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "reset_game",
		Description: "Rebuild the world. Collected items stay collected unless new_game is set.",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"new_game": map[string]any{
					"type":        "boolean",
					"description": "Forget collected items and start over",
				},
			},
			Required: []string{"session_id"},
		},
	}, c.handleReset)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "change_level",
		Description: "Switch a session to another level",
		InputSchema: mcp.ToolInputSchema{
			Type: "object",
			Properties: map[string]any{
				"session_id": sessionIDProperty(),
				"level_id": map[string]any{
					"type":        "string",
					"description": "Level to switch to",
				},
			},
			Required: []string{"session_id", "level_id"},
		},
	}, c.handleChangeLevel)

	// Levels
	c.mcpServer.AddTool(mcp.Tool{
		Name:        "list_levels",
		Description: "List installed levels",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleListLevels)

	c.mcpServer.AddTool(mcp.Tool{
		Name:        "game_instructions",
		Description: "Rules of the game, the map legend and the coordinate system",
		InputSchema: mcp.ToolInputSchema{
			Type:       "object",
			Properties: map[string]any{},
		},
	}, c.handleGameInstructions)
}

// GetMCPServer returns the underlying MCP server
func (c *Client) GetMCPServer() *server.MCPServer {
	return c.mcpServer
}

// apiCall makes an HTTP call to the REST API
func (c *Client) apiCall(method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewBuffer(data)
	}

	req, err := http.NewRequest(method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var errResp map[string]string
		json.NewDecoder(resp.Body).Decode(&errResp)
		if msg, ok := errResp["error"]; ok {
			return fmt.Errorf("%s", msg)
		}
		return fmt.Errorf("API error: %d", resp.StatusCode)
	}

	if result != nil {
		return json.NewDecoder(resp.Body).Decode(result)
	}
	return nil
}

func arguments(request mcp.CallToolRequest) map[string]any {
	args, _ := request.Params.Arguments.(map[string]any)
	if args == nil {
		return map[string]any{}
	}
	return args
}

func sessionPath(sessionID, suffix string) string {
	return "/api/sessions/" + url.PathEscape(sessionID) + suffix
}

func requireSession(args map[string]any) (string, *mcp.CallToolResult) {
	sessionID, _ := args["session_id"].(string)
	if sessionID == "" {
		return "", mcp.NewToolResultError("session_id is required")
	}
	return sessionID, nil
}

func (c *Client) handleCreateSession(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	body := map[string]string{}
	if levelID, ok := args["level_id"].(string); ok && levelID != "" {
		body["level_id"] = levelID
	}
	if sessionID, ok := args["session_id"].(string); ok && sessionID != "" {
		body["session_id"] = sessionID
	}

	var info service.SessionInfo
	if err := c.apiCall("POST", "/api/sessions", body, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListSessions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var resp struct {
		Count    int                    `json:"count"`
		Total    int                    `json:"total"`
		Sessions []*service.SessionInfo `json:"sessions"`
	}
	if err := c.apiCall("GET", "/api/sessions", nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if len(resp.Sessions) == 0 {
		return mcp.NewToolResultText("No sessions. Use create_session to start one."), nil
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Sessions (%d of %d):\n", resp.Count, resp.Total)
	for _, s := range resp.Sessions {
		status := "playing"
		if s.Snapshot != nil {
			status = snapshotStatus(s.Snapshot)
		}
		fmt.Fprintf(&b, "- %s  level=%s  %s  last active %s\n",
			s.ID, s.LevelID, status, s.LastAccessedAt.Format(time.RFC3339))
	}
	return mcp.NewToolResultText(b.String()), nil
}

func (c *Client) handleGameState(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var snap engine.Snapshot
	if err := c.apiCall("GET", sessionPath(sessionID, "/state"), nil, &snap); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSnapshot(&snap)), nil
}

func (c *Client) handleRenderMaze(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessionID, errResult := requireSession(arguments(request))
	if errResult != nil {
		return errResult, nil
	}

	var resp struct {
		Lines []string `json:"lines"`
	}
	if err := c.apiCall("GET", sessionPath(sessionID, "/render"), nil, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(strings.Join(resp.Lines, "\n") + "\n\n" + legend), nil
}

// parseDirections turns "up,left" or "up left" into held inputs
func parseDirections(s string) (engine.Input, error) {
	var in engine.Input
	fields := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == ',' || r == ' ' || r == '+'
	})
	for _, f := range fields {
		switch f {
		case "left", "l", "west", "w":
			in.Left = true
		case "right", "r", "east", "e":
			in.Right = true
		case "up", "u", "north", "n":
			in.Up = true
		case "down", "d", "south", "s":
			in.Down = true
		case "none", "stop", "wait":
		default:
			return in, fmt.Errorf("unknown direction %q (use left, right, up, down)", f)
		}
	}
	return in, nil
}

func (c *Client) handleStep(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}

	direction, _ := args["direction"].(string)
	input, err := parseDirections(direction)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	input.Run, _ = args["run"].(bool)

	req := service.StepRequest{Input: input}
	if frames, ok := args["frames"].(float64); ok {
		req.Frames = int(frames)
	}
	if dt, ok := args["dt"].(float64); ok {
		req.DT = dt
	}

	var result service.StepResult
	if err := c.apiCall("POST", sessionPath(sessionID, "/step"), req, &result); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatStepResult(&result)), nil
}

func (c *Client) handleReset(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	newGame, _ := args["new_game"].(bool)

	var resp struct {
		Message  string           `json:"message"`
		Snapshot *engine.Snapshot `json:"snapshot"`
	}
	if err := c.apiCall("POST", sessionPath(sessionID, "/reset"), map[string]bool{"new_game": newGame}, &resp); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	text := resp.Message
	if resp.Snapshot != nil {
		text += "\n\n" + formatSnapshot(resp.Snapshot)
	}
	return mcp.NewToolResultText(text), nil
}

func (c *Client) handleChangeLevel(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args := arguments(request)
	sessionID, errResult := requireSession(args)
	if errResult != nil {
		return errResult, nil
	}
	levelID, _ := args["level_id"].(string)
	if levelID == "" {
		return mcp.NewToolResultError("level_id is required"), nil
	}

	var info service.SessionInfo
	if err := c.apiCall("POST", sessionPath(sessionID, "/level"), map[string]string{"level_id": levelID}, &info); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatSessionInfo(&info)), nil
}

func (c *Client) handleListLevels(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var levels []*service.LevelInfo
	if err := c.apiCall("GET", "/api/levels", nil, &levels); err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(formatLevels(levels)), nil
}

func (c *Client) handleGameInstructions(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(instructions), nil
}
