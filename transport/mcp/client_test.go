package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/fop-maze/mazerunner/game/engine"
	"github.com/fop-maze/mazerunner/game/maze"
	"github.com/fop-maze/mazerunner/game/service"
)

func callRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	if result == nil || len(result.Content) == 0 {
		t.Fatal("Expected result content")
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		t.Fatal("Expected text content in result")
	}
	return text.Text
}

func testSnapshot() *engine.Snapshot {
	return &engine.Snapshot{
		Level:        "level-1",
		Hearts:       4,
		Keys:         1,
		RequiredKeys: 2,
		Player: engine.EntityView{
			Position: engine.Vec2{X: 40, Y: 32},
			Tile:     maze.Coord{Col: 1, Row: 1},
			State:    engine.StateWalkingRight,
			Glyph:    ">",
		},
		Slimes: []engine.EntityView{{Tile: maze.Coord{Col: 4, Row: 1}, Chasing: true, Glyph: "o"}},
		Items:  []engine.ItemView{{Kind: engine.KindPowerUp, PowerUp: engine.PowerUpShield, Tile: maze.Coord{Col: 3, Row: 3}}},
		Exits:  []engine.ExitView{{Tile: maze.Coord{Col: 5, Row: 3}}},
		PowerUps: map[string]float64{
			"speed": 2.5,
		},
		Message: "Key collected! (1 held)",
		Frame:   12,
	}
}

func TestNewClient(t *testing.T) {
	client := NewClient("http://localhost:8080/")

	if client.baseURL != "http://localhost:8080" {
		t.Errorf("Expected trailing slash trimmed, got %s", client.baseURL)
	}
	if client.httpClient == nil {
		t.Error("Expected HTTP client to be initialized")
	}
	if client.GetMCPServer() == nil {
		t.Error("Expected MCP server to be initialized")
	}
}

func TestClient_apiCall(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{"status": "healthy"})
	}))
	defer server.Close()

	client := NewClient(server.URL)

	var response map[string]any
	if err := client.apiCall("GET", "/api/health", nil, &response); err != nil {
		t.Fatalf("apiCall failed: %v", err)
	}
	if response["status"] != "healthy" {
		t.Errorf("Expected status healthy, got %v", response["status"])
	}
}

func TestClient_apiCall_Error(t *testing.T) {
	client := NewClient("http://invalid-url-that-does-not-exist:9999")

	if err := client.apiCall("GET", "/api/health", nil, nil); err == nil {
		t.Error("Expected error for invalid URL")
	}
}

func TestClient_apiCall_HTTPError(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"plain body", "Internal Server Error", "API error"},
		{"json error", `{"error":"session not found"}`, "session not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL).apiCall("GET", "/api/health", nil, nil)
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Expected %q in error, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestClient_createSession(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != "POST" || r.URL.Path != "/api/sessions" {
			t.Errorf("Expected POST /api/sessions, got %s %s", r.Method, r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&gotBody)

		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(service.SessionInfo{
			ID:        "a1b2c3d4",
			LevelID:   "level-2",
			LevelName: "Second",
			Snapshot:  testSnapshot(),
			Maze:      []string{"###", "#.#", "###"},
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	result, err := client.handleCreateSession(context.Background(), callRequest("create_session", map[string]any{"level_id": "level-2"}))
	if err != nil {
		t.Fatalf("createSession failed: %v", err)
	}

	text := resultText(t, result)
	for _, want := range []string{"a1b2c3d4", "level-2 (Second)", "Keys: 1/2", "#.#"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in result, got: %s", want, text)
		}
	}
	if gotBody["level_id"] != "level-2" {
		t.Errorf("Expected level_id forwarded, got %v", gotBody)
	}
	if _, ok := gotBody["session_id"]; ok {
		t.Error("Expected no session_id when not given")
	}
}

func TestClient_step(t *testing.T) {
	var got service.StepRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/sessions/abc/step" {
			t.Errorf("Unexpected path %s", r.URL.Path)
		}
		json.NewDecoder(r.Body).Decode(&got)
		json.NewEncoder(w).Encode(service.StepResult{
			FramesRun: got.Frames,
			Requested: got.Frames,
			Events:    []service.GameEvent{{Type: "key", Message: "Key collected! (1 held)", Frame: 7}},
			Snapshot:  testSnapshot(),
		})
	}))
	defer server.Close()

	client := NewClient(server.URL)
	args := map[string]any{
		"session_id": "abc",
		"direction":  "up,left",
		"run":        true,
		"frames":     float64(30),
		"dt":         0.02,
	}
	result, err := client.handleStep(context.Background(), callRequest("step", args))
	if err != nil {
		t.Fatal(err)
	}

	if !got.Input.Up || !got.Input.Left || got.Input.Right || !got.Input.Run {
		t.Errorf("Unexpected input %+v", got.Input)
	}
	if got.Frames != 30 || got.DT != 0.02 {
		t.Errorf("Unexpected frames/dt %d/%v", got.Frames, got.DT)
	}

	text := resultText(t, result)
	if !strings.Contains(text, "Ran 30 of 30 frames") || !strings.Contains(text, "[frame 7] key") {
		t.Errorf("Unexpected step text: %s", text)
	}
}

func TestClient_stepValidation(t *testing.T) {
	client := NewClient("http://localhost:0")

	result, _ := client.handleStep(context.Background(), callRequest("step", map[string]any{}))
	if !result.IsError {
		t.Error("Expected error without session_id")
	}

	result, _ = client.handleStep(context.Background(), callRequest("step", map[string]any{
		"session_id": "abc",
		"direction":  "sideways",
	}))
	if !result.IsError || !strings.Contains(resultText(t, result), "sideways") {
		t.Error("Expected error for unknown direction")
	}
}

func TestParseDirections(t *testing.T) {
	tests := []struct {
		in      string
		want    engine.Input
		wantErr bool
	}{
		{"", engine.Input{}, false},
		{"right", engine.Input{Right: true}, false},
		{"Up, Left", engine.Input{Up: true, Left: true}, false},
		{"down+r", engine.Input{Down: true, Right: true}, false},
		{"wait", engine.Input{}, false},
		{"jump", engine.Input{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDirections(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parseDirections(%q) error = %v", tt.in, err)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("parseDirections(%q) = %+v, want %+v", tt.in, got, tt.want)
			}
		})
	}
}

func TestClient_renderAndReset(t *testing.T) {
	var newGame bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/sessions/abc/render":
			json.NewEncoder(w).Encode(map[string]any{"lines": []string{"#####", "#@ k#", "#####"}})
		case "/api/sessions/abc/reset":
			var body map[string]bool
			json.NewDecoder(r.Body).Decode(&body)
			newGame = body["new_game"]
			json.NewEncoder(w).Encode(map[string]any{"message": "Game reset successfully", "snapshot": testSnapshot()})
		default:
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "session not found"})
		}
	}))
	defer server.Close()

	client := NewClient(server.URL)
	ctx := context.Background()

	result, _ := client.handleRenderMaze(ctx, callRequest("render_maze", map[string]any{"session_id": "abc"}))
	if text := resultText(t, result); !strings.Contains(text, "#@ k#") || !strings.Contains(text, "LEGEND") {
		t.Errorf("Unexpected render: %s", text)
	}

	result, _ = client.handleReset(ctx, callRequest("reset_game", map[string]any{"session_id": "abc", "new_game": true}))
	if !newGame || !strings.Contains(resultText(t, result), "Game reset successfully") {
		t.Error("Expected new game reset")
	}

	result, _ = client.handleGameState(ctx, callRequest("game_state", map[string]any{"session_id": "missing"}))
	if !result.IsError || !strings.Contains(resultText(t, result), "session not found") {
		t.Error("Expected not found error")
	}
}

func TestFormatSnapshot(t *testing.T) {
	text := formatSnapshot(testSnapshot())

	expected := []string{
		"Status: playing",
		"Hearts: 4",
		"Keys: 1/2",
		"tile (1,1)",
		"speed (2.5s)",
		"Slime 1: tile (4,1) chasing",
		"shield@(3,3)",
		"Exit: (5,3) locked",
		"Message: Key collected! (1 held)",
	}
	for _, want := range expected {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in snapshot text, got:\n%s", want, text)
		}
	}
}

func TestFormatSnapshot_Status(t *testing.T) {
	snap := testSnapshot()
	snap.GameOver = true
	if !strings.Contains(formatSnapshot(snap), "Status: game over") {
		t.Error("Expected game over status")
	}

	snap.GameOver = false
	snap.Victory = true
	if !strings.Contains(formatSnapshot(snap), "Status: victory") {
		t.Error("Expected victory status")
	}
}

func TestFormatStepResult_Truncated(t *testing.T) {
	text := formatStepResult(&service.StepResult{
		FramesRun:     service.MaxStepFrames,
		Requested:     1000,
		Truncated:     true,
		StoppedReason: "victory",
	})
	if !strings.Contains(text, "capped at 600") || !strings.Contains(text, "stopped: victory") {
		t.Errorf("Unexpected text: %s", text)
	}
}

func TestFormatLevels(t *testing.T) {
	if formatLevels(nil) != "No levels installed." {
		t.Error("Expected empty message")
	}
	text := formatLevels([]*service.LevelInfo{{LevelID: "level-1", Name: "First", Width: 10, Height: 8, Keys: 2, Slimes: 3}})
	if !strings.Contains(text, "level-1: First (10x8, 2 keys, 3 slimes)") {
		t.Errorf("Unexpected text: %s", text)
	}
}

func TestClient_handleGameInstructions(t *testing.T) {
	client := NewClient("http://localhost:8080")

	result, err := client.handleGameInstructions(context.Background(), callRequest("game_instructions", map[string]any{}))
	if err != nil {
		t.Fatal(err)
	}
	text := resultText(t, result)
	for _, want := range []string{"GAME OBJECTIVE:", "MAP LEGEND:", "COORDINATES:", "MOVEMENT:", "DAMAGE:"} {
		if !strings.Contains(text, want) {
			t.Errorf("Expected %q in instructions", want)
		}
	}
}
