package main

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"go.uber.org/zap"

	"github.com/polyflowrobotics/robot-console/internal/config"
	"github.com/polyflowrobotics/robot-console/internal/logging"
	"github.com/polyflowrobotics/robot-console/internal/status"
	"github.com/polyflowrobotics/robot-console/internal/wificonfig"
)

// fakeRobot serves the robot API under /api
type fakeRobot struct {
	mu         sync.Mutex
	status     string
	postStatus int
	postBody   string
	posts      []map[string]any
	clears     int
}

func newFakeRobot(t *testing.T) (*fakeRobot, string) {
	t.Helper()
	r := &fakeRobot{
		status:     `{"configured":true,"ssid":"Home","pskSet":true}`,
		postStatus: http.StatusOK,
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/wifi", func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, r.status)
	})
	mux.HandleFunc("POST /api/wifi", func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		defer r.mu.Unlock()
		r.posts = append(r.posts, body)
		w.WriteHeader(r.postStatus)
		_, _ = io.WriteString(w, r.postBody)
	})
	mux.HandleFunc("POST /api/wifi/clear", func(w http.ResponseWriter, req *http.Request) {
		r.mu.Lock()
		defer r.mu.Unlock()
		r.clears++
	})
	mux.HandleFunc("GET /api/health", func(w http.ResponseWriter, req *http.Request) {
		_, _ = io.WriteString(w, "ok")
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return r, srv.URL + "/api"
}

// runCmd executes the CLI with args and stdin, isolated from the user's config
func runCmd(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cmd := newRootCmd(strings.NewReader(stdin))
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestShow(t *testing.T) {
	_, apiURL := newFakeRobot(t)

	out, err := runCmd(t, "", "show", "--api-url", apiURL)
	if err != nil {
		t.Fatalf("show error = %v", err)
	}
	if want := "WiFi: Home (password set)"; !strings.Contains(out, want) {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestShow_JSON(t *testing.T) {
	_, apiURL := newFakeRobot(t)

	out, err := runCmd(t, "", "show", "--json", "--api-url", apiURL)
	if err != nil {
		t.Fatalf("show --json error = %v", err)
	}

	var st wificonfig.Status
	if err := json.Unmarshal([]byte(out), &st); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if !st.Configured || st.SSIDValue() != "Home" || !st.PSKSet {
		t.Errorf("status = %+v", st)
	}
}

func TestShow_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	apiURL := srv.URL + "/api"
	srv.Close()

	_, err := runCmd(t, "", "show", "--api-url", apiURL, "--timeout", "1s")
	if err == nil {
		t.Fatal("show against a closed server succeeded")
	}
}

func TestSet_OmitsEmptyPassword(t *testing.T) {
	robot, apiURL := newFakeRobot(t)

	out, err := runCmd(t, "", "set", "Office", "--api-url", apiURL)
	if err != nil {
		t.Fatalf("set error = %v\n%s", err, out)
	}

	if len(robot.posts) != 1 {
		t.Fatalf("robot got %d posts, want 1", len(robot.posts))
	}
	if robot.posts[0]["ssid"] != "Office" {
		t.Errorf("ssid = %v, want Office", robot.posts[0]["ssid"])
	}
	if _, ok := robot.posts[0]["psk"]; ok {
		t.Error("psk sent for empty password")
	}
	if !strings.Contains(out, status.MessageSaved) {
		t.Errorf("output missing %q:\n%s", status.MessageSaved, out)
	}
}

func TestSet_WithPassword(t *testing.T) {
	robot, apiURL := newFakeRobot(t)

	if _, err := runCmd(t, "", "set", "Office", "--password", "pw123456", "--api-url", apiURL); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if got := robot.posts[0]["psk"]; got != "pw123456" {
		t.Errorf("psk = %v, want pw123456", got)
	}
}

func TestSet_AskPasswordFromStdin(t *testing.T) {
	robot, apiURL := newFakeRobot(t)

	if _, err := runCmd(t, "typed-pass\n", "set", "Office", "--ask-password", "--api-url", apiURL); err != nil {
		t.Fatalf("set error = %v", err)
	}
	if got := robot.posts[0]["psk"]; got != "typed-pass" {
		t.Errorf("psk = %v, want typed-pass", got)
	}
}

func TestSet_RobotErrorShownVerbatim(t *testing.T) {
	robot, apiURL := newFakeRobot(t)
	robot.postStatus = http.StatusBadRequest
	robot.postBody = "psk too short"

	out, err := runCmd(t, "", "set", "Office", "--password", "x", "--api-url", apiURL)
	if err == nil {
		t.Fatal("set succeeded on a 400")
	}
	if !strings.Contains(out, "psk too short") || !strings.Contains(err.Error(), "psk too short") {
		t.Errorf("robot message not shown: err = %v\n%s", err, out)
	}
}

func TestSet_EmptySSID(t *testing.T) {
	robot, apiURL := newFakeRobot(t)

	_, err := runCmd(t, "", "set", "", "--api-url", apiURL)
	if err == nil || !strings.Contains(err.Error(), wificonfig.MessageSSIDRequired) {
		t.Errorf("error = %v, want %q", err, wificonfig.MessageSSIDRequired)
	}
	if len(robot.posts) != 0 {
		t.Error("request sent for empty SSID")
	}
}

func TestClear(t *testing.T) {
	tests := []struct {
		name       string
		stdin      string
		args       []string
		wantClears int
	}{
		{"declined", "no\n", nil, 0},
		{"confirmed", "yes\n", nil, 1},
		{"skip prompt", "", []string{"--yes"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			robot, apiURL := newFakeRobot(t)

			args := append([]string{"clear", "--api-url", apiURL}, tt.args...)
			if _, err := runCmd(t, tt.stdin, args...); err != nil {
				t.Fatalf("clear error = %v", err)
			}
			if robot.clears != tt.wantClears {
				t.Errorf("clears = %d, want %d", robot.clears, tt.wantClears)
			}
		})
	}
}

func TestHealth(t *testing.T) {
	_, apiURL := newFakeRobot(t)

	out, err := runCmd(t, "", "health", "--api-url", apiURL)
	if err != nil {
		t.Fatalf("health error = %v", err)
	}
	if !strings.Contains(out, "is up") {
		t.Errorf("output = %q", out)
	}
}

func TestInvalidSettings(t *testing.T) {
	_, err := runCmd(t, "", "show", "--api-url", "not a url")
	if err == nil {
		t.Fatal("invalid --api-url accepted")
	}
}

func TestConfigInit(t *testing.T) {
	path := filepath.Join(t.TempDir(), "robot-console.yaml")

	out, err := runCmd(t, "", "config", "init", "--config", path)
	if err != nil {
		t.Fatalf("config init error = %v", err)
	}
	if !strings.Contains(out, path) {
		t.Errorf("output = %q, want path", out)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}

	if _, err := runCmd(t, "", "config", "init", "--config", path); err == nil {
		t.Error("second config init without --force succeeded")
	}
	if _, err := runCmd(t, "", "config", "init", "--config", path, "--force"); err != nil {
		t.Errorf("config init --force error = %v", err)
	}

	// The written file loads
	if _, err := runCmd(t, "", "health", "--config", path, "--api-url", "http://127.0.0.1:1/api", "--timeout", "100ms"); err == nil {
		t.Error("health against a closed port succeeded")
	} else if strings.Contains(err.Error(), "config file") {
		t.Errorf("written config did not load: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, err := runCmd(t, "", "version")
	if err != nil {
		t.Fatalf("version error = %v", err)
	}
	if !strings.HasPrefix(out, "robot-console ") {
		t.Errorf("output = %q", out)
	}
}

func TestTUILogging_WritesToStateFile(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Cleanup(func() { logging.SetLogger(zap.NewNop()) })

	c := &cli{settings: &config.Settings{LogLevel: "debug"}}
	path, err := c.tuiLogging()
	if err != nil {
		t.Fatalf("tuiLogging() error = %v", err)
	}
	if runtime.GOOS == "linux" {
		if want := filepath.Join(state, "robot-console", "tui.log"); path != want {
			t.Errorf("log path = %q, want %q", path, want)
		}
	}

	logging.Debug("terminal UI started")
	logging.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log file: %v", err)
	}
	if !strings.Contains(string(data), "terminal UI started") {
		t.Errorf("log file missing entry:\n%s", data)
	}
}

func TestTUILogging_OffWithoutLevel(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", t.TempDir())
	t.Setenv(logging.LogLevelEnvVar, "")

	c := &cli{settings: &config.Settings{}}
	path, err := c.tuiLogging()
	if err != nil {
		t.Fatalf("tuiLogging() error = %v", err)
	}
	if path != "" {
		t.Errorf("log path = %q, want none", path)
	}
}
