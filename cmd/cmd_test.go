package cmd

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/theirongolddev/wander/internal/model"
)

func TestReadPlanFile(t *testing.T) {
	pf, err := readPlanFile(filepath.Join("..", "data", "trip.example.json"))
	if err != nil {
		t.Fatalf("readPlanFile: %v", err)
	}
	if pf.People != 2 || len(pf.Days) != 5 {
		t.Fatalf("people=%d days=%d, want 2 and 5", pf.People, len(pf.Days))
	}
	if pf.Days[1].Kind != model.DayStay || pf.Days[1].Stay != "Madurai" {
		t.Errorf("day 2 = %+v", pf.Days[1])
	}
}

func TestReadPlanFileErrors(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o600); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name string
		path string
		want string
	}{
		{"missing", filepath.Join(dir, "nope.json"), "reading plan"},
		{"malformed", write("bad.json", "{"), "parsing plan"},
		{"no days", write("empty.json", `{"people": 2, "days": []}`), "has no days"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := readPlanFile(tt.path)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("err = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestFilterDetachArg(t *testing.T) {
	got := filterDetachArg([]string{"serve", "--detach", "--addr", ":9000", "--detach=true"})
	want := []string{"serve", "--addr", ":9000"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("filterDetachArg = %v, want %v", got, want)
	}
}

func TestMaskAPIKey(t *testing.T) {
	tests := []struct {
		key, want string
	}{
		{"sk-abcdefghijklmnop1234", "sk-abcde...1234"},
		{"abcdefgh", "abcd..."},
		{"abc", "****"},
	}
	for _, tt := range tests {
		if got := maskAPIKey(tt.key); got != tt.want {
			t.Errorf("maskAPIKey(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}

func TestPIDAndStateFiles(t *testing.T) {
	dir := t.TempDir()
	pidFile := filepath.Join(dir, "wander.pid")

	if err := ensureServerNotRunning(pidFile); err != nil {
		t.Fatalf("no pid file: %v", err)
	}
	if err := writePID(pidFile, 4242); err != nil {
		t.Fatal(err)
	}
	pid, err := readPID(pidFile)
	if err != nil || pid != 4242 {
		t.Fatalf("readPID = %d, %v", pid, err)
	}

	st := serverRuntimeState{PID: 4242, Addr: "127.0.0.1:8080", StartedAt: time.Unix(1700000000, 0).UTC(), DataDir: "data"}
	if err := writeState(statePath(pidFile), st); err != nil {
		t.Fatal(err)
	}
	got, err := readState(statePath(pidFile))
	if err != nil {
		t.Fatal(err)
	}
	if got.Addr != st.Addr || !got.StartedAt.Equal(st.StartedAt) {
		t.Fatalf("state = %+v, want %+v", got, st)
	}

	if err := os.WriteFile(pidFile, []byte("garbage\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if _, err := readPID(pidFile); err == nil {
		t.Fatal("readPID accepted garbage")
	}
}
