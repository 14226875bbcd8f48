package logging

import "testing"

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		opts    Options
		wantErr bool
	}{
		{Options{}, false},
		{Options{JSON: true}, false},
		{Options{Level: "DEBUG"}, false},
		{Options{Level: "chatty"}, true},
	}
	for _, tt := range tests {
		l, err := New(tt.opts)
		if (err != nil) != tt.wantErr {
			t.Errorf("New(%+v) err = %v, wantErr %v", tt.opts, err, tt.wantErr)
			continue
		}
		if err == nil && l == nil {
			t.Errorf("New(%+v) returned nil logger", tt.opts)
		}
	}
}

func TestNew_DefaultLevelDependsOnEncoder(t *testing.T) {
	console, _ := New(Options{})
	if console.Core().Enabled(-1) || console.Core().Enabled(0) {
		t.Error("console logger enables debug/info by default, want warn")
	}
	js, _ := New(Options{JSON: true})
	if !js.Core().Enabled(0) {
		t.Error("json logger disables info by default")
	}
}

func TestMust_FallsBack(t *testing.T) {
	if l := Must(Options{Level: "nope"}); l == nil {
		t.Fatal("Must returned nil")
	}
}
