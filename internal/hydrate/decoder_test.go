package hydrate

import (
	"errors"
	"strings"
	"testing"
)

type serverSettings struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

func TestDecode(t *testing.T) {
	decoder := NewDecoder[serverSettings]()

	got, err := decoder.Decode(Context{Path: "server"}, map[string]any{
		"host": "localhost",
		"port": 8080,
	})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Host != "localhost" || got.Port != 8080 {
		t.Fatalf("unexpected result: %+v", got)
	}
}

func TestDecodeNilSnapshot(t *testing.T) {
	decoder := NewDecoder[serverSettings]()
	if _, err := decoder.Decode(Context{Path: "server"}, nil); err == nil {
		t.Fatalf("expected error for nil snapshot")
	}
}

func TestDecodePreHookNormalises(t *testing.T) {
	decoder := NewDecoder(WithPreHook[serverSettings](func(_ Context, snapshot map[string]any) (map[string]any, error) {
		if _, ok := snapshot["host"]; !ok {
			snapshot["host"] = "0.0.0.0"
		}
		return snapshot, nil
	}))

	got, err := decoder.Decode(Context{Path: "server"}, map[string]any{"port": 80})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Host != "0.0.0.0" {
		t.Fatalf("pre-hook default not applied: %+v", got)
	}
}

func TestDecodePostHookValidates(t *testing.T) {
	decoder := NewDecoder(WithPostHook[serverSettings](func(ctx Context, result *serverSettings) error {
		if result.Port == 0 {
			return errors.New("port is required")
		}
		result.Host = strings.ToLower(result.Host)
		return nil
	}))

	got, err := decoder.Decode(Context{Path: "server"}, map[string]any{"host": "LOCALHOST", "port": 8080})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Host != "localhost" {
		t.Fatalf("post-hook mutation lost: %+v", got)
	}

	if _, err := decoder.Decode(Context{Path: "server"}, map[string]any{"host": "x"}); err == nil {
		t.Fatalf("expected post-hook validation failure")
	}
}

func TestDecodeDisallowUnknownFields(t *testing.T) {
	decoder := NewDecoder(WithDisallowUnknownFields[serverSettings]())
	if _, err := decoder.Decode(Context{Path: "server"}, map[string]any{"host": "x", "extra": true}); err == nil {
		t.Fatalf("expected unknown field rejection")
	}
}

func TestDecodeCustomDecoder(t *testing.T) {
	decoder := NewDecoder(WithCustomDecoder[serverSettings](func(_ Context, snapshot map[string]any) (serverSettings, error) {
		return serverSettings{Host: snapshot["host"].(string), Port: 9999}, nil
	}))

	got, err := decoder.Decode(Context{Path: "server"}, map[string]any{"host": "custom"})
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Host != "custom" || got.Port != 9999 {
		t.Fatalf("custom decoder not applied: %+v", got)
	}
}

func TestDecodeDoesNotMutateInput(t *testing.T) {
	decoder := NewDecoder(WithPreHook[serverSettings](func(_ Context, snapshot map[string]any) (map[string]any, error) {
		snapshot["host"] = "mutated"
		return snapshot, nil
	}))

	input := map[string]any{"host": "original", "port": 1}
	if _, err := decoder.Decode(Context{Path: "server"}, input); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if input["host"] != "original" {
		t.Fatalf("input snapshot was mutated: %v", input)
	}
}
