package bot

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
)

func TestHealthEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewHTTPServer(newTestBot(t)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/health")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]bool
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !body["ok"] {
		t.Errorf("body = %v", body)
	}
}

func TestCommandsEndpoint(t *testing.T) {
	srv := httptest.NewServer(NewHTTPServer(newTestBot(t)).Handler())
	defer srv.Close()

	payload := `{"chatId": 1, "userId": "100", "userName": "Admin", "isAdmin": true, "text": "/set_milestone 2025-12-01 mock exam"}`
	resp, err := http.Post(srv.URL+"/commands", "application/json", strings.NewReader(payload))
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.Contains(body["reply"], "Milestone set for 2025-12-01") {
		t.Errorf("reply = %q", body["reply"])
	}
}

func TestCommandsEndpointRejectsBadInput(t *testing.T) {
	srv := httptest.NewServer(NewHTTPServer(newTestBot(t)).Handler())
	defer srv.Close()

	for name, payload := range map[string]string{
		"invalid json": `{not json`,
		"no command":   `{"chatId": 1, "text": "hello there"}`,
		"empty text":   `{"chatId": 1, "text": ""}`,
	} {
		resp, err := http.Post(srv.URL+"/commands", "application/json", strings.NewReader(payload))
		if err != nil {
			t.Fatalf("%s: post: %v", name, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusBadRequest {
			t.Errorf("%s: status = %d, want 400", name, resp.StatusCode)
		}
	}
}

func TestUnknownRouteIs404(t *testing.T) {
	srv := httptest.NewServer(NewHTTPServer(newTestBot(t)).Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/nope")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestTokenize(t *testing.T) {
	command, args, ok := tokenize("/today read chapter 5")
	if !ok || command != "today" || !reflect.DeepEqual(args, []string{"read", "chapter", "5"}) {
		t.Errorf("got %q %v %v", command, args, ok)
	}

	command, _, ok = tokenize("/status@gate_tracker_bot")
	if !ok || command != "status" {
		t.Errorf("bot-handle suffix: got %q %v", command, ok)
	}

	for _, bad := range []string{"", "   ", "hello", "/", "/@bot"} {
		if _, _, ok := tokenize(bad); ok {
			t.Errorf("tokenize(%q) accepted invalid input", bad)
		}
	}
}
