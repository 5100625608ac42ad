package bot

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
)

// HTTPServer is the seam the chat transport plugs into: it posts one
// tokenized command per request and relays the reply to the chat itself.
type HTTPServer struct {
	bot *Bot
}

func NewHTTPServer(bot *Bot) *HTTPServer {
	return &HTTPServer{bot: bot}
}

func (s *HTTPServer) Handler() http.Handler {
	return http.HandlerFunc(s.handle)
}

type commandBody struct {
	ChatID   int64  `json:"chatId"`
	UserID   string `json:"userId"`
	UserName string `json:"userName"`
	IsAdmin  bool   `json:"isAdmin"`
	Text     string `json:"text"`
}

func (s *HTTPServer) handle(w http.ResponseWriter, r *http.Request) {
	if (r.Method == http.MethodGet || r.Method == http.MethodHead) && r.URL.Path == "/health" {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
		return
	}

	if r.Method == http.MethodPost && r.URL.Path == "/commands" {
		var body commandBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "invalid body"})
			return
		}
		command, args, ok := tokenize(body.Text)
		if !ok {
			writeJSON(w, http.StatusBadRequest, map[string]any{"error": "text must start with /command"})
			return
		}
		reply := s.bot.Dispatch(r.Context(), &Request{
			ChatID:   body.ChatID,
			UserID:   body.UserID,
			UserName: body.UserName,
			IsAdmin:  body.IsAdmin,
			Command:  command,
			Args:     args,
		})
		writeJSON(w, http.StatusOK, map[string]any{"reply": reply})
		return
	}

	writeJSON(w, http.StatusNotFound, map[string]any{"error": "not found"})
}

// tokenize splits "/command arg arg" into name and arguments.
func tokenize(text string) (string, []string, bool) {
	fields := strings.Fields(text)
	if len(fields) == 0 || !strings.HasPrefix(fields[0], "/") {
		return "", nil, false
	}
	command := strings.TrimPrefix(fields[0], "/")
	// Chat clients append the bot handle to commands in groups.
	if at := strings.IndexByte(command, '@'); at >= 0 {
		command = command[:at]
	}
	if command == "" {
		return "", nil, false
	}
	return command, fields[1:], true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("bot: write response: %v", err)
	}
}
