package main

import (
	"encoding/json"
	"flag"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/fasthttp/websocket"
	"github.com/fatih/color"
	"github.com/google/uuid"
)

type frame struct {
	Type         string            `json:"type"`
	Delta        string            `json:"delta"`
	Reason       string            `json:"reason"`
	Text         string            `json:"text"`
	Citations    []json.RawMessage `json:"citations"`
	SuggestionID string            `json:"suggestionId"`
	Action       string            `json:"action"`
	Result       map[string]bool   `json:"result"`
}

func main() {
	addr := flag.String("addr", "ws://localhost:3000/api/chat/ws", "chat websocket URL")
	token := flag.String("token", "", "JWT sent as Bearer header")
	text := flag.String("text", "Vad kostar standardpaketet?", "message to send")
	confirm := flag.Bool("confirm", false, "confirm a proposed action twice")
	cancelAfter := flag.Duration("cancel-after", 0, "send cancel after this delay")
	flag.Parse()

	u, err := url.Parse(*addr)
	if err != nil {
		color.Red("Bad address: %v", err)
		os.Exit(1)
	}

	header := http.Header{}
	if *token != "" {
		header.Set("Authorization", "Bearer "+*token)
	}

	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), header)
	if err != nil {
		if resp != nil {
			color.Red("Handshake failed: %s", resp.Status)
		} else {
			color.Red("Dial failed: %v", err)
		}
		os.Exit(1)
	}
	defer conn.Close()

	color.Cyan("🚀 Connected to %s", u.String())
	color.Yellow("> %s", *text)

	if err := conn.WriteJSON(map[string]string{"type": "message", "id": uuid.NewString(), "text": *text}); err != nil {
		color.Red("Send failed: %v", err)
		os.Exit(1)
	}
	if *cancelAfter > 0 {
		time.AfterFunc(*cancelAfter, func() {
			_ = conn.WriteJSON(map[string]string{"type": "cancel"})
		})
	}

	confirms := 0
	for {
		_ = conn.SetReadDeadline(time.Now().Add(30 * time.Second))
		var f frame
		if err := conn.ReadJSON(&f); err != nil {
			color.Red("\nRead failed: %v", err)
			os.Exit(1)
		}

		switch f.Type {
		case "stream":
			color.New(color.FgWhite).Print(f.Delta)
		case "stream_end":
			color.Magenta("\n[stream_end %s]", f.Reason)
			if f.Reason == "cancelled" {
				return
			}
		case "response":
			color.Green("[response] %d citation(s)", len(f.Citations))
			for _, c := range f.Citations {
				color.Green("  %s", string(c))
			}
			if !*confirm {
				// Give a trailing suggestion a moment to arrive.
				_ = conn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
				if err := conn.ReadJSON(&f); err != nil || f.Type != "action_suggestion" {
					return
				}
				color.Yellow("[action_suggestion] %s id=%s (rerun with -confirm)", f.Action, f.SuggestionID)
				return
			}
		case "action_suggestion":
			color.Yellow("[action_suggestion] %s id=%s", f.Action, f.SuggestionID)
			for i := 0; i < 2; i++ {
				_ = conn.WriteJSON(map[string]string{"type": "confirm_action", "suggestionId": f.SuggestionID})
			}
		case "action_executed":
			color.Cyan("[action_executed] %s %v", f.SuggestionID, f.Result)
			confirms++
			if confirms == 2 {
				return
			}
		default:
			color.Red("[unknown frame %q]", f.Type)
		}
	}
}
