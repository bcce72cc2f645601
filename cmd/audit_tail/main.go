package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"guarded-chat-be/pkg/events"
	pktNats "guarded-chat-be/pkg/nats"
)

func main() {
	durable := flag.String("durable", "", "durable consumer name (default: ephemeral, new events only)")
	flag.Parse()

	_ = godotenv.Load()
	natsURL := os.Getenv("NATS_URL")
	if natsURL == "" {
		natsURL = "nats://localhost:4222"
	}

	sub, err := pktNats.NewSubscriber(natsURL)
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}
	defer sub.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = sub.Subscribe(ctx, pktNats.SubjectPrefix+">", *durable, func(_ context.Context, evt events.Event) error {
		printEvent(evt)
		return nil
	})
	if err != nil {
		color.Red("Failed: %v", err)
		os.Exit(1)
	}

	color.Cyan("👀 Tailing %s on %s (Ctrl+C to stop)", pktNats.StreamName, natsURL)
	<-ctx.Done()
}

func printEvent(evt events.Event) {
	p := evt.Payload()
	ts := evt.Timestamp().Format("15:04:05.000")

	switch evt.EventType() {
	case events.TypeTurnCompleted:
		grounded, _ := p["grounded"].(bool)
		c := color.New(color.FgGreen)
		if !grounded {
			c = color.New(color.FgRed)
		}
		c.Printf("%s TURN conn=%v msg=%v grounded=%v reason=%v citations=%v ungrounded=%v action=%v\n",
			ts, p["connection_id"], p["message_id"], grounded, p["fail_reason"], p["citation_count"], p["ungrounded_numbers"], p["action_proposed"])
		if genErr, _ := p["generation_error"].(string); genErr != "" {
			color.Red("         generation error: %s", genErr)
		}
	case events.TypeActionExecuted:
		color.Yellow("%s ACTION %v conn=%v suggestion=%v", ts, p["action"], p["connection_id"], p["suggestion_id"])
	default:
		b, _ := json.Marshal(p)
		color.White("%s %s %s", ts, evt.EventType(), string(b))
	}
}
