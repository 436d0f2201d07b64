package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/vovakirdan/darkrelay/internal/proto"
)

type outbound struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "cli-user", "display name")
	channel := flag.String("channel", "general", "channel to join")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	if err := send(ctx, conn, proto.InboundTypeRegister, *user); err != nil {
		return err
	}
	if err := send(ctx, conn, proto.InboundTypeJoinChannel, *channel); err != nil {
		return err
	}

	fmt.Printf("Connected to %s as %s in #%s\n", *addr, *user, *channel)
	fmt.Println("Type messages and press Enter to send. Ctrl+C to exit.")

	go func() {
		defer cancel()
		readLoop(ctx, conn)
	}()

	writeLoop(ctx, conn, *channel)

	stop()
	cancel()
	_ = conn.Close(websocket.StatusNormalClosure, "bye")
	return nil
}

func send(ctx context.Context, conn *websocket.Conn, typ string, data any) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", typ, err)
	}
	if err := wsjson.Write(ctx, conn, proto.Inbound{Type: typ, Data: raw}); err != nil {
		return fmt.Errorf("send %s: %w", typ, err)
	}
	return nil
}

func readLoop(ctx context.Context, conn *websocket.Conn) {
	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			// Treat expected shutdowns quietly.
			if errors.Is(err, context.Canceled) {
				return
			}
			switch websocket.CloseStatus(err) {
			case websocket.StatusNormalClosure, websocket.StatusGoingAway:
				return
			case websocket.StatusPolicyViolation:
				fmt.Println("disconnected by server")
				return
			}
			log.Printf("read error: %v", err)
			return
		}

		if out.Type == proto.OutboundTypeError {
			fmt.Printf("error %s: %s\n", out.Error.Code, out.Error.Msg)
			continue
		}

		switch out.Event {
		case proto.EventChatMessage:
			var msg proto.ChatMessage
			if err := json.Unmarshal(out.Data, &msg); err != nil {
				log.Printf("unmarshal message: %v", err)
				continue
			}
			switch {
			case msg.IsAnnouncement:
				fmt.Printf("[#%s] ANNOUNCEMENT: %s\n", msg.Channel, msg.Message)
			case msg.IsSystem:
				fmt.Printf("[#%s] * %s\n", msg.Channel, msg.Message)
			case msg.Kind != "text":
				fmt.Printf("[#%s] %s sent %s (%s)\n", msg.Channel, msg.User, msg.Kind, msg.MIME)
			default:
				fmt.Printf("[#%s] %s: %s\n", msg.Channel, msg.User, msg.Message)
			}
		case proto.EventRosterUpdated:
			var r proto.RosterUpdated
			if err := json.Unmarshal(out.Data, &r); err != nil {
				log.Printf("unmarshal roster: %v", err)
				continue
			}
			names := make([]string, 0, len(r.Users))
			for _, u := range r.Users {
				names = append(names, u.Name)
			}
			fmt.Printf("[#%s] online: %s\n", r.Channel, strings.Join(names, ", "))
		case proto.EventChannelCleared:
			fmt.Println("--- channel cleared ---")
		case proto.EventKicked:
			var k proto.Kicked
			_ = json.Unmarshal(out.Data, &k)
			fmt.Printf("kicked: %s\n", k.Reason)
		case proto.EventChannelListUpdated, proto.EventChannelCreated:
			// catalog changes are not shown in the line client
		default:
			if out.Type == proto.OutboundTypeAck {
				var ack proto.AckData
				if err := json.Unmarshal(out.Data, &ack); err == nil && !ack.Success {
					fmt.Printf("%s failed: %s\n", out.Event, ack.Message)
				}
				continue
			}
			fmt.Printf("event=%s data=%s\n", out.Event, string(out.Data))
		}
	}
}

func writeLoop(ctx context.Context, conn *websocket.Conn, channel string) {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case line, ok := <-lines:
			if !ok {
				return
			}
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			if err := send(ctx, conn, proto.InboundTypeSendMessage, proto.SendData{Channel: channel, Text: text}); err != nil {
				log.Printf("send error: %v", err)
				return
			}
		}
	}
}
