package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/olekukonko/tablewriter"

	"github.com/vovakirdan/darkrelay/internal/proto"
)

// outbound keeps the payload raw so it can be decoded per event.
type outbound struct {
	Type  string          `json:"type"`
	ID    string          `json:"id"`
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data"`
	Error *proto.Error    `json:"error"`
}

func main() {
	if err := run(); err != nil {
		log.Printf("ws_smoke: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	user := flag.String("user", "tester", "display name to register")
	channel := flag.String("channel", "general", "channel to join")
	text := flag.String("text", "hello from smoke test", "message text to send")
	timeout := flag.Duration("timeout", 5*time.Second, "total timeout for the run")
	flag.Parse()

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, *addr, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	send := func(typ, id string, data any) error {
		in := proto.Inbound{Type: typ, ID: id}
		if data != nil {
			raw, err := json.Marshal(data)
			if err != nil {
				return fmt.Errorf("marshal %s: %w", typ, err)
			}
			in.Data = raw
		}
		if err := wsjson.Write(ctx, conn, in); err != nil {
			return fmt.Errorf("send %s: %w", typ, err)
		}
		return nil
	}

	if err := send(proto.InboundTypeRegister, "register", *user); err != nil {
		return err
	}
	if err := send(proto.InboundTypeListChannels, "channels", nil); err != nil {
		return err
	}
	if err := send(proto.InboundTypeJoinChannel, "join", *channel); err != nil {
		return err
	}
	if err := send(proto.InboundTypeSendMessage, "send", proto.SendData{Channel: *channel, Text: *text}); err != nil {
		return err
	}

	for {
		var out outbound
		if err := wsjson.Read(ctx, conn, &out); err != nil {
			return fmt.Errorf("read: %w", err)
		}

		switch {
		case out.Type == proto.OutboundTypeError:
			return fmt.Errorf("server error %s: %s", out.Error.Code, out.Error.Msg)
		case out.Type == proto.OutboundTypeAck:
			var ack proto.AckData
			if err := json.Unmarshal(out.Data, &ack); err != nil {
				return fmt.Errorf("unmarshal ack: %w", err)
			}
			if !ack.Success {
				return fmt.Errorf("%s rejected: %s (%s)", out.Event, ack.Message, ack.Code)
			}
			switch out.ID {
			case "register":
				fmt.Printf("Registered as %s\n", ack.Name)
			case "channels":
				printChannels(ack.Channels)
			}
		case out.Event == proto.EventChatMessage:
			var msg proto.ChatMessage
			if err := json.Unmarshal(out.Data, &msg); err != nil {
				return fmt.Errorf("unmarshal message: %w", err)
			}
			fmt.Printf("[%s] %s: %s\n", msg.Channel, msg.User, msg.Message)
			if !msg.IsSystem && msg.Message == *text {
				return nil
			}
		default:
			fmt.Printf("Received %s %s\n", out.Type, out.Event)
		}
	}
}

func printChannels(channels []proto.ChannelInfo) {
	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Channel", "Icon", "Builtin", "Creator", "Online"})
	table.SetAutoFormatHeaders(true)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(false)
	for _, ch := range channels {
		table.Append([]string{ch.Name, ch.Icon, strconv.FormatBool(ch.Builtin), ch.Creator, strconv.Itoa(ch.Online)})
	}
	table.Render()
}
