package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"

	"github.com/gridpaddock/gpchat-server/internal/proto"
)

func main() {
	if err := run(); err != nil {
		log.Printf("ws_chat: %v", err)
		os.Exit(1)
	}
}

func run() error {
	addr := flag.String("addr", "ws://localhost:8080/ws", "WebSocket address")
	room := flag.String("room", "1", "room id to join")
	author := flag.String("author", "cli-user", "display name")
	flag.Parse()

	baseCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(baseCtx)
	defer cancel()

	target := *addr + "?roomId=" + url.QueryEscape(*room) + "&author=" + url.QueryEscape(*author)
	conn, _, err := websocket.Dial(ctx, target, nil)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "bye")

	go func() {
		for {
			var outbound proto.Outbound
			if readErr := wsjson.Read(ctx, conn, &outbound); readErr != nil {
				if !errors.Is(readErr, context.Canceled) {
					log.Printf("read: %v", readErr)
				}
				cancel()
				return
			}
			printOutbound(outbound)
		}
	}()

	scanner := bufio.NewScanner(os.Stdin)
	for scanner.Scan() {
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}
		if text == "/quit" {
			return nil
		}

		payload, err := json.Marshal(proto.MsgData{Author: *author, Text: text})
		if err != nil {
			return fmt.Errorf("marshal message: %w", err)
		}
		if err := wsjson.Write(ctx, conn, proto.Inbound{Type: proto.InboundTypeMessage, Data: payload}); err != nil {
			return fmt.Errorf("send: %w", err)
		}

		select {
		case <-ctx.Done():
			return nil
		default:
		}
	}

	return scanner.Err()
}

func printOutbound(outbound proto.Outbound) {
	switch outbound.Type {
	case proto.OutboundTypeHistory:
		data, _ := json.Marshal(outbound.Data)
		var messages []proto.WireMessage
		_ = json.Unmarshal(data, &messages)
		fmt.Printf("--- history (%d messages) ---\n", len(messages))
		for _, msg := range messages {
			fmt.Printf("[%s] %s: %s\n", msg.CreatedAt, msg.Author, msg.Text)
		}
	case proto.OutboundTypeMessage:
		data, _ := json.Marshal(outbound.Data)
		var msg proto.WireMessage
		_ = json.Unmarshal(data, &msg)
		fmt.Printf("[%s] %s: %s\n", msg.CreatedAt, msg.Author, msg.Text)
	case proto.OutboundTypeError:
		if outbound.Error != nil {
			fmt.Printf("error (%s): %s\n", outbound.Error.Code, outbound.Error.Msg)
		}
	default:
		raw, _ := json.Marshal(outbound)
		fmt.Println(string(raw))
	}
}
