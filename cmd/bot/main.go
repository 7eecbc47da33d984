package main

import (
	"encoding/json"
	"flag"
	"log"
	"os"
	"os/signal"

	"github.com/gorilla/websocket"

	"foodtruck.sim/internal/protocol"
	"foodtruck.sim/internal/sim/catalogs"
)

func main() {
	var (
		url       = flag.String("url", "ws://localhost:8080/v1/ws", "ws url")
		name      = flag.String("name", "bot", "client name")
		configDir = flag.String("configs", "./configs", "config directory (recipes are read to plan cooking)")
	)
	flag.Parse()

	logger := log.New(os.Stdout, "[bot] ", log.LstdFlags|log.Lmicroseconds)

	cats, err := catalogs.Load(*configDir)
	if err != nil {
		logger.Fatalf("load catalogs: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(*url, nil)
	if err != nil {
		logger.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	hello := protocol.HelloMsg{
		Type:            protocol.TypeHello,
		ProtocolVersion: protocol.Version,
		ClientName:      *name,
		MaxQueue:        8,
	}
	if err := conn.WriteJSON(hello); err != nil {
		logger.Fatalf("send HELLO: %v", err)
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	go func() {
		<-stop
		_ = conn.Close()
	}()

	d := newDriver(cats)
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			return
		}
		base, err := protocol.DecodeBase(msg)
		if err != nil {
			continue
		}
		switch base.Type {
		case protocol.TypeWelcome:
			var w protocol.WelcomeMsg
			if err := json.Unmarshal(msg, &w); err != nil {
				continue
			}
			logger.Printf("WELCOME session=%s tick_rate=%d recipes=%s", w.SessionID, w.TickRateHz, w.Catalogs.Recipes)

		case protocol.TypeSnapshot:
			var snap protocol.Snapshot
			if err := json.Unmarshal(msg, &snap); err != nil {
				continue
			}
			for _, r := range snap.Results {
				if !r.OK {
					logger.Printf("%s %s refused: %s %s", r.Cmd, r.ID, r.Code, r.Message)
				} else if r.Receipt != nil {
					logger.Printf("sold %dx %s for %d (balance %d)", r.Receipt.Quantity, r.Receipt.Item, r.Receipt.Total, r.Receipt.Balance)
				}
			}
			for _, cmd := range d.Next(&snap) {
				if err := conn.WriteJSON(cmd); err != nil {
					return
				}
			}
		}
	}
}
