package main

import (
	"context"
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/joho/godotenv"

	"github.com/milk9111/bloodroom/telemetry"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug overlay and hot reload of levels/ and prefabs/")
	startRoom := flag.Int("room", 0, "start room id (overrides prefabs/game.yaml)")
	trace := flag.Bool("trace", false, "export room-load traces over OTLP (configure via OTEL_* or .env)")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("no .env loaded: %v", err)
	}

	ctx := context.Background()
	if *trace {
		shutdown, err := telemetry.Setup(ctx)
		if err != nil {
			log.Printf("telemetry disabled: %v", err)
		} else {
			defer func() {
				if err := shutdown(ctx); err != nil {
					log.Printf("telemetry shutdown: %v", err)
				}
			}()
		}
	}

	game, err := NewGame(ctx, GameOptions{StartRoom: *startRoom, Debug: *debug, Watch: *debug})
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	ebiten.SetWindowSize(game.spec.Window.Width, game.spec.Window.Height)
	ebiten.SetWindowTitle(game.spec.Window.Title)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	if err := ebiten.RunGame(game); err != nil {
		log.Print(err)
	}
}
