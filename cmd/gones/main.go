// Package main implements the nescore NES emulator executable.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"nescore/internal/bus"
	"nescore/internal/cartridge"
	"nescore/internal/config"
	"nescore/internal/display"
	"nescore/internal/nestest"
)

func main() {
	var (
		configFile = flag.String("config", "", "Path to configuration file")
		scale      = flag.Int("scale", 0, "Window scale override (NES resolution multiplier)")
		fullscreen = flag.Bool("fullscreen", false, "Start in fullscreen")
		testLog    = flag.String("test-log", "", "Path to a nestest-format log to verify the ROM against instead of rendering")
	)
	flag.Usage = printUsage
	flag.Parse()

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	setupGracefulShutdown()

	cfg := config.New()
	path := *configFile
	if path == "" {
		path = config.GetDefaultConfigPath()
	}
	if err := cfg.LoadFromFile(path); err != nil {
		log.Printf("config: %v, using defaults", err)
	}
	if *scale > 0 {
		cfg.Window.Scale = *scale
	}
	if *fullscreen {
		cfg.Window.Fullscreen = true
	}

	romFile, err := os.Open(romPath)
	if err != nil {
		log.Fatalf("opening ROM: %v", err)
	}
	defer romFile.Close()

	cart, err := cartridge.LoadFromReader(romFile)
	if err != nil {
		log.Fatalf("loading ROM: %v", err)
	}

	console := bus.New()
	console.LoadCartridge(cart)
	console.Reset()

	if *testLog != "" {
		runTestLog(console, *testLog)
		return
	}

	fmt.Printf("nescore: running %s\n", romPath)
	d := display.New(console, cfg)
	if err := d.Run(); err != nil {
		log.Fatalf("display: %v", err)
	}
}

func runTestLog(console *bus.Bus, path string) {
	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("opening test log: %v", err)
	}
	defer f.Close()

	if err := nestest.Run(console.CPU, f); err != nil {
		log.Fatalf("nestest: %v", err)
	}
	fmt.Println("nestest: trace matched to end of log")
}

func setupGracefulShutdown() {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-c
		fmt.Println("\ninterrupt received, shutting down")
		os.Exit(0)
	}()
}

func printUsage() {
	fmt.Println("nescore - a NES emulation core")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("  nescore [options] <rom.nes>")
	fmt.Println()
	fmt.Println("OPTIONS:")
	flag.PrintDefaults()
	fmt.Println()
	fmt.Println("CONTROLS (Default):")
	fmt.Println("  Player 1: WASD, J=A, K=B, Enter=Start, Space=Select")
	fmt.Println("  Player 2: Arrow keys, N=A, M=B, RShift=Start, RCtrl=Select")
}
