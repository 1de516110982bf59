package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"medbot/internal/client"
	"medbot/internal/tui"
)

func main() {
	_ = godotenv.Load()

	var serverURL string
	flag.StringVar(&serverURL, "server", "http://localhost:8080", "Base URL of the medbot gateway")
	flag.Parse()

	gateway := client.New(serverURL)

	m := tui.New(gateway)
	if _, err := tea.NewProgram(m, tea.WithAltScreen()).Run(); err != nil {
		log.Fatal(err)
	}
}
