package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"waveline/cache"
)

func main() {
	//.env is optional outside development
	godotenv.Load()

	if len(os.Args) < 2 {
		printUsage()
		return
	}

	store, err := cache.NewStore()
	if err != nil {
		log.Fatal("Failed to initialize store: ", err)
	}
	defer store.Close()

	switch os.Args[1] {
	case "waveform":
		if len(os.Args) < 3 {
			printUsage()
			return
		}
		width := 390.0
		if len(os.Args) > 3 {
			fmt.Sscanf(os.Args[3], "%f", &width)
		}
		waveformCommand(store, os.Args[2], width)

	case "download":
		if len(os.Args) < 3 {
			printUsage()
			return
		}
		title := ""
		if len(os.Args) > 3 {
			title = os.Args[3]
		}
		downloadCommand(store, os.Args[2], title)

	case "queue":
		queueCommand(store)

	case "poll":
		if len(os.Args) < 3 {
			printUsage()
			return
		}
		pollCommand(os.Args[2])

	case "miccheck":
		micCheckCommand()

	default:
		printUsage()
	}
}

func printUsage() {
	fmt.Println("Usage:")
	fmt.Println("  waveline waveform <file-or-url> [width]  - print the waveform for a track")
	fmt.Println("  waveline download <url> [title]          - queue a sermon download and wait")
	fmt.Println("  waveline queue                           - list the persisted download queue")
	fmt.Println("  waveline poll <status-url>               - watch livestream status on the smart schedule")
	fmt.Println("  waveline miccheck                        - record 5 seconds and preview the levels")
}
