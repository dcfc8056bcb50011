package main

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/lixenwraith/picolog"
)

const configFile = "simple_config.toml"

// Example TOML content
var tomlContent = `
# Example simple_config.toml
[picolog]
  level = -4 # Debug
  directory = "./simple_logs"
  format = "txt"
  buffer_size = 8
  max_file_size = "16kb"
  max_rotations = 3
  log_to_console = true
  console_target = "split"
`

func main() {
	fmt.Println("--- Simple Logger Example ---")

	// Create dummy config file
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		// Continue, Init falls back to defaults for a missing file
	} else {
		fmt.Printf("Created dummy config file: %s\n", configFile)
		// defer os.Remove(configFile) // Remove to keep the saved config file
	}

	// --- Initialize Logger ---
	logger := picolog.NewLogger()
	err = logger.Init(configFile, "name=simple")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("Logger initialized.")

	// --- Logging ---
	logger.Debug("main", "debug message, user_id 123")
	logger.Info("main", "application starting")
	logger.Warn("main", "potential issue detected, threshold 0.95")
	logger.Error("main", "an error occurred, code 500")

	// Measurements go to the CSV data channel
	logger.Data("startup_ms", 128)
	logger.Data("cache_hit_ratio", 0.95)

	// Logging from goroutines
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			logger.Info("worker", fmt.Sprintf("goroutine %d started", id))
			time.Sleep(time.Duration(50+id*50) * time.Millisecond)
			logger.Info("worker", fmt.Sprintf("goroutine %d finished", id))
		}(i)
	}

	// Wait for goroutines to finish before shutting down logger
	wg.Wait()
	fmt.Println("Goroutines finished.")

	// Emit a counters snapshot before exit
	logger.LogStats("main")

	// --- Shutdown Logger ---
	fmt.Println("Shutting down logger...")
	err = logger.Shutdown()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Logger shutdown error: %v\n", err)
	} else {
		fmt.Println("Logger shutdown complete.")
	}

	fmt.Println("--- Example Finished ---")
	fmt.Println("Check log files in './simple_logs'.")
}
