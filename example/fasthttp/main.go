package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/picolog"
	"github.com/lixenwraith/picolog/compat"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure logger
	logger := picolog.NewLogger()
	err := logger.InitWithDefaults(
		"directory=/var/log/fasthttp",
		"level=0",
		"name=httpd",
		"buffer_size=256",
		"max_file_size=4mb",
	)
	if err != nil {
		panic(err)
	}
	defer logger.Shutdown()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		logger,
		compat.WithDefaultLevel(picolog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler,
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		panic(err)
	}
}

func requestHandler(ctx *fasthttp.RequestCtx) {
	ctx.SetContentType("text/plain")
	fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())
}

func customLevelDetector(msg string) int64 {
	// Inspect specific fasthttp message patterns first
	if strings.Contains(msg, "connection cannot be served") {
		return picolog.LevelWarn
	}
	if strings.Contains(msg, "error when serving connection") {
		return picolog.LevelError
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}
