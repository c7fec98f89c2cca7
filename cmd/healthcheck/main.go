// Package main is a minimal HTTP health check binary for use in distroless
// containers, where no curl is available for an ECS container health check.
// It exits 0 when GET / on the local service returns HTTP 200, and 1
// otherwise. Compile with CGO_ENABLED=0 for a fully static binary.
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"
)

func main() {
	url := flag.String("url", defaultURL(), "URL to probe")
	timeout := flag.Duration("timeout", 3*time.Second, "Request timeout")
	flag.Parse()

	client := &http.Client{Timeout: *timeout}
	resp, err := client.Get(*url)
	if err != nil {
		fmt.Fprintln(os.Stderr, "healthcheck:", err)
		os.Exit(1)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		fmt.Fprintln(os.Stderr, "healthcheck: unexpected status", resp.StatusCode)
		os.Exit(1)
	}
}

// defaultURL targets the port the service itself reads from PORT.
func defaultURL() string {
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	return fmt.Sprintf("http://localhost:%s/", port)
}
