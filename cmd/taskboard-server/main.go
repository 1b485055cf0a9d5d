// taskboard-server is the standalone board API binary. It serves editor
// sessions, attachment intake, payload downloads and the websocket event
// stream, with optional Prometheus metrics and OpenTelemetry tracing.
package main

import (
	"log"

	serverBootstrap "taskboard/internal/server/bootstrap"
)

func main() {
	if err := serverBootstrap.RunServer(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
}
