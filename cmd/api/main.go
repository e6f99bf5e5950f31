// Command api runs the RanaoJobs backend HTTP server.
package main

import (
	"log"
	"net/http"

	"github.com/MACKY1516/ranao-jobs-platform-sub002/internal/server"
)

func main() {
	srv := server.NewServer()

	log.Printf("Server listening on %s", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Server error: %s", err)
	}
}
