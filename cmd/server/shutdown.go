package main

import (
	"io"
	"log"
	"time"
)

type httpServer interface {
	ShutdownWithTimeout(timeout time.Duration) error
}

type crawlScheduler interface {
	Stop()
}

// shutdown closes in order: HTTP first so no manual crawl can start, then the
// scheduler (waits for the running crawl to record its end), then the store.
func shutdown(app httpServer, sched crawlScheduler, store io.Closer, timeout time.Duration) {
	if err := app.ShutdownWithTimeout(timeout); err != nil {
		log.Printf("⚠️  Error cerrando servidor: %v", err)
	}

	log.Println("🛑 Esperando a que termine el crawl en curso...")
	sched.Stop()

	if err := store.Close(); err != nil {
		log.Printf("⚠️  Error cerrando store: %v", err)
	}
	log.Println("✅ Servidor cerrado correctamente")
}
