package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/yourorg/gmbcrawl/internal/bootstrap"
	"github.com/yourorg/gmbcrawl/internal/config"
	"github.com/yourorg/gmbcrawl/internal/models"
)

func main() {
	reader := bufio.NewReader(os.Stdin)
	for {
		fmt.Println("==== GMB Crawler CLI ====")
		fmt.Println("1) Health check API")
		fmt.Println("2) Crawl now")
		fmt.Println("3) Hash admin password")
		fmt.Println("4) Recent runs")
		fmt.Println("5) Exit")
		fmt.Print("Select option: ")
		choice, _ := reader.ReadString('\n')
		choice = strings.TrimSpace(choice)
		switch choice {
		case "1":
			doHealthCheck()
		case "2":
			doCrawl()
		case "3":
			doHashPassword(reader)
		case "4":
			doRecentRuns()
		case "5":
			fmt.Println("Bye")
			return
		default:
			fmt.Println("Invalid option")
		}
		fmt.Println()
	}
}

func doHealthCheck() {
	base := os.Getenv("BASE_URL")
	if base == "" {
		base = "http://127.0.0.1:8080"
	}
	url := strings.TrimRight(base, "/") + "/api/health"
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Println("Health: ERROR:", err)
		return
	}
	defer resp.Body.Close()
	fmt.Println("Health status:", resp.Status)
}

func openRuntime() (*config.Config, *bootstrap.Runtime, bool) {
	cfg, err := config.Load("")
	if err != nil {
		log.Println("Config error:", err)
		return nil, nil, false
	}
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	rt, err := bootstrap.Open(ctx, cfg)
	if err != nil {
		log.Println("Store error:", err)
		return nil, nil, false
	}
	return cfg, rt, true
}

func doCrawl() {
	cfg, rt, ok := openRuntime()
	if !ok {
		return
	}
	defer rt.Close()

	ctx := context.Background()
	if cfg.Schedule.Budget > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Schedule.Budget)
		defer cancel()
	}

	fmt.Println("Crawling", cfg.Source.BaseURL, "...")
	summary, err := rt.Crawler.Run(ctx, models.TriggerCLI)
	if err != nil {
		fmt.Println("Crawl: ERROR:", err)
		return
	}
	fmt.Printf("Crawl %s done in %s: %d codes, %d routes, %d stops\n",
		summary.RunID, summary.Duration.Round(time.Millisecond), summary.Codes, summary.Routes, summary.Stops)
	if cfg.Store.Driver == "memory" {
		fmt.Println("(memory driver: documents are discarded on exit)")
	}
}

func doHashPassword(reader *bufio.Reader) {
	fmt.Print("Password: ")
	pw, _ := reader.ReadString('\n')
	pw = strings.TrimSpace(pw)
	if len(pw) < 8 {
		fmt.Println("Password must have at least 8 characters")
		return
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.DefaultCost)
	if err != nil {
		fmt.Println("Hash error:", err)
		return
	}
	fmt.Println("ADMIN_PASSWORD_HASH=" + string(hash))
}

func doRecentRuns() {
	_, rt, ok := openRuntime()
	if !ok {
		return
	}
	defer rt.Close()

	runs, err := rt.Runs.Recent(context.Background(), 10)
	if err != nil {
		fmt.Println("Runs: ERROR:", err)
		return
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded")
		return
	}
	for _, r := range runs {
		finished := "-"
		if r.CompletedAt != nil {
			finished = r.CompletedAt.Format(time.RFC3339)
		}
		errMsg := ""
		if r.ErrorMessage != nil {
			errMsg = *r.ErrorMessage
		}
		fmt.Printf("%s  %-9s %-9s started=%s finished=%s stops=%d %s\n",
			r.ID, r.Trigger, r.Status, r.StartedAt.Format(time.RFC3339), finished, r.StopsWritten, errMsg)
	}
}
