// Command watch follows a question or a college feed live and prints the
// reconciled state after every change.
//
//	go run ./cmd/watch -server http://localhost:3000 -question <id>
//	go run ./cmd/watch -server http://localhost:3000 -college <id>
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Udaymore741/Campus-Connect-sub000/internal/reconciler"

	"github.com/gofiber/fiber/v2/log"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/v2/bson"
)

func main() {
	_ = godotenv.Load()

	server := flag.String("server", "http://localhost:3000", "server origin")
	question := flag.String("question", "", "question id to watch")
	college := flag.String("college", "", "college id to watch")
	limit := flag.Int("limit", 20, "feed size for -college")
	token := flag.String("token", os.Getenv("WATCH_TOKEN"), "bearer token (optional)")
	flag.Parse()

	if (*question == "") == (*college == "") {
		fmt.Fprintln(os.Stderr, "exactly one of -question or -college is required")
		flag.Usage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := reconciler.Dial(ctx, *server, *token)
	if err != nil {
		log.Fatalf("dial: %v", err)
	}
	defer client.Close()

	if *question != "" {
		id, err := bson.ObjectIDFromHex(*question)
		if err != nil {
			log.Fatalf("invalid question id %q", *question)
		}
		err = client.WatchQuestion(ctx, id, func(v *reconciler.QuestionView) {
			printQuestion(v)
		})
		if err != nil {
			log.Fatalf("watch: %v", err)
		}
		return
	}

	id, err := bson.ObjectIDFromHex(*college)
	if err != nil {
		log.Fatalf("invalid college id %q", *college)
	}
	err = client.WatchCollege(ctx, id, *limit, func(f *reconciler.CollegeFeed) {
		printFeed(f)
	})
	if err != nil {
		log.Fatalf("watch: %v", err)
	}
}

func printQuestion(v *reconciler.QuestionView) {
	q := v.Question
	status := "open"
	if q.Resolved {
		status = "resolved"
	}
	fmt.Printf("\n== %s [%s] likes=%d views=%d\n", q.Title, status, len(q.Likes), q.Views)
	for _, a := range v.Answers {
		mark := " "
		if a.Accepted {
			mark = "*"
		}
		fmt.Printf(" %s %s  (likes=%d, comments=%d)\n", mark, a.Content, len(a.Likes), len(a.Comments))
		for _, c := range a.Comments {
			fmt.Printf("     - %s\n", c.Content)
		}
	}
}

func printFeed(f *reconciler.CollegeFeed) {
	fmt.Printf("\n== college %s: %d questions\n", f.CollegeID.Hex(), len(f.Questions))
	for _, q := range f.Questions {
		fmt.Printf(" - %s (%s)\n", q.Title, q.CreatedAt.Format("2006-01-02 15:04"))
	}
}
