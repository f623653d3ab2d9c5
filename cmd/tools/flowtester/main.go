package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/lordsmuseum/ally/backend/internal/config"
	"github.com/lordsmuseum/ally/backend/internal/model/artwork"
	"github.com/lordsmuseum/ally/backend/internal/service/ai"
	"github.com/lordsmuseum/ally/backend/pkg/dataurl"
)

// flowtester runs one completion flow from the terminal so prompt changes can
// be checked without the HTTP stack.
func main() {
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)

	if err := godotenv.Load(); err != nil {
		log.Printf("[WARN] failed to load .env, using system environment: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	mode := flag.String("mode", "", "flow to run: identify, tour or converse")
	imagePath := flag.String("image", "", "identify: path to the artwork photo")
	interests := flag.String("interests", "", "tour: visitor interests")
	availableTime := flag.String("time", "60", "tour: available minutes (30/60/90/120)")
	query := flag.String("query", "", "converse: visitor question")
	timeout := flag.Duration("timeout", 45*time.Second, "request timeout")

	flag.Parse()

	if *mode != "identify" && *mode != "tour" && *mode != "converse" {
		flag.Usage()
		log.Fatal("pick a flow with -mode=identify, -mode=tour or -mode=converse")
	}

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	svc, err := ai.NewService(ctx, cfg.AI)
	if err != nil {
		log.Fatalf("failed to initialize completion service: %v", err)
	}

	switch *mode {
	case "identify":
		runIdentify(ctx, svc, *imagePath)
	case "tour":
		runTour(ctx, svc, *interests, *availableTime)
	case "converse":
		runConverse(ctx, svc, *query)
	}
}

func runIdentify(ctx context.Context, svc *ai.Service, imagePath string) {
	if imagePath == "" {
		log.Fatal("identify requires -image")
	}

	f, err := os.Open(imagePath)
	if err != nil {
		log.Fatalf("failed to open image: %v", err)
	}
	defer f.Close()

	photoDataURI, err := dataurl.DetectAndEncode(f)
	if err != nil {
		log.Fatalf("failed to encode image: %v", err)
	}

	result, err := svc.IdentifyArtwork(ctx, photoDataURI)
	if err != nil {
		log.Fatalf("identification failed: %v", err)
	}

	fmt.Printf("Title:       %s\n", result.Title)
	fmt.Printf("Artist:      %s\n", result.Artist)
	fmt.Printf("Location:    %s\n", result.Location)
	fmt.Printf("Description: %s\n", result.Description)
}

func runTour(ctx context.Context, svc *ai.Service, interests, availableTime string) {
	if interests == "" {
		log.Fatal("tour requires -interests")
	}

	result, err := svc.GenerateTour(ctx, ai.TourRequest{
		Interests:     interests,
		AvailableTime: availableTime,
		MuseumMap:     artwork.MapDescription(artwork.Seed()),
	})
	if err != nil {
		log.Fatalf("tour generation failed: %v", err)
	}

	fmt.Println(result.TourDescription)
}

func runConverse(ctx context.Context, svc *ai.Service, query string) {
	if query == "" {
		log.Fatal("converse requires -query")
	}

	result, err := svc.Converse(ctx, query)
	if err != nil {
		log.Fatalf("conversation failed: %v", err)
	}

	fmt.Println(result.Response)
}
