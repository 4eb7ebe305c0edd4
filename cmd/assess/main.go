package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"

	"medai-lite/internal/agent"
	"medai-lite/internal/domain"
)

// Evalua un perfil de salud (JSON) sin levantar el servidor HTTP.
// Uso: assess [archivo.json] (sin argumento lee stdin).
func main() {
	input, err := readInput()
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	var raw map[string]any
	if err := json.Unmarshal(input, &raw); err != nil {
		log.Fatalf("parse json: %v", err)
	}

	profile, err := domain.ValidateProfile(raw)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			log.Fatalf("invalid profile: %v", verr)
		}
		log.Fatalf("invalid profile: %v", err)
	}

	aggregator, err := agent.NewAggregator(agent.DefaultWeights)
	if err != nil {
		log.Fatal(err)
	}

	result, err := aggregator.Assess(profile)
	if err != nil {
		log.Fatalf("assessment: %v", err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(string(out))
}

func readInput() ([]byte, error) {
	if len(os.Args) > 1 {
		return os.ReadFile(os.Args[1])
	}
	return io.ReadAll(os.Stdin)
}
