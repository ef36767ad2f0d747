// Command botmatch plays bot-vs-bot matches offline and reports results.
// Useful for tuning personality weights and catching rules regressions.
//
// Usage:
//
//	botmatch -n 100 -players 6 -seed 42
//	botmatch -n 1 -players 4 -json
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/palegrove/umbra/internal/bot"
	"github.com/palegrove/umbra/internal/logger"
)

func main() {
	n := flag.Int("n", 1, "number of matches to play")
	players := flag.Int("players", 6, "players per match (2-8)")
	seed := flag.Int64("seed", 0, "base seed (0 = time-based)")
	personalitiesPath := flag.String("personalities", "", "JSON file of personality profiles (empty = built-in defaults)")
	maxTurns := flag.Int("max-turns", bot.DefaultMaxTurns, "turn cutoff before a match is scored as a draw")
	jsonOut := flag.Bool("json", false, "print per-match results as JSON lines")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	logger.Init()
	if !*verbose {
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}

	personalities, err := bot.LoadPersonalitiesFile(*personalitiesPath)
	if err != nil {
		log.Fatal().Err(err).Str("path", *personalitiesPath).Msg("Failed to load personalities")
	}

	base := *seed
	if base == 0 {
		base = time.Now().UnixNano()
	}

	winsByFaction := make(map[string]int)
	winsByPersonality := make(map[string]int)
	draws := 0

	for i := 0; i < *n; i++ {
		matchSeed := base + int64(i)
		res, err := bot.RunArenaMatch(bot.ArenaConfig{
			Seed:          matchSeed,
			Players:       *players,
			Personalities: personalities,
			MaxTurns:      *maxTurns,
		})
		if err != nil {
			log.Fatal().Err(err).Int("match", i).Msg("Arena match failed")
		}

		if *jsonOut {
			line, _ := json.Marshal(res)
			fmt.Println(string(line))
		}

		if res.Winner == "" {
			draws++
			continue
		}
		winsByFaction[string(res.Winner)]++
		for _, name := range res.WinnerPersonalities {
			winsByPersonality[name]++
		}
	}

	if *jsonOut {
		return
	}

	fmt.Printf("matches: %d  draws: %d\n", *n, draws)
	fmt.Println("wins by faction:")
	for _, k := range sortedKeys(winsByFaction) {
		fmt.Printf("  %-12s %d\n", k, winsByFaction[k])
	}
	fmt.Println("wins by personality:")
	for _, k := range sortedKeys(winsByPersonality) {
		fmt.Printf("  %-12s %d\n", k, winsByPersonality[k])
	}
	os.Exit(0)
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
