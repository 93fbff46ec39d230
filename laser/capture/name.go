package capture

import (
	"math/rand"
	"time"
)

var (
	adjectives = []string{
		"amber", "angled", "bright", "burning", "clear", "coherent", "crimson",
		"dazzling", "dim", "faint", "flashing", "focused", "glancing", "glinting",
		"golden", "hidden", "keen", "level", "mirrored", "narrow", "parallel",
		"piercing", "polished", "quiet", "red", "scarlet", "sharp", "silver",
		"slanted", "steady", "straight", "thin", "tilted", "twin", "vivid",
	}

	nouns = []string{
		"arc", "beam", "bounce", "corner", "crystal", "dawn", "echo", "facet",
		"flare", "glass", "glint", "gleam", "halo", "lantern", "lens", "line",
		"mirror", "path", "prism", "pulse", "ray", "shard", "signal", "spark",
		"spectrum", "streak", "target", "thread", "trace", "vector", "window",
	}
)

// GenerateCaptureName creates a memorable identifier of the form "adjective-noun"
func GenerateCaptureName() string {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	return adjectives[r.Intn(len(adjectives))] + "-" + nouns[r.Intn(len(nouns))]
}

// GenerateCaptureID combines the memorable name with a timestamp
func GenerateCaptureID() string {
	timestamp := time.Now().UTC().Format("20060102-150405")
	return GenerateCaptureName() + "-" + timestamp
}
