package itinerary

import "math/rand/v2"

// Intn is the random source used by the name generators.
// *rand.Rand from math/rand/v2 satisfies it.
type Intn interface {
	IntN(n int) int
}

// NewRand returns an entropy-seeded source for production use.
func NewRand() *rand.Rand {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

var (
	lodgingPrefixes = []string{"Grand", "Central", "Royal", "Plaza", "Downtown", "Luxury"}
	lodgingSuffixes = []string{"Hotel", "Inn", "Suites", "Resort"}

	activityNames = []string{
		"City Tour",
		"Museum Visit",
		"Local Restaurant",
		"Shopping District",
		"Cultural Experience",
		"Sightseeing",
		"Guided Tour",
		"Local Cuisine Tasting",
	}
)

// LodgingName returns a placeholder hotel name such as "Royal Lisbon Suites".
// Prefix and suffix are picked independently from rng.
func LodgingName(rng Intn, city string) string {
	prefix := lodgingPrefixes[rng.IntN(len(lodgingPrefixes))]
	suffix := lodgingSuffixes[rng.IntN(len(lodgingSuffixes))]
	return prefix + " " + city + " " + suffix
}

// ActivityName returns one of a fixed set of generic activity labels.
func ActivityName(rng Intn) string {
	return activityNames[rng.IntN(len(activityNames))]
}
