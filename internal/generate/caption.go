package generate

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"
)

var (
	captionSubjects = []string{
		"A whimsical interpretation",
		"An artistic rendering",
		"A creative transformation",
		"A magical version",
	}
	captionStyles = []string{
		"in a vibrant watercolor style",
		"with a modern digital art twist",
		"in a dreamy, ethereal style",
		"with bold, expressive strokes",
	}
	captionEmotions = []string{
		"bringing joy and wonder",
		"evoking a sense of mystery",
		"creating a playful atmosphere",
		"inspiring imagination",
	}
)

// Caption is decorative flavour text shown under a result. It says nothing
// about the actual image content.
type Caption struct {
	Line1 string
	Line2 string
}

// Captioner picks captions from a seedable source.
type Captioner struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewCaptioner uses rng for every pick. A nil rng is seeded from the clock.
func NewCaptioner(rng *rand.Rand) *Captioner {
	if rng == nil {
		now := uint64(time.Now().UnixNano())
		rng = rand.New(rand.NewPCG(now, now>>17))
	}
	return &Captioner{rng: rng}
}

// Next draws subject, style and emotion independently and uniformly.
func (c *Captioner) Next() Caption {
	c.mu.Lock()
	subject := captionSubjects[c.rng.IntN(len(captionSubjects))]
	style := captionStyles[c.rng.IntN(len(captionStyles))]
	emotion := captionEmotions[c.rng.IntN(len(captionEmotions))]
	c.mu.Unlock()
	return Caption{
		Line1: fmt.Sprintf("%s of your sketch %s.", subject, style),
		Line2: fmt.Sprintf("This unique piece %s.", emotion),
	}
}
