package order

import (
	"fmt"
	"math/rand/v2"
)

var safetyWords = []string{
	"amber", "basil", "cedar", "delta", "ember", "fable", "ginger", "harbor",
	"indigo", "juniper", "kettle", "lemon", "maple", "nectar", "olive", "pepper",
	"quartz", "raven", "saffron", "tango", "umber", "velvet", "willow", "zephyr",
}

// NewSafetyWord returns a short token the customer and courier compare at handoff,
// for example "maple-42".
func NewSafetyWord() string {
	//nolint:gosec // not a secret, only a handoff confirmation word
	return fmt.Sprintf("%s-%02d", safetyWords[rand.IntN(len(safetyWords))], rand.IntN(100))
}
