package game

import "math/rand"

// fallbackPrompts covers for the prompt generator when it times out or
// errors. Starting a round must never fail because generation did.
var fallbackPrompts = []string{
	"What's the most ridiculous thing you've ever bought?",
	"Describe your ideal Sunday in two sentences.",
	"What would be the worst superpower to have?",
	"Invent a new holiday and explain how it's celebrated.",
	"What's the strangest compliment you could give someone?",
	"Pitch a terrible idea for a reality TV show.",
	"What's an unwritten rule everyone should follow?",
	"Describe the most awkward elevator ride imaginable.",
	"What would your autobiography's first sentence be?",
	"Name a food combination that shouldn't work but does.",
}

const fallbackExample = "I once bought a pet rock with googly eyes glued to it."

// FallbackPromptPair picks a built-in prompt uniformly at random, paired with
// a canned example response for the AI decoy.
func FallbackPromptPair() (prompt, exampleResponse string) {
	return fallbackPrompts[rand.Intn(len(fallbackPrompts))], fallbackExample
}
