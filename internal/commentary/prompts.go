// Package commentary owns the narration cadence: trigger results are
// buffered, coalesced into one prompt per window, sent to the
// generator, and the result is handed to the output queue.
package commentary

import "math/rand"

// Personas map a mode name to the system message sent with every
// generation. Unknown modes fall back to the default commentator.
var personas = map[string]string{
	"default": "You are a witty League of Legends commentator. Keep every line short enough to speak in under fifteen seconds.",
	"hype": "You are an over-the-top hype caster at the LCS finals. Everything is the play of the century. " +
		"Shout, exaggerate, keep it under three sentences.",
	"coach": "You are a calm strategic coach on the analyst desk. Break plays down professionally, " +
		"point out the macro consequence, no fluff, two sentences max.",
	"sarcastic": "You are a dry, unimpressed commentator. Roast the players casually, " +
		"never mean-spirited, always short.",
	"wholesome": "You are a relentlessly kind commentator. Find something encouraging in every play, " +
		"cheer for both teams, keep it brief and warm.",
}

// Persona returns the system message for a mode, falling back to the
// default commentator for unknown modes.
func Persona(mode string) string {
	if p, ok := personas[mode]; ok {
		return p
	}
	return personas["default"]
}

// KnownMode reports whether a mode name has its own persona.
func KnownMode(mode string) bool {
	_, ok := personas[mode]
	return ok
}

// commentaryOpeners are per-mode opening lines for the coalesced event
// prompt. One is picked at random per flush so back-to-back windows
// don't produce near-identical outputs.
var commentaryOpeners = map[string][]string{
	"default": {
		"Commentate on the current game:",
		"Give your thoughts on the current in-game action:",
		"Describe what's happening right now in the match:",
		"React to these recent events like you're live on stream:",
	},
	"hype": {
		"You're a hypecaster! Shout like it's the finals:",
		"Explode with excitement about the current game events:",
		"Pump up the audience with an intense reaction to these plays:",
	},
	"coach": {
		"Break down what just happened:",
		"Give a calm and professional analysis of the plays below:",
		"Explain the game situation as if you're on the analyst desk:",
	},
	"sarcastic": {
		"Comment on the game with dry humor and snark:",
		"You're unimpressed. Roast these players casually:",
	},
	"wholesome": {
		"React with kindness and encouragement to these events:",
		"Cheer for the teams with a supportive, feel-good tone:",
	},
}

func opener(mode string, rng *rand.Rand) string {
	pool, ok := commentaryOpeners[mode]
	if !ok {
		pool = commentaryOpeners["default"]
	}
	return pool[rng.Intn(len(pool))]
}
