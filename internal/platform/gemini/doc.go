// Package gemini implements the generation.CardGenerator interface using
// Google's Gemini API.
package gemini
