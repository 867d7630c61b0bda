// Package gemini implements the generation.Generator interface on the
// Gemini API family: text and JSON content through the configured text
// model, stills through the image model, and clips through the video
// model's long-running operations.
//
// Model output is treated as untrusted input. JSON responses pass
// through DecodeModelJSON, which tolerates code fences and surrounding
// prose, and every decoded result is normalized with fallback defaults
// before it reaches the pipeline.
package gemini
