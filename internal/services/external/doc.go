// Package external runs page resizing and document assembly through
// ImageMagick convert and img2pdf.
//
// Commands are executed through an Executor so tests can observe argument
// lists without the binaries installed. Output from the tools is forwarded
// line by line to the caller, or to stderr when no callback is provided.
package external
