// Command comicbatch converts a directory of CBZ comic archives into a
// numbered series of PDF documents, each kept under a maximum file size.
//
// Usage:
//
//	comicbatch [flags] DIRECTORY
//	comicbatch list DIRECTORY
//	comicbatch check [DIRECTORY]
//	comicbatch config init|validate
//
// Progress is written to stdout; structured logs go to stderr.
package main
