// Package art implements the album art transcoding pipeline.
//
// The pipeline is a pure transformation from a remote image URL to
// display-ready bitmap bytes, staged as fetch, decode, resize, and encode.
// Each stage fails with its own sentinel from the shared error taxonomy.
//
// Output is fixed at 320x240, 24 bits per pixel, uncompressed BMP. The
// downstream client is an embedded display that can blit exactly this format
// and nothing else, so the resize stretches to the target dimensions instead
// of preserving aspect ratio.
//
// The pipeline holds no session state and is safe for concurrent use.
package art
