// Package mmfile provides platform-specific helpers for loading ROM images.
//
// On unix systems the image is memory-mapped with golang.org/x/sys/unix and
// copied into a private buffer; elsewhere it is read with os.ReadFile.
package mmfile
