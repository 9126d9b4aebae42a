package ioutils

import (
	"bytes"
	"errors"
	"io"
	"os"
)

// Kind identifies a supported image type.
type Kind int

const (
	KindUnknown Kind = iota
	KindPNG
	KindJPEG
	KindGIF
	KindTIFF
	KindBMP
	KindWEBP
)

func (k Kind) String() string {
	switch k {
	case KindPNG:
		return "png"
	case KindJPEG:
		return "jpeg"
	case KindGIF:
		return "gif"
	case KindTIFF:
		return "tiff"
	case KindBMP:
		return "bmp"
	case KindWEBP:
		return "webp"
	default:
		return "unknown"
	}
}

// sniffLen is enough for every signature below (RIFF....WEBP is 12 bytes).
const sniffLen = 12

var (
	pngSig    = []byte{0x89, 0x50, 0x4e, 0x47, 0x0d, 0x0a, 0x1a, 0x0a}
	jpegSig   = []byte{0xff, 0xd8, 0xff}
	gif87Sig  = []byte("GIF87a")
	gif89Sig  = []byte("GIF89a")
	tiffSigLE = []byte{0x49, 0x49, 0x2a, 0x00}
	tiffSigBE = []byte{0x4d, 0x4d, 0x00, 0x2a}
	bmpSig    = []byte("BM")
	riffSig   = []byte("RIFF")
	webpSig   = []byte("WEBP")
)

// DetectHeader inspects the leading bytes of a file for known signatures.
// Headers too short to match anything yield KindUnknown.
func DetectHeader(header []byte) Kind {
	switch {
	case bytes.HasPrefix(header, pngSig):
		return KindPNG
	case bytes.HasPrefix(header, jpegSig):
		return KindJPEG
	case bytes.HasPrefix(header, gif87Sig), bytes.HasPrefix(header, gif89Sig):
		return KindGIF
	case bytes.HasPrefix(header, tiffSigLE), bytes.HasPrefix(header, tiffSigBE):
		return KindTIFF
	case len(header) >= 12 && bytes.HasPrefix(header, riffSig) && bytes.Equal(header[8:12], webpSig):
		return KindWEBP
	case bytes.HasPrefix(header, bmpSig):
		return KindBMP
	}
	return KindUnknown
}

// SniffFile reads the first bytes of a file to determine its type.
func SniffFile(path string) (Kind, error) {
	f, err := os.Open(path)
	if err != nil {
		return KindUnknown, err
	}
	defer f.Close()

	return SniffReader(f)
}

// SniffReader reads up to 12 bytes from r and determines its type.
// Short inputs are not an error; they simply match nothing.
func SniffReader(r io.Reader) (Kind, error) {
	header := make([]byte, sniffLen)
	n, err := io.ReadFull(r, header)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return KindUnknown, err
	}

	return DetectHeader(header[:n]), nil
}
