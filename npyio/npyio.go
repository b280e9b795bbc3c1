// Copyright 2024 The Gophon Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// package npyio reads and writes the numpy .npy files used to persist the
// computed arrays (frequencies, velocities, eigenvalues, eigenvectors,
// gammas) for external caching and analysis tooling. Only what those
// arrays need is implemented: format version 1.0, dtypes <f8 and <c16.
package npyio

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/cpmech/gosl/chk"
)

var magic = []byte{0x93, 'N', 'U', 'M', 'P', 'Y'}

// Array is an in-memory .npy payload: a flat row-major buffer plus its
// shape. Real holds float64 data, Complex holds complex128 data; exactly
// one of them is non-nil.
type Array struct {
	Shape   []int
	Real    []float64
	Complex []complex128
}

// WriteReal writes a row-major float64 array in the '<f8' dtype.
func WriteReal(w io.Writer, shape []int, data []float64) error {
	return write(w, shape, "<f8", func(bw *bufio.Writer) error {
		for _, v := range data {
			if err := binary.Write(bw, binary.LittleEndian, v); err != nil {
				return err
			}
		}
		return nil
	})
}

// WriteComplex writes a row-major complex128 array in the '<c16' dtype.
func WriteComplex(w io.Writer, shape []int, data []complex128) error {
	return write(w, shape, "<c16", func(bw *bufio.Writer) error {
		for _, v := range data {
			if err := binary.Write(bw, binary.LittleEndian, real(v)); err != nil {
				return err
			}
			if err := binary.Write(bw, binary.LittleEndian, imag(v)); err != nil {
				return err
			}
		}
		return nil
	})
}

func write(w io.Writer, shape []int, dtype string, body func(*bufio.Writer) error) error {
	shapeStr := make([]string, len(shape))
	for i, s := range shape {
		shapeStr[i] = strconv.Itoa(s)
	}
	tail := ""
	if len(shape) == 1 {
		tail = ","
	}
	dict := fmt.Sprintf("{'descr': '%s', 'fortran_order': False, 'shape': (%s%s), }",
		dtype, strings.Join(shapeStr, ", "), tail)

	// pad the header so magic(6)+version(2)+headerlen(2)+dict+'\n' is a
	// multiple of 64 bytes, per the npy version-1.0 format.
	headerLen := len(dict) + 1
	total := 10 + headerLen
	pad := (64 - total%64) % 64
	dict += strings.Repeat(" ", pad)
	dict += "\n"

	bw := bufio.NewWriter(w)
	if _, err := bw.Write(magic); err != nil {
		return err
	}
	if _, err := bw.Write([]byte{1, 0}); err != nil {
		return err
	}
	if err := binary.Write(bw, binary.LittleEndian, uint16(len(dict))); err != nil {
		return err
	}
	if _, err := bw.WriteString(dict); err != nil {
		return err
	}
	if err := body(bw); err != nil {
		return err
	}
	return bw.Flush()
}

// Read parses a version-1.0 .npy stream with dtype '<f8' or '<c16'.
func Read(r io.Reader) (*Array, error) {
	br := bufio.NewReader(r)
	hdr := make([]byte, 6)
	if _, err := io.ReadFull(br, hdr); err != nil {
		return nil, chk.Err("npyio: failed to read magic: %v\n", err)
	}
	if !bytes.Equal(hdr, magic) {
		return nil, chk.Err("npyio: not a .npy stream\n")
	}
	ver := make([]byte, 2)
	if _, err := io.ReadFull(br, ver); err != nil {
		return nil, chk.Err("npyio: failed to read version: %v\n", err)
	}
	if ver[0] != 1 {
		return nil, chk.Err("npyio: only version 1.0 is supported, got %d.%d\n", ver[0], ver[1])
	}
	var headerLen uint16
	if err := binary.Read(br, binary.LittleEndian, &headerLen); err != nil {
		return nil, chk.Err("npyio: failed to read header length: %v\n", err)
	}
	dict := make([]byte, headerLen)
	if _, err := io.ReadFull(br, dict); err != nil {
		return nil, chk.Err("npyio: failed to read header: %v\n", err)
	}
	shape, dtype, err := parseHeader(string(dict))
	if err != nil {
		return nil, err
	}

	n := 1
	for _, s := range shape {
		n *= s
	}
	a := &Array{Shape: shape}
	switch dtype {
	case "<f8":
		a.Real = make([]float64, n)
		for i := range a.Real {
			if err := binary.Read(br, binary.LittleEndian, &a.Real[i]); err != nil {
				return nil, chk.Err("npyio: failed to read element %d: %v\n", i, err)
			}
		}
	case "<c16":
		a.Complex = make([]complex128, n)
		for i := range a.Complex {
			var re, im float64
			if err := binary.Read(br, binary.LittleEndian, &re); err != nil {
				return nil, chk.Err("npyio: failed to read element %d: %v\n", i, err)
			}
			if err := binary.Read(br, binary.LittleEndian, &im); err != nil {
				return nil, chk.Err("npyio: failed to read element %d: %v\n", i, err)
			}
			a.Complex[i] = complex(re, im)
		}
	default:
		return nil, chk.Err("npyio: unsupported dtype %q\n", dtype)
	}
	return a, nil
}

func parseHeader(dict string) (shape []int, dtype string, err error) {
	descrIdx := strings.Index(dict, "'descr':")
	if descrIdx < 0 {
		return nil, "", chk.Err("npyio: header missing 'descr'\n")
	}
	rest := dict[descrIdx+len("'descr':"):]
	start := strings.Index(rest, "'")
	end := strings.Index(rest[start+1:], "'")
	dtype = rest[start+1 : start+1+end]

	shapeIdx := strings.Index(dict, "'shape':")
	if shapeIdx < 0 {
		return nil, "", chk.Err("npyio: header missing 'shape'\n")
	}
	rest = dict[shapeIdx+len("'shape':"):]
	lp := strings.Index(rest, "(")
	rp := strings.Index(rest, ")")
	if lp < 0 || rp < 0 || rp < lp {
		return nil, "", chk.Err("npyio: malformed shape tuple\n")
	}
	parts := strings.Split(rest[lp+1:rp], ",")
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, convErr := strconv.Atoi(p)
		if convErr != nil {
			return nil, "", chk.Err("npyio: malformed shape entry %q: %v\n", p, convErr)
		}
		shape = append(shape, v)
	}
	return shape, dtype, nil
}
