// Copyright 2025 R5 Labs
// This file is part of the R5 Core library.
//
// This software is provided "as is", without warranty of any kind,
// express or implied, including but not limited to the warranties
// of merchantability, fitness for a particular purpose and
// noninfringement. In no event shall the authors or copyright
// holders be liable for any claim, damages, or other liability,
// whether in an action of contract, tort or otherwise, arising
// from, out of or in connection with the software or the use or
// other dealings in the software.

package ibc

import "fmt"

// Height is ordered lexicographically by (RevisionNumber, RevisionHeight).
// The zero value means "latest" wherever a query accepts it.
type Height struct {
	RevisionNumber uint64
	RevisionHeight uint64
}

// ZeroHeight is the sentinel meaning "query at the latest height".
var ZeroHeight = Height{}

// IsZero reports whether h means "latest".
func (h Height) IsZero() bool {
	return h.RevisionNumber == 0 && h.RevisionHeight == 0
}

// Less orders heights lexicographically.
func (h Height) Less(o Height) bool {
	if h.RevisionNumber != o.RevisionNumber {
		return h.RevisionNumber < o.RevisionNumber
	}
	return h.RevisionHeight < o.RevisionHeight
}

// LessEq reports h <= o.
func (h Height) LessEq(o Height) bool {
	return h == o || h.Less(o)
}

// Increment returns the height one revision-height past h.
func (h Height) Increment() Height {
	return Height{RevisionNumber: h.RevisionNumber, RevisionHeight: h.RevisionHeight + 1}
}

func (h Height) String() string {
	return fmt.Sprintf("%d-%d", h.RevisionNumber, h.RevisionHeight)
}
