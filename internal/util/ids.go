package util

import (
	"fmt"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

const enterpriseIDAlphabet = "0123456789abcdefghijklmnopqrstuvwxyz"

// NewID returns a random identifier for nodes, edges and jobs.
func NewID() string {
	return gonanoid.Must()
}

// NewEnterpriseID builds the identifier for a newly created enterprise node.
// The timestamp keeps ids roughly sortable by creation time; the random
// suffix avoids collisions between enterprises created in the same millisecond.
func NewEnterpriseID() string {
	suffix := gonanoid.MustGenerate(enterpriseIDAlphabet, 9)
	return fmt.Sprintf("enterprise_%d_%s", time.Now().UnixMilli(), suffix)
}
