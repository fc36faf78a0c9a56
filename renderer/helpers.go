package renderer

import (
	"bytes"
	"io"

	"github.com/etnz/costbasis/date"
)

// ConditionalBlock let you fully write a block and decide at the end to print it or not.
// If the block function returns true, the content is printed to w, otherwise it is discarded.
func ConditionalBlock(w io.Writer, block func(io.Writer) bool) {
	bw := &bytes.Buffer{}
	if block(bw) {
		io.Copy(w, bw)
	}
}

// day formats an epoch milliseconds timestamp as its UTC day, "-" for none.
func day(ms int64) string {
	if ms == 0 {
		return "-"
	}
	return date.FromMillis(ms).String()
}
