package chain

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseHeightOrTag accepts a positive decimal height or LatestTag. latest is
// true for the tag, in which case height is 0. Anything else is reported as
// ErrBlockNotFound.
func ParseHeightOrTag(heightOrTag string) (height int64, latest bool, err error) {
	s := strings.TrimSpace(heightOrTag)
	if s == LatestTag {
		return 0, true, nil
	}

	height, err = strconv.ParseInt(s, 10, 64)
	if err != nil || height <= 0 {
		return 0, false, fmt.Errorf("%w: invalid height %q", ErrBlockNotFound, heightOrTag)
	}
	return height, false, nil
}
