// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================
package ts

import (
	"errors"
	"strconv"
	"time"
)

// ParseLocation accepts "Local", "UTC", an hour offset such as "-7", or an IANA zone name.
func ParseLocation(location string) (*time.Location, error) {
	switch location {
	case "":
		return nil, errors.New("cannot parse location from empty string")
	case "Local":
		return time.Local, nil
	case "UTC":
		return time.UTC, nil
	}
	if hours, err := strconv.Atoi(location); err == nil {
		return time.FixedZone("UTC"+location, hours*60*60), nil
	}
	return time.LoadLocation(location)
}
