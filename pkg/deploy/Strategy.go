// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package deploy

import (
	"fmt"
)

type Strategy int

const (
	// StrategyAuto deploys incrementally, or all files if the store has no revision marker.
	StrategyAuto Strategy = iota
	StrategyIncremental
	StrategyFull
)

func (s Strategy) String() string {
	switch s {
	case StrategyAuto:
		return "auto"
	case StrategyIncremental:
		return "incremental"
	case StrategyFull:
		return "full"
	}
	return "unknown"
}

func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "auto", "":
		return StrategyAuto, nil
	case "incremental", "diff":
		return StrategyIncremental, nil
	case "full":
		return StrategyFull, nil
	}
	return StrategyAuto, fmt.Errorf("unknown strategy %q, expecting auto, incremental, or full", s)
}
