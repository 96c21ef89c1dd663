package model

import "strings"

// Region identifies which branch-specific stock column a mutation targets.
type Region string

const (
	// RegionNorth covers branches tracked in the north stock column.
	RegionNorth Region = "NORTH"
	// RegionSouth covers branches tracked in the south stock column.
	RegionSouth Region = "SOUTH"
)

// Code returns the single-letter prefix used in job identifiers.
func (r Region) Code() string {
	if r == RegionNorth {
		return "N"
	}
	return "S"
}

// branchOverrides maps explicit branch labels to regions, checked before the
// substring rule. Lets deployments with more branches pin each one without
// relying on naming conventions.
var branchOverrides = map[string]Region{}

// RegisterBranch pins a branch label to a region, bypassing the substring rule.
func RegisterBranch(branch string, region Region) {
	branchOverrides[strings.ToLower(strings.TrimSpace(branch))] = region
}

// RegionFromBranch resolves a branch label to its region. Branches registered
// via RegisterBranch win; otherwise any label containing "north"
// (case-insensitive) is north and everything else is south.
func RegionFromBranch(branch string) Region {
	if r, ok := branchOverrides[strings.ToLower(strings.TrimSpace(branch))]; ok {
		return r
	}
	if strings.Contains(strings.ToLower(branch), "north") {
		return RegionNorth
	}
	return RegionSouth
}
