package portaria

import (
	"regexp"
	"sort"
	"strconv"
)

// InLabs entry names look like 515_20250819_23138645-1.xml: the last
// number is the matéria base id, the optional -N suffix is the break
// sequence when a matéria spans multiple fragments.
var fragmentNamePattern = regexp.MustCompile(`\d+_\d+_(\d+)(?:-(\d+))?\.xml$`)

type fragmentRef struct {
	name   string
	suffix int
}

type fragmentGroup struct {
	baseID    string
	fragments []fragmentRef
}

// groupFragments buckets entry names by matéria base id and orders each
// bucket ascending by break suffix (absent = 0). The first element of a
// bucket is the header fragment; equal suffixes keep archive order.
// Groups come back sorted by base id so downstream merging is
// deterministic. Non-conforming names are ignored.
func groupFragments(names []string) []fragmentGroup {
	buckets := make(map[string][]fragmentRef)
	for _, name := range names {
		m := fragmentNamePattern.FindStringSubmatch(name)
		if m == nil {
			continue
		}
		suffix := 0
		if m[2] != "" {
			suffix, _ = strconv.Atoi(m[2])
		}
		buckets[m[1]] = append(buckets[m[1]], fragmentRef{name: name, suffix: suffix})
	}

	baseIDs := make([]string, 0, len(buckets))
	for baseID := range buckets {
		baseIDs = append(baseIDs, baseID)
	}
	sort.Strings(baseIDs)

	groups := make([]fragmentGroup, 0, len(baseIDs))
	for _, baseID := range baseIDs {
		fragments := buckets[baseID]
		sort.SliceStable(fragments, func(i, j int) bool {
			return fragments[i].suffix < fragments[j].suffix
		})
		groups = append(groups, fragmentGroup{baseID: baseID, fragments: fragments})
	}
	return groups
}
