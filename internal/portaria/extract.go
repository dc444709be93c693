package portaria

import (
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"douvigia/internal/model"
)

// Extract opens a DOU edition held in memory and returns the per-Portaria
// aggregates for the given unit filter. A nil filter means the built-in
// Navy units. The only call-level failure is a corrupt archive; malformed
// fragments are skipped and logged.
func Extract(data []byte, filter model.UnitFilter) (map[string]*model.Aggregate, error) {
	archive, err := OpenArchive(data)
	if err != nil {
		return map[string]*model.Aggregate{}, err
	}
	defer func() { _ = archive.Close() }()
	return extract(archive, filter), nil
}

// ExtractFile is Extract for an edition on disk.
func ExtractFile(path string, filter model.UnitFilter) (map[string]*model.Aggregate, error) {
	archive, err := OpenArchiveFile(path)
	if err != nil {
		return map[string]*model.Aggregate{}, err
	}
	defer func() { _ = archive.Close() }()
	return extract(archive, filter), nil
}

type groupResult struct {
	orderID string
	hint    string
	items   []model.LineItem
}

func extract(archive *Archive, filter model.UnitFilter) map[string]*model.Aggregate {
	if filter == nil {
		filter = model.DefaultUnits()
	}

	groups := groupFragments(archive.Names())

	// Groups are independent, so scan them on a bounded pool. Results land
	// in a slice indexed by group so the merge below stays deterministic.
	results := make([]groupResult, len(groups))
	var pool errgroup.Group
	pool.SetLimit(runtime.GOMAXPROCS(0))
	for i, group := range groups {
		i, group := i, group
		pool.Go(func() error {
			results[i] = processGroup(archive, group, filter)
			return nil
		})
	}
	_ = pool.Wait()

	aggregates := make(map[string]*model.Aggregate)
	for _, result := range results {
		if len(result.items) == 0 {
			continue
		}
		aggregate, ok := aggregates[result.orderID]
		if !ok {
			aggregate = &model.Aggregate{OrderID: result.orderID, Hint: result.hint}
			aggregates[result.orderID] = aggregate
		} else if aggregate.Hint == "" {
			aggregate.Hint = result.hint
		}
		aggregate.Items = append(aggregate.Items, result.items...)
	}
	return aggregates
}

// processGroup resolves the group's header exactly once and scans every
// fragment. Fragment-level failures degrade to warnings so one broken
// matéria never aborts the edition.
func processGroup(archive *Archive, group fragmentGroup, filter model.UnitFilter) groupResult {
	result := groupResult{orderID: UnresolvedOrderID}

	headerName := group.fragments[0].name
	if data, err := archive.Read(headerName); err != nil {
		slog.Warn("could not read header fragment", "entry", headerName, "error", err)
	} else if env, err := decodeEnvelope(data); err != nil {
		slog.Warn("malformed header fragment", "entry", headerName, "error", err)
	} else {
		result.orderID, result.hint = resolveHeader(env)
	}

	for _, fragment := range group.fragments {
		data, err := archive.Read(fragment.name)
		if err != nil {
			slog.Warn("could not read fragment", "entry", fragment.name, "error", err)
			continue
		}
		items, err := scanFragment(data, filter)
		if err != nil {
			slog.Warn("skipping malformed fragment", "entry", fragment.name, "error", err)
			continue
		}
		result.items = append(result.items, items...)
	}
	return result
}
