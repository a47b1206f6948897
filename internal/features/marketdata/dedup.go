package marketdata

import "sort"

// planDuplicateRemoval groups record metadata by natural key and decides,
// deterministically, which document survives each group: the one with the
// most recent fetch timestamp, ties broken by the lexicographically
// smallest document id. Keyless records are never deleted.
func planDuplicateRemoval(metas []RecordMeta) DedupPlan {
	plan := DedupPlan{
		Total:         len(metas),
		SurvivorByKey: make(map[string]string),
	}

	groups := make(map[string][]RecordMeta)
	for _, meta := range metas {
		if meta.NaturalKey == "" {
			plan.Keyless++
			continue
		}
		groups[meta.NaturalKey] = append(groups[meta.NaturalKey], meta)
	}
	plan.Groups = len(groups)

	for key, group := range groups {
		if len(group) == 1 {
			plan.SurvivorByKey[key] = group[0].DocID
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			if !group[i].FetchedAt.Equal(group[j].FetchedAt) {
				return group[i].FetchedAt.After(group[j].FetchedAt)
			}
			return group[i].DocID < group[j].DocID
		})

		plan.SurvivorByKey[key] = group[0].DocID
		for _, loser := range group[1:] {
			plan.Deletions = append(plan.Deletions, loser.DocID)
		}
	}

	// Deterministic delete order regardless of map iteration
	sort.Strings(plan.Deletions)

	return plan
}

// chunkIDs splits a deletion list into Mongo-batch-sized slices.
func chunkIDs(ids []string, size int) [][]string {
	if size <= 0 {
		size = 500
	}
	var chunks [][]string
	for len(ids) > size {
		chunks = append(chunks, ids[:size])
		ids = ids[size:]
	}
	if len(ids) > 0 {
		chunks = append(chunks, ids)
	}
	return chunks
}
