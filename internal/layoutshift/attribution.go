package layoutshift

// MaxImpactedSources is how many sources an entry keeps by default.
const MaxImpactedSources = 5

// Attribute keeps at most limit sources, preferring the largest impact
// area. Once full, a larger source takes the slot of the smallest kept
// one, so surviving sources keep their positions. limit <= 0 means
// MaxImpactedSources.
func Attribute(sources []Source, limit int) []Source {
	if limit <= 0 {
		limit = MaxImpactedSources
	}
	kept := make([]Source, 0, min(limit, len(sources)))
	for _, s := range sources {
		if len(kept) < limit {
			kept = append(kept, s)
			continue
		}
		smallest := 0
		for i := 1; i < len(kept); i++ {
			if kept[i].ImpactArea() < kept[smallest].ImpactArea() {
				smallest = i
			}
		}
		if s.ImpactArea() > kept[smallest].ImpactArea() {
			kept[smallest] = s
		}
	}
	return kept
}
