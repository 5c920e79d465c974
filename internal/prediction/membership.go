package prediction

import "sort"

// Mark is how a scatterplot point relates to a prediction and the user's
// selection.
type Mark int

const (
	MarkRegular Mark = iota
	// MarkMatch: predicted and selected.
	MarkMatch
	// MarkIPNS: in prediction, not selected.
	MarkIPNS
	// MarkISNP: in selection, not predicted.
	MarkISNP
)

func (m Mark) String() string {
	switch m {
	case MarkMatch:
		return "match"
	case MarkIPNS:
		return "ipns"
	case MarkISNP:
		return "isnp"
	default:
		return "regular"
	}
}

// Membership compares a prediction's members with a selection.
type Membership struct {
	Matches []int   `json:"matches"`
	IPNS    []int   `json:"ipns"`
	ISNP    []int   `json:"isnp"`
	Jaccard float64 `json:"jaccard"`
}

// Stats computes the membership of members against selected. Output
// slices are sorted and free of duplicates.
func Stats(members, selected []int) Membership {
	inM := toSet(members)
	inS := toSet(selected)
	m := Membership{Matches: []int{}, IPNS: []int{}, ISNP: []int{}}
	for id := range inM {
		if _, ok := inS[id]; ok {
			m.Matches = append(m.Matches, id)
		} else {
			m.IPNS = append(m.IPNS, id)
		}
	}
	for id := range inS {
		if _, ok := inM[id]; !ok {
			m.ISNP = append(m.ISNP, id)
		}
	}
	sort.Ints(m.Matches)
	sort.Ints(m.IPNS)
	sort.Ints(m.ISNP)
	if union := len(m.Matches) + len(m.IPNS) + len(m.ISNP); union > 0 {
		m.Jaccard = float64(len(m.Matches)) / float64(union)
	}
	return m
}

// Mark classifies a single point ID.
func (m Membership) Mark(id int) Mark {
	switch {
	case contains(m.Matches, id):
		return MarkMatch
	case contains(m.IPNS, id):
		return MarkIPNS
	case contains(m.ISNP, id):
		return MarkISNP
	default:
		return MarkRegular
	}
}

func contains(sorted []int, id int) bool {
	i := sort.SearchInts(sorted, id)
	return i < len(sorted) && sorted[i] == id
}

func toSet(ids []int) map[int]struct{} {
	s := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		s[id] = struct{}{}
	}
	return s
}
