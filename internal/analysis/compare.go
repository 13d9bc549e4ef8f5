package analysis

import (
	"fmt"
	"strings"

	"flowpulse-docparse/internal/domain"
)

const (
	lengthThreshold = 100
	maxSharedValues = 5
)

// Compare describes how two parsed documents relate. It is pure; the order
// of similarity values follows a.
func Compare(a, b *domain.ParsedDocument) domain.Comparison {
	similarities := []string{}
	differences := []string{}

	if a.ClassifiedType == b.ClassifiedType {
		similarities = append(similarities, fmt.Sprintf("Both documents are classified as %s", a.ClassifiedType))
	} else {
		differences = append(differences, fmt.Sprintf("Document types differ: %s vs %s", a.ClassifiedType, b.ClassifiedType))
	}

	wa, wb := a.Metadata.WordCount, b.Metadata.WordCount
	if abs(wa-wb) < lengthThreshold {
		similarities = append(similarities, fmt.Sprintf("Similar length: about %d words each", (wa+wb)/2))
	} else {
		differences = append(differences, fmt.Sprintf("Length differs: %d words vs %d words", wa, wb))
	}

	overlaps := []struct {
		name string
		a, b []string
	}{
		{"numbers", a.KeyData.Numbers, b.KeyData.Numbers},
		{"entities", a.KeyData.Entities, b.KeyData.Entities},
		{"dates", a.KeyData.Dates, b.KeyData.Dates},
	}
	for _, o := range overlaps {
		shared := intersect(o.a, o.b)
		if len(shared) == 0 {
			continue
		}
		if len(shared) > maxSharedValues {
			shared = shared[:maxSharedValues]
		}
		similarities = append(similarities, fmt.Sprintf("Shared %s: %s", o.name, strings.Join(shared, ", ")))
	}

	return domain.Comparison{
		Similarities: similarities,
		Differences:  differences,
		Summary:      summarize(similarities, differences),
	}
}

func summarize(similarities, differences []string) string {
	if len(similarities) == 0 && len(differences) == 0 {
		return ""
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Found %d similarities and %d differences.", len(similarities), len(differences))
	if len(similarities) > 0 {
		fmt.Fprintf(&b, " Key similarity: %s.", similarities[0])
	}
	if len(differences) > 0 {
		fmt.Fprintf(&b, " Key difference: %s.", differences[0])
	}
	return b.String()
}

// intersect returns the values of a that also appear in b, in a's order.
func intersect(a, b []string) []string {
	inB := make(map[string]struct{}, len(b))
	for _, v := range b {
		inB[v] = struct{}{}
	}
	var out []string
	seen := make(map[string]struct{})
	for _, v := range a {
		if _, ok := inB[v]; !ok {
			continue
		}
		if _, dup := seen[v]; dup {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
