package detection

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/ironsheep/pagescan/internal/geometry"
)

// ErrUnknownStrategy is returned by StrategyByName for unrecognised names.
var ErrUnknownStrategy = errors.New("unknown ranking strategy")

// RankingStrategy orders candidate contours for the acceptance walk.
//
// Prepare receives the raw traced contours and returns at most topK of
// them, largest first by the strategy's own measure. It may replace a
// contour by a closed substitute (hull or rectangle) but never modifies
// the input slice or its contours.
type RankingStrategy interface {
	Name() string
	Prepare(contours []geometry.Contour, topK int) []geometry.Contour
}

// AreaRanking orders contours by enclosed area.
type AreaRanking struct{}

func (AreaRanking) Name() string { return "area" }

func (AreaRanking) Prepare(contours []geometry.Contour, topK int) []geometry.Contour {
	return rankBy(contours, topK, geometry.PolygonArea)
}

// MinRectRanking orders contours by the area of their minimum-area
// bounding rectangle, then substitutes that rectangle for every survivor
// that is not convex.
type MinRectRanking struct{}

func (MinRectRanking) Name() string { return "minrect" }

func (MinRectRanking) Prepare(contours []geometry.Contour, topK int) []geometry.Contour {
	ranked := rankBy(contours, topK, func(c geometry.Contour) float64 {
		return geometry.MinAreaRect(c).Area()
	})
	for i, c := range ranked {
		if !geometry.IsConvex(c) {
			ranked[i] = geometry.MinAreaRect(c).Corners.Contour()
		}
	}
	return ranked
}

// HullRanking replaces every non-convex contour with its convex hull and
// orders the result by area. An edge trace of a page that is broken or
// frayed at one point still closes into a usable outline this way.
type HullRanking struct{}

func (HullRanking) Name() string { return "hull" }

func (HullRanking) Prepare(contours []geometry.Contour, topK int) []geometry.Contour {
	closed := make([]geometry.Contour, len(contours))
	for i, c := range contours {
		if geometry.IsConvex(c) {
			closed[i] = c
		} else {
			closed[i] = geometry.ConvexHull(c)
		}
	}
	return rankBy(closed, topK, geometry.PolygonArea)
}

// rankBy returns the topK contours with the largest measure, in
// descending order. Ties keep their input order.
func rankBy(contours []geometry.Contour, topK int, measure func(geometry.Contour) float64) []geometry.Contour {
	type scored struct {
		c     geometry.Contour
		score float64
	}
	list := make([]scored, len(contours))
	for i, c := range contours {
		list[i] = scored{c, measure(c)}
	}
	sort.SliceStable(list, func(i, j int) bool {
		return list[i].score > list[j].score
	})

	if topK > 0 && len(list) > topK {
		list = list[:topK]
	}
	out := make([]geometry.Contour, len(list))
	for i, s := range list {
		out[i] = s.c
	}
	return out
}

// Strategies lists the names accepted by StrategyByName.
func Strategies() []string {
	return []string{"area", "minrect", "hull"}
}

// StrategyByName resolves a configuration name to a strategy. The empty
// name selects the default, HullRanking.
func StrategyByName(name string) (RankingStrategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "hull":
		return HullRanking{}, nil
	case "area":
		return AreaRanking{}, nil
	case "minrect", "min-rect", "minarearect":
		return MinRectRanking{}, nil
	default:
		return nil, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownStrategy, name, strings.Join(Strategies(), ", "))
	}
}
