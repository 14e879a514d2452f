// Package quickmap plots the neighbourhood structure of an areal
// dataset in one call.
//
// [Compose] chains the four stages: validate the collection, normalize
// its 'nb' column into a neighbour relation, span connector segments
// between representative points, and compose the map layers. The
// returned [mapview.Map] renders to SVG or PNG any number of times.
package quickmap

import (
	"github.com/nbmap/nbmap/pkg/areal"
	"github.com/nbmap/nbmap/pkg/links"
	"github.com/nbmap/nbmap/pkg/render/mapview"
)

// Compose builds the neighbourhood map of col. The collection must
// carry a 'nb' column holding a neighbours list or matrix; both forms
// produce identical maps. Stages fail atomically: on error nothing is
// partially rendered and the collection is left untouched.
func Compose(col *areal.Collection, opts mapview.Options) (*mapview.Map, error) {
	if col == nil {
		return nil, areal.ErrNotSimpleFeatures
	}
	rel, err := col.Neighbours()
	if err != nil {
		return nil, err
	}
	set, err := links.Build(col, rel)
	if err != nil {
		return nil, err
	}
	return mapview.Compose(col, set, opts)
}
