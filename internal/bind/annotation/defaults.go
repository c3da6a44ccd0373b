package annotation

import "github.com/funvibe/delegator/internal/typesystem"

type emptyIterator struct{}

func (emptyIterator) HasNext() bool { return false }

func (emptyIterator) Next() typesystem.Marker {
	panic("annotation: Next called on an exhausted default iterator")
}

// EmptyDefaultProvider supplies no defaults: every parameter must be marked.
type EmptyDefaultProvider struct{}

func (EmptyDefaultProvider) MakeIterator(*typesystem.Type, *typesystem.Method, *typesystem.Method) DefaultIterator {
	return emptyIterator{}
}

type sliceIterator struct {
	markers []typesystem.Marker
	next    int
}

func (it *sliceIterator) HasNext() bool {
	return it.next < len(it.markers)
}

func (it *sliceIterator) Next() typesystem.Marker {
	if !it.HasNext() {
		panic("annotation: Next called on an exhausted default iterator")
	}
	m := it.markers[it.next]
	it.next++
	return m
}

// NextUnboundArgumentProvider assumes an Argument marker for each unmarked
// parameter, taking the source arguments in order and skipping those an
// explicit Argument marker on the target already claims.
type NextUnboundArgumentProvider struct{}

func (NextUnboundArgumentProvider) MakeIterator(_ *typesystem.Type, source, target *typesystem.Method) DefaultIterator {
	claimed := make(map[int]bool)
	for i := range target.Parameters {
		for _, m := range target.ParameterMarkersAt(i) {
			if arg, ok := m.(Argument); ok {
				claimed[arg.Index] = true
			}
		}
	}
	var markers []typesystem.Marker
	for i := range source.Parameters {
		if !claimed[i] {
			markers = append(markers, Argument{Index: i})
		}
	}
	return &sliceIterator{markers: markers}
}
