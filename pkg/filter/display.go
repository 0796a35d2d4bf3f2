package filter

import (
	"context"
	"fmt"
)

// Option is a hydrated dropdown entry.
type Option struct {
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

// Resolver turns an id stored under key into its display option.
type Resolver interface {
	Resolve(ctx context.Context, key Key, id uint) (Option, error)
}

// DisplayState is derived from a Selection and never written back to it.
type DisplayState struct {
	Selection Selection      `json:"selection"`
	Options   map[Key]Option `json:"options"`
}

var binaryLabels = map[Key][2]string{
	KeyMuhrimStatus:    {"Not muhrim", "Muhrim"},
	KeyGender:          {"Female", "Male"},
	KeyDepartureStatus: {"Early", "Late"},
}

// Hydrate resolves every set id in sel into an Option.
func Hydrate(ctx context.Context, sel Selection, r Resolver) (DisplayState, error) {
	ds := DisplayState{Selection: sel.Clone(), Options: make(map[Key]Option)}
	for _, k := range Keys {
		if k == KeySource {
			if sel.Source != "" {
				ds.Options[k] = Option{Label: sel.Source}
			}
			continue
		}
		id, ok := sel.ID(k)
		if !ok {
			continue
		}
		if labels, ok := binaryLabels[k]; ok {
			if id > 1 {
				return DisplayState{}, fmt.Errorf("%w: %s must be 0 or 1", ErrInvalidValue, k)
			}
			ds.Options[k] = Option{ID: id, Label: labels[id]}
			continue
		}
		opt, err := r.Resolve(ctx, k, id)
		if err != nil {
			return DisplayState{}, fmt.Errorf("r.Resolve(%s=%d) -> %w", k, id, err)
		}
		ds.Options[k] = opt
	}

	return ds, nil
}
