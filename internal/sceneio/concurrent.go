package sceneio

import (
	"io"

	"golang.org/x/sync/errgroup"

	"github.com/cbegin/acidcore-go/internal/scene"
)

// LoadAll parses one scene per reader concurrently, preserving input
// order in the returned slice. Each scene gets its own automation pool
// sized poolCapacity. Every reader is parsed to its end even after
// another has failed; if any parse fails, the first error is returned
// together with a nil slice.
func LoadAll(readers []io.Reader, poolCapacity int) ([]*scene.Scene, error) {
	out := make([]*scene.Scene, len(readers))
	var g errgroup.Group
	for i, r := range readers {
		i, r := i, r
		g.Go(func() error {
			scn, err := Load(r, poolCapacity)
			if err != nil {
				return err
			}
			out[i] = scn
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
