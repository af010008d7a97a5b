// Package shortcode turns database ids into short, non-sequential codes.
package shortcode

import "github.com/sqids/sqids-go"

type Generator struct {
	sqids *sqids.Sqids
}

func New() (*Generator, error) {
	s, err := sqids.New(sqids.Options{
		MinLength: 6,
	})
	if err != nil {
		return nil, err
	}
	return &Generator{sqids: s}, nil
}

func (g *Generator) Generate(id int64) (string, error) {
	return g.sqids.Encode([]uint64{uint64(id)})
}
