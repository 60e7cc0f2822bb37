// Package advisormock provides a testify mock of the advisor.Generator
// interface.
package advisormock

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/juasmart/juasmart/pkg/advisor"
	"github.com/juasmart/juasmart/pkg/types"
)

// Generator is a mock implementation of advisor.Generator.
type Generator struct {
	mock.Mock
}

var _ advisor.Generator = (*Generator)(nil)

func (g *Generator) Generate(ctx context.Context, req advisor.Request) (types.Recommendation, error) {
	args := g.Called(ctx, req)
	return args.Get(0).(types.Recommendation), args.Error(1)
}

func (g *Generator) Chat(ctx context.Context, message string, cc advisor.ChatContext) (string, error) {
	args := g.Called(ctx, message, cc)
	return args.String(0), args.Error(1)
}
